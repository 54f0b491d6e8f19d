package autodesign

import (
	"net/http"

	"Mandrel/internal/api"
	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/material"
)

type Handler struct {
	Registry *material.Registry
}

type designRequest struct {
	Sequence       string  `json:"sequence"`
	Material       string  `json:"material"`
	PlyThicknessMM float64 `json:"ply_thickness_mm" validate:"gte=0.01,lte=5"`
	Nx             float64 `json:"N_x"`
	Ny             float64 `json:"N_y"`
	Nxy            float64 `json:"N_xy"`
	TargetSF       float64 `json:"target_safety_factor" validate:"gte=1,lte=100"`
	Criterion      string  `json:"criterion" validate:"omitempty,oneof=tsai_wu max_stress"`
}

type designResponse struct {
	Success          bool    `json:"success"`
	Repeats          int     `json:"repeats"`
	Sequence         string  `json:"sequence"`
	NumPlies         int     `json:"num_plies"`
	AchievedSF       float64 `json:"achieved_safety_factor"`
	TotalThicknessMM float64 `json:"total_thickness_mm"`
	DesignStatus     string  `json:"design_status"`
}

// Design repeats the requested base stack until the target safety factor
// holds under the given membrane loads.
func (h *Handler) Design(w http.ResponseWriter, r *http.Request) {
	req := designRequest{
		Sequence:       laminate.DefaultSequence,
		Material:       laminate.DefaultMaterialKey,
		PlyThicknessMM: laminate.DefaultPlyThicknessMM,
		Nx:             1000,
		TargetSF:       1.5,
	}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	mat, err := h.Registry.Material(req.Material)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	res, err := Repeat(Input{
		BaseSequence: req.Sequence,
		Material:     mat,
		PlyThickness: req.PlyThicknessMM * 1e-3,
		Load:         laminate.LoadState{Nx: req.Nx, Ny: req.Ny, Nxy: req.Nxy},
		TargetSF:     req.TargetSF,
		Criteria:     laminate.Criteria{Criterion: req.Criterion},
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, designResponse{
		Success:          true,
		Repeats:          res.Repeats,
		Sequence:         res.Sequence,
		NumPlies:         res.NumPlies,
		AchievedSF:       res.AchievedSF,
		TotalThicknessMM: float64(res.NumPlies) * req.PlyThicknessMM,
		DesignStatus:     res.Analysis.Status,
	})
}
