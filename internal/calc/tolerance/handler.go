package tolerance

import (
	"net/http"

	"Mandrel/internal/api"
	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/material"
)

type Handler struct {
	Registry *material.Registry
}

type studyRequest struct {
	laminate.LayupRequest
	AngleTolDeg     float64  `json:"angle_tolerance_deg" validate:"gte=0,lte=15"`
	ThicknessTolPct float64  `json:"thickness_tolerance_pct" validate:"gte=0,lte=50"`
	NumSamples      int      `json:"num_samples" validate:"gte=1,lte=5000"`
	Nx              *float64 `json:"N_x"`
	Ny              float64  `json:"N_y"`
	Nxy             float64  `json:"N_xy"`
	Criterion       string   `json:"criterion" validate:"omitempty,oneof=tsai_wu max_stress"`
	Seed            *uint64  `json:"seed"`
}

type statDTO struct {
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	CVPercent float64 `json:"cv_percent"`
}

type tolerancesDTO struct {
	AngleDeg     float64 `json:"angle_deg"`
	ThicknessPct float64 `json:"thickness_pct"`
}

type failureStatsDTO struct {
	MinSafetyFactor      statDTO `json:"min_safety_factor"`
	ProbabilityOfFailure float64 `json:"probability_of_failure"`
}

type studyResponse struct {
	Success            bool               `json:"success"`
	NumSamples         int                `json:"num_samples"`
	Seeded             bool               `json:"seeded"`
	Tolerances         tolerancesDTO      `json:"tolerances"`
	PropertyStatistics map[string]statDTO `json:"property_statistics"`
	FailureStatistics  *failureStatsDTO   `json:"failure_statistics,omitempty"`
}

func gpaStat(s Stat) statDTO {
	return statDTO{Mean: s.Mean / 1e9, Std: s.Std / 1e9, CVPercent: s.CVPercent}
}

// Study runs the Monte-Carlo scatter analysis. Moduli statistics are
// reported in GPa; failure statistics appear only when N_x is supplied.
func (h *Handler) Study(w http.ResponseWriter, r *http.Request) {
	req := studyRequest{
		LayupRequest:    laminate.DefaultLayupRequest(),
		AngleTolDeg:     1.0,
		ThicknessTolPct: 5.0,
		NumSamples:      500,
	}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	plies, _, err := req.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	in := Input{
		Plies:           plies,
		AngleTolDeg:     req.AngleTolDeg,
		ThicknessTolPct: req.ThicknessTolPct,
		Samples:         req.NumSamples,
		Criteria:        laminate.Criteria{Criterion: req.Criterion},
		Seed:            req.Seed,
	}
	if req.Nx != nil {
		in.Load = &laminate.LoadState{Nx: *req.Nx, Ny: req.Ny, Nxy: req.Nxy}
	}
	res, err := Run(r.Context(), in)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	resp := studyResponse{
		Success:    true,
		NumSamples: res.Samples,
		Seeded:     res.Seeded,
		Tolerances: tolerancesDTO{AngleDeg: req.AngleTolDeg, ThicknessPct: req.ThicknessTolPct},
		PropertyStatistics: map[string]statDTO{
			"E_x":   gpaStat(res.Ex),
			"E_y":   gpaStat(res.Ey),
			"G_xy":  gpaStat(res.Gxy),
			"nu_xy": {Mean: res.NuXY.Mean, Std: res.NuXY.Std, CVPercent: res.NuXY.CVPercent},
		},
	}
	if res.MinSafetyFactor != nil {
		resp.FailureStatistics = &failureStatsDTO{
			MinSafetyFactor:      statDTO(*res.MinSafetyFactor),
			ProbabilityOfFailure: res.ProbabilityOfFailure,
		}
	}
	api.WriteJSON(w, http.StatusOK, resp)
}
