package report

import (
	"bytes"
	"net/http"

	"Mandrel/internal/api"
	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/material"
)

type Handler struct {
	Registry *material.Registry
}

type reportRequest struct {
	laminate.LayupRequest
	Project   string   `json:"project" validate:"omitempty,max=120"`
	Author    string   `json:"author" validate:"omitempty,max=120"`
	Nx        *float64 `json:"N_x"`
	Ny        float64  `json:"N_y"`
	Nxy       float64  `json:"N_xy"`
	Criterion string   `json:"criterion" validate:"omitempty,oneof=tsai_wu max_stress"`
}

// Generate runs the full analysis pipeline and answers with the PDF. The
// failure section appears only when the request carries a load.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	req := reportRequest{LayupRequest: laminate.DefaultLayupRequest()}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	plies, matl, err := req.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	abd, err := laminate.AssembleABD(plies)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	eff, err := laminate.Effective(abd, laminate.TotalThickness(plies))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	in := Input{
		Project:   req.Project,
		Author:    req.Author,
		Sequence:  req.Sequence,
		Material:  matl.Name,
		Plies:     plies,
		Effective: eff,
	}
	if req.Nx != nil || req.Ny != 0 || req.Nxy != 0 {
		load := laminate.LoadState{Ny: req.Ny, Nxy: req.Nxy}
		if req.Nx != nil {
			load.Nx = *req.Nx
		}
		fres, err := laminate.AnalyzeFailure(plies, abd, load,
			laminate.Criteria{Criterion: req.Criterion})
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		in.Load = &load
		in.Failure = &fres
	}

	// render fully before committing response headers
	var buf bytes.Buffer
	if err := Build(&buf, in); err != nil {
		api.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="laminate_report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
