package batch

import (
	"net/http"
	"strconv"

	"Mandrel/internal/api"
	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/fwerr"
	"Mandrel/internal/material"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Registry *material.Registry
}

type batchRequest struct {
	laminate.LayupRequest
	Criterion string `json:"criterion" validate:"omitempty,oneof=tsai_wu max_stress"`
	Cases     []Case `json:"cases" validate:"required,min=1,max=1000"`
}

type batchResponse struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	Results []CaseResult `json:"results"`
}

// Run analyzes a JSON array of load cases against one layup.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	req := batchRequest{LayupRequest: laminate.DefaultLayupRequest()}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	plies, _, err := req.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	res, err := Run(Input{
		Plies:    plies,
		Criteria: laminate.Criteria{Criterion: req.Criterion},
		Cases:    req.Cases,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, batchResponse{
		Success: true,
		Count:   res.NumOK,
		Results: res.Results,
	})
}

// Import runs the batch from an uploaded xlsx workbook. Layup fields come
// from ordinary form values and fall back to the usual defaults.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, r, fwerr.Input("workbook file required"))
		return
	}
	defer file.Close()

	layup := laminate.DefaultLayupRequest()
	if v := r.FormValue("sequence"); v != "" {
		layup.Sequence = v
	}
	if v := r.FormValue("material"); v != "" {
		layup.Material = v
	}
	if v := r.FormValue("ply_thickness_mm"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			api.WriteError(w, r, fwerr.Input("ply_thickness_mm must be a number"))
			return
		}
		layup.PlyThicknessMM = t
	}
	plies, _, err := layup.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	cases, err := ReadCases(file)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	res, err := Run(Input{
		Plies:    plies,
		Criteria: laminate.Criteria{Criterion: r.FormValue("criterion")},
		Cases:    cases,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, batchResponse{
		Success: true,
		Count:   res.NumOK,
		Results: res.Results,
	})
}
