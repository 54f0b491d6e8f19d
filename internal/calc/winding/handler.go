package winding

import (
	"fmt"
	"net/http"

	"Mandrel/internal/api"
	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/material"
)

type Handler struct {
	Registry *material.Registry
}

type calculateRequest struct {
	laminate.LayupRequest
	DiameterBottomMM float64 `json:"diameter_bottom_mm" validate:"gt=0"`
	DiameterTopMM    float64 `json:"diameter_top_mm" validate:"gt=0"`
	HeightMM         float64 `json:"height_mm" validate:"gt=0"`
	WindingAngleDeg  float64 `json:"winding_angle_deg" validate:"gt=0,lt=90"`
	TowWidthMM       float64 `json:"tow_width_mm" validate:"gt=0"`
	TowCount         int     `json:"tow_count" validate:"gte=1,lte=64"`
	Overlap          float64 `json:"overlap" validate:"gte=0,lt=1"`
	Process          string  `json:"process"`
}

type calculateResponse struct {
	Success          bool               `json:"success"`
	Sequence         string             `json:"sequence"`
	NumLayers        int                `json:"num_layers"`
	CircumferenceM   float64            `json:"circumference_m"`
	PathLengthM      float64            `json:"path_length_m"`
	Passes           int                `json:"passes"`
	TimeSeconds      float64            `json:"time_seconds"`
	TimeMinutes      float64            `json:"time_minutes"`
	MassKG           float64            `json:"mass_kg"`
	TotalThicknessMM float64            `json:"total_thickness_mm"`
	Layers           []laminate.LayerDTO `json:"layers"`
}

// Calc plans the winding job for a layup on a cylindrical or conical
// mandrel: coverage, machine time and laminate mass.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	req := calculateRequest{
		LayupRequest:     laminate.DefaultLayupRequest(),
		DiameterBottomMM: 200,
		DiameterTopMM:    200,
		HeightMM:         500,
		WindingAngleDeg:  45,
		TowWidthMM:       5,
		TowCount:         8,
		Overlap:          0.1,
		Process:          "Towpreg",
	}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	plies, mat, err := req.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	proc, err := h.Registry.Process(req.Process)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	thickness := laminate.TotalThickness(plies)
	res, err := Calculate(Input{
		DiameterBottom:  req.DiameterBottomMM * 1e-3,
		DiameterTop:     req.DiameterTopMM * 1e-3,
		Height:          req.HeightMM * 1e-3,
		WindingAngleDeg: req.WindingAngleDeg,
		TowWidth:        req.TowWidthMM * 1e-3,
		TowCount:        req.TowCount,
		Overlap:         req.Overlap,
		NumLayers:       len(plies),
		TotalThickness:  thickness,
		Density:         mat.Density,
		LineSpeed:       proc.LineSpeed,
		Efficiency:      proc.Efficiency,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, calculateResponse{
		Success:          true,
		Sequence:         req.Sequence,
		NumLayers:        len(plies),
		CircumferenceM:   res.Circumference,
		PathLengthM:      res.PathLengthPerPass,
		Passes:           res.TotalPasses,
		TimeSeconds:      res.TimeSeconds,
		TimeMinutes:      res.TimeSeconds / 60,
		MassKG:           res.Mass,
		TotalThicknessMM: thickness * 1e3,
		Layers:           laminate.LayersDTO(plies, mat.Name),
	})
}

type exportRequest struct {
	laminate.LayupRequest
	DiameterMM      float64 `json:"diameter_mm" validate:"gt=0"`
	LengthMM        float64 `json:"length_mm" validate:"gt=0"`
	WindingAngleDeg float64 `json:"winding_angle_deg" validate:"gte=0,lte=90"`
	PitchMM         float64 `json:"pitch_mm" validate:"gt=0"`
	NumTurns        int     `json:"num_turns" validate:"gte=1,lte=1000"`
	StepDeg         float64 `json:"step_deg" validate:"gte=0,lte=90"`
	MachineType     string  `json:"machine_type" validate:"omitempty,oneof=2-axis 4-axis"`
	ControllerType  string  `json:"controller_type" validate:"omitempty,oneof=fanuc siemens generic"`
	FeedRateMMMin   float64 `json:"feed_rate_mm_min" validate:"gt=0"`
}

type pathStatsDTO struct {
	NumPoints         int     `json:"num_points"`
	TotalPathLengthMM float64 `json:"total_path_length_mm"`
	EstimatedTimeMin  float64 `json:"estimated_time_min"`
}

type machineConfigDTO struct {
	Type       string `json:"type"`
	Controller string `json:"controller"`
}

type exportResponse struct {
	Success          bool             `json:"success"`
	InstructionsText string           `json:"instructions_text"`
	Filename         string           `json:"filename"`
	NumInstructions  int              `json:"num_instructions"`
	MachineConfig    machineConfigDTO `json:"machine_config"`
	PathStatistics   pathStatsDTO     `json:"path_statistics"`
}

// Export discretizes a helical pass and renders it for the requested
// controller. The layup is parsed so a garbage sequence is rejected before
// any machine code leaves the server.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req := exportRequest{
		LayupRequest:    laminate.DefaultLayupRequest(),
		DiameterMM:      200,
		LengthMM:        500,
		WindingAngleDeg: 45,
		PitchMM:         10,
		NumTurns:        5,
		MachineType:     MachineFourAxis,
		ControllerType:  ControllerGeneric,
		FeedRateMMMin:   100,
	}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if _, _, err := req.Plies(h.Registry); err != nil {
		api.WriteError(w, r, err)
		return
	}

	path, err := HelicalPath(PathInput{
		DiameterMM: req.DiameterMM,
		LengthMM:   req.LengthMM,
		PitchMM:    req.PitchMM,
		NumTurns:   req.NumTurns,
		StepDeg:    req.StepDeg,
		FeedMMMin:  req.FeedRateMMMin,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	exp, err := ExportGCode(ExportInput{
		Path:        path,
		DiameterMM:  req.DiameterMM,
		EyeAngleDeg: req.WindingAngleDeg,
		MachineType: req.MachineType,
		Controller:  req.ControllerType,
		Program:     fmt.Sprintf("WINDING %.0fx%.0f", req.DiameterMM, req.LengthMM),
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, exportResponse{
		Success:          true,
		InstructionsText: exp.Text,
		Filename:         exp.Filename,
		NumInstructions:  exp.NumInstructions,
		MachineConfig:    machineConfigDTO{Type: req.MachineType, Controller: req.ControllerType},
		PathStatistics: pathStatsDTO{
			NumPoints:         len(path.Instructions),
			TotalPathLengthMM: path.TotalLengthMM,
			EstimatedTimeMin:  path.TimeMinutes,
		},
	})
}
