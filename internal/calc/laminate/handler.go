package laminate

import (
	"net/http"

	"Mandrel/internal/api"
	"Mandrel/internal/material"
)

// Request defaults shared by the analysis endpoints. A request with an
// empty body analyzes the reference quasi-isotropic M40J stack.
const (
	DefaultSequence       = "[0/±45/90]s"
	DefaultMaterialKey    = "M40J"
	DefaultPlyThicknessMM = 0.125
)

type Handler struct {
	Registry *material.Registry
}

// LayupRequest is the sequence/material/thickness triplet every laminate
// endpoint accepts.
type LayupRequest struct {
	Sequence       string  `json:"sequence"`
	PlyThicknessMM float64 `json:"ply_thickness_mm" validate:"gte=0.01,lte=5"`
	Material       string  `json:"material"`
}

// DefaultLayupRequest returns the triplet preset used when a request omits
// fields.
func DefaultLayupRequest() LayupRequest {
	return LayupRequest{
		Sequence:       DefaultSequence,
		PlyThicknessMM: DefaultPlyThicknessMM,
		Material:       DefaultMaterialKey,
	}
}

// Plies resolves the material key and expands the stack.
func (lr LayupRequest) Plies(reg *material.Registry) ([]Ply, material.Material, error) {
	mat, err := reg.Material(lr.Material)
	if err != nil {
		return nil, material.Material{}, err
	}
	plies, err := ParseSequence(lr.Sequence, lr.PlyThicknessMM*1e-3, mat)
	if err != nil {
		return nil, material.Material{}, err
	}
	return plies, mat, nil
}

// LayerDTO is the wire form of one expanded ply.
type LayerDTO struct {
	Index                 int     `json:"index"`
	Angle                 float64 `json:"angle"`
	ThicknessMM           float64 `json:"thickness_mm"`
	Material              string  `json:"material"`
	CumulativeThicknessMM float64 `json:"cumulative_thickness_mm"`
}

// LayersDTO converts an expanded stack for responses, reporting the
// material by display name the way the presets endpoint does.
func LayersDTO(plies []Ply, materialName string) []LayerDTO {
	out := make([]LayerDTO, len(plies))
	for i, p := range plies {
		out[i] = LayerDTO{
			Index:                 p.Index,
			Angle:                 p.AngleDeg,
			ThicknessMM:           p.Thickness * 1e3,
			Material:              materialName,
			CumulativeThicknessMM: p.CumulativeThickness * 1e3,
		}
	}
	return out
}

type parseResponse struct {
	Sequence  string     `json:"sequence"`
	NumLayers int        `json:"num_layers"`
	Layers    []LayerDTO `json:"layers"`
}

// Parse expands a stacking sequence without running any analysis.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	req := DefaultLayupRequest()
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	plies, mat, err := req.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, parseResponse{
		Sequence:  req.Sequence,
		NumLayers: len(plies),
		Layers:    LayersDTO(plies, mat.Name),
	})
}

type effectiveDTO struct {
	ExGPa  float64 `json:"E_x_GPa"`
	EyGPa  float64 `json:"E_y_GPa"`
	GxyGPa float64 `json:"G_xy_GPa"`
	NuXY   float64 `json:"nu_xy"`
}

type propsResponse struct {
	Success             bool         `json:"success"`
	Sequence            string       `json:"sequence"`
	NumPlies            int          `json:"num_plies"`
	TotalThicknessMM    float64      `json:"total_thickness_mm"`
	AMatrix             Mat3         `json:"A_matrix"`
	BMatrix             Mat3         `json:"B_matrix"`
	DMatrix             Mat3         `json:"D_matrix"`
	EffectiveProperties effectiveDTO `json:"effective_properties"`
}

// Properties assembles the ABD matrices and reports smeared engineering
// constants in GPa.
func (h *Handler) Properties(w http.ResponseWriter, r *http.Request) {
	req := DefaultLayupRequest()
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	plies, _, err := req.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	abd, err := AssembleABD(plies)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	thickness := TotalThickness(plies)
	eff, err := Effective(abd, thickness)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, propsResponse{
		Success:          true,
		Sequence:         req.Sequence,
		NumPlies:         len(plies),
		TotalThicknessMM: thickness * 1e3,
		AMatrix:          abd.A,
		BMatrix:          abd.B,
		DMatrix:          abd.D,
		EffectiveProperties: effectiveDTO{
			ExGPa:  eff.Ex / 1e9,
			EyGPa:  eff.Ey / 1e9,
			GxyGPa: eff.Gxy / 1e9,
			NuXY:   eff.NuXY,
		},
	})
}

type failureRequest struct {
	LayupRequest
	Nx        float64 `json:"N_x"`
	Ny        float64 `json:"N_y"`
	Nxy       float64 `json:"N_xy"`
	LoadCase  string  `json:"load_case"`
	Criterion string  `json:"criterion" validate:"omitempty,oneof=tsai_wu max_stress"`
}

type plyResultDTO struct {
	PlyID        int     `json:"ply_id"`
	Angle        float64 `json:"angle"`
	SafetyFactor float64 `json:"safety_factor"`
	FailureMode  string  `json:"failure_mode"`
}

type globalAnalysisDTO struct {
	MinSafetyFactor      float64 `json:"min_safety_factor"`
	CriticalPlyID        int     `json:"critical_ply_id"`
	DesignStatus         string  `json:"design_status"`
	ProbabilityOfFailure float64 `json:"probability_of_failure"`
}

type failureResponse struct {
	Success        bool              `json:"success"`
	LoadCase       string            `json:"load_case"`
	Criterion      string            `json:"criterion"`
	GlobalAnalysis globalAnalysisDTO `json:"global_analysis"`
	PlyResults     []plyResultDTO    `json:"ply_results"`
}

// Failure runs first-ply failure analysis under membrane loads in N/m.
// load_case is an annotation echoed back to the caller, not a computation
// input.
func (h *Handler) Failure(w http.ResponseWriter, r *http.Request) {
	req := failureRequest{LayupRequest: DefaultLayupRequest(), Nx: 1000, LoadCase: "tension"}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	plies, _, err := req.Plies(h.Registry)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	abd, err := AssembleABD(plies)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	res, err := AnalyzeFailure(plies, abd,
		LoadState{Nx: req.Nx, Ny: req.Ny, Nxy: req.Nxy},
		Criteria{Criterion: req.Criterion})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	plyResults := make([]plyResultDTO, len(res.Plies))
	for i, p := range res.Plies {
		plyResults[i] = plyResultDTO{
			PlyID:        p.PlyID,
			Angle:        p.AngleDeg,
			SafetyFactor: p.SafetyFactor,
			FailureMode:  p.Mode,
		}
	}
	api.WriteJSON(w, http.StatusOK, failureResponse{
		Success:   true,
		LoadCase:  req.LoadCase,
		Criterion: res.Criterion,
		GlobalAnalysis: globalAnalysisDTO{
			MinSafetyFactor:      res.MinSafetyFactor,
			CriticalPlyID:        res.CriticalPlyID,
			DesignStatus:         res.Status,
			ProbabilityOfFailure: res.ProbabilityOfFailure,
		},
		PlyResults: plyResults,
	})
}
