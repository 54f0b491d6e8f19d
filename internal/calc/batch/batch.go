// Package batch runs the failure analysis over many load cases in one
// call, either from a JSON array or an uploaded spreadsheet.
package batch

import (
	"fmt"

	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/fwerr"
)

// Case is one membrane load set, in N/m.
type Case struct {
	Name string  `json:"name"`
	Nx   float64 `json:"N_x"`
	Ny   float64 `json:"N_y"`
	Nxy  float64 `json:"N_xy"`
}

// CaseResult reports one case. A case that cannot be analyzed carries its
// error instead of failing the whole batch.
type CaseResult struct {
	Name            string  `json:"name"`
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
	MinSafetyFactor float64 `json:"min_safety_factor,omitempty"`
	CriticalPlyID   int     `json:"critical_ply_id,omitempty"`
	DesignStatus    string  `json:"design_status,omitempty"`
}

type Input struct {
	Plies    []laminate.Ply
	Criteria laminate.Criteria
	Cases    []Case
}

type Result struct {
	Results []CaseResult
	NumOK   int
}

// Run analyzes every case against the same stack. The stiffness assembly
// happens once; results keep the input order.
func Run(in Input) (Result, error) {
	if len(in.Cases) == 0 {
		return Result{}, fwerr.Input("batch needs at least one load case")
	}
	abd, err := laminate.AssembleABD(in.Plies)
	if err != nil {
		return Result{}, err
	}

	out := Result{Results: make([]CaseResult, 0, len(in.Cases))}
	for i, c := range in.Cases {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case %d", i+1)
		}
		res, err := laminate.AnalyzeFailure(in.Plies, abd,
			laminate.LoadState{Nx: c.Nx, Ny: c.Ny, Nxy: c.Nxy}, in.Criteria)
		if err != nil {
			out.Results = append(out.Results, CaseResult{Name: name, Error: err.Error()})
			continue
		}
		out.Results = append(out.Results, CaseResult{
			Name:            name,
			Success:         true,
			MinSafetyFactor: res.MinSafetyFactor,
			CriticalPlyID:   res.CriticalPlyID,
			DesignStatus:    res.Status,
		})
		out.NumOK++
	}
	return out, nil
}
