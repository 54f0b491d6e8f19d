// Package recommend suggests a winding angle from the membrane load ratio.
package recommend

import (
	"math"

	"Mandrel/internal/fwerr"
)

type Input struct {
	NAxial float64 // N/m
	NHoop  float64 // N/m
}

type Result struct {
	WindingAngleDeg float64
	Basis           string
}

// WindingAngle returns the netting-analysis angle tan²α = N_hoop/N_axial,
// at which the fibers alone balance both resultants. A closed-end vessel
// (2:1 ratio) gives the classic 54.74°.
func WindingAngle(in Input) (Result, error) {
	if in.NAxial <= 0 || in.NHoop <= 0 {
		return Result{}, fwerr.Input("netting analysis needs positive axial and hoop resultants, got N_axial=%g N_hoop=%g", in.NAxial, in.NHoop)
	}
	angle := math.Atan(math.Sqrt(in.NHoop/in.NAxial)) * 180 / math.Pi
	return Result{
		WindingAngleDeg: angle,
		Basis:           "netting analysis, tan^2(alpha) = N_hoop/N_axial",
	}, nil
}
