// Package loads derives membrane force resultants for thin-walled
// cylindrical vessels under internal pressure, axial force and torque.
package loads

import (
	"math"

	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/fwerr"
)

// Input is the load set on a closed-end cylindrical vessel. SI units:
// Pa, m, N, N·m. AxialForce is tension-positive.
type Input struct {
	Pressure   float64
	Radius     float64
	AxialForce float64
	Torque     float64
}

// Vessel returns the membrane resultants in the shell frame, x axial and
// y hoop. Closed ends carry pressure as N_x = p·r/2 and N_y = p·r; an
// external axial force spreads over the circumference and a torque shears
// the wall as N_xy = T/(2πr²).
func Vessel(in Input) (laminate.LoadState, error) {
	if in.Radius <= 0 {
		return laminate.LoadState{}, fwerr.Input("vessel radius must be positive, got %g m", in.Radius)
	}
	if in.Pressure < 0 {
		return laminate.LoadState{}, fwerr.Input("internal pressure must be non-negative, got %g Pa", in.Pressure)
	}
	if in.Pressure == 0 && in.AxialForce == 0 && in.Torque == 0 {
		return laminate.LoadState{}, fwerr.Input("vessel carries no load")
	}
	circ := 2 * math.Pi * in.Radius
	return laminate.LoadState{
		Nx:  in.Pressure*in.Radius/2 + in.AxialForce/circ,
		Ny:  in.Pressure * in.Radius,
		Nxy: in.Torque / (circ * in.Radius),
	}, nil
}
