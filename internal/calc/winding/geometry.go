// Package winding covers the manufacturing side: shell coverage geometry
// (path length, passes, cycle time, mass) and helical toolpath generation
// with controller-specific G-code emission. Geometry works in SI units;
// toolpath generation works in mm because that is the machine's native
// frame.
package winding

import (
	"math"

	"Mandrel/internal/fwerr"
)

// Input describes one wound shell. Diameters, heights and tow width in m,
// winding angle in degrees from the shell axis, overlap as a fraction of
// the band width. TotalThickness and Density feed the mass estimate;
// LineSpeed and Efficiency come from the process preset.
type Input struct {
	DiameterBottom  float64
	DiameterTop     float64
	Height          float64
	WindingAngleDeg float64
	TowWidth        float64
	TowCount        int
	Overlap         float64
	NumLayers       int
	TotalThickness  float64
	Density         float64
	LineSpeed       float64
	Efficiency      float64
}

// Result of the coverage calculation, SI units.
type Result struct {
	Circumference     float64
	PathLengthPerPass float64
	PassesPerLayer    int
	TotalPasses       int
	TotalPathLength   float64
	SurfaceArea       float64
	TimeSeconds       float64
	Mass              float64
}

// Calculate derives coverage, cycle time and mass for the shell.
// Circumference uses the mean radius; one pass traverses the full height at
// the winding angle; passes per layer are rounded up since a partial pass
// still consumes a full cycle. Mass is lateral surface × laminate thickness
// × density, stretched by 1/cos(α) for the helical fiber path.
func Calculate(in Input) (Result, error) {
	if in.DiameterBottom <= 0 || in.DiameterTop <= 0 {
		return Result{}, fwerr.Input("shell diameters must be positive")
	}
	if in.Height <= 0 {
		return Result{}, fwerr.Input("shell height must be positive, got %g m", in.Height)
	}
	if in.WindingAngleDeg <= 0 || in.WindingAngleDeg >= 90 {
		return Result{}, fwerr.Input("winding angle must be in (0°, 90°), got %g°", in.WindingAngleDeg)
	}
	if in.TowWidth <= 0 {
		return Result{}, fwerr.Input("tow width must be positive, got %g m", in.TowWidth)
	}
	if in.TowCount < 1 {
		return Result{}, fwerr.Input("tow count must be at least 1, got %d", in.TowCount)
	}
	if in.Overlap < 0 || in.Overlap >= 1 {
		return Result{}, fwerr.Input("overlap must be in [0, 1), got %g", in.Overlap)
	}
	if in.NumLayers < 1 {
		return Result{}, fwerr.Input("layer count must be at least 1, got %d", in.NumLayers)
	}
	if in.TotalThickness <= 0 {
		return Result{}, fwerr.Input("laminate thickness must be positive, got %g m", in.TotalThickness)
	}
	if in.Density <= 0 {
		return Result{}, fwerr.Input("material density must be positive, got %g kg/m³", in.Density)
	}
	if in.LineSpeed <= 0 {
		return Result{}, fwerr.Input("line speed must be positive, got %g m/s", in.LineSpeed)
	}
	eff := in.Efficiency
	if eff == 0 {
		eff = 1
	}
	if eff < 0 || eff > 1 {
		return Result{}, fwerr.Input("process efficiency must be in (0, 1], got %g", in.Efficiency)
	}

	alpha := in.WindingAngleDeg * math.Pi / 180
	rMean := (in.DiameterBottom + in.DiameterTop) / 4
	circumference := 2 * math.Pi * rMean

	pathPerPass := in.Height / math.Cos(alpha)

	band := in.TowWidth * float64(in.TowCount) * (1 - in.Overlap)
	if band <= 0 {
		return Result{}, fwerr.Input("effective band width must be positive")
	}
	passesPerLayer := int(math.Ceil(circumference / band))
	totalPasses := passesPerLayer * in.NumLayers
	totalPath := float64(totalPasses) * pathPerPass

	timeSeconds := totalPath / (in.LineSpeed * eff)

	// Frustum lateral surface; slant equals height for a cylinder.
	slant := math.Hypot(in.Height, (in.DiameterBottom-in.DiameterTop)/2)
	surface := circumference * slant

	mass := surface * in.TotalThickness * in.Density / math.Cos(alpha)

	return Result{
		Circumference:     circumference,
		PathLengthPerPass: pathPerPass,
		PassesPerLayer:    passesPerLayer,
		TotalPasses:       totalPasses,
		TotalPathLength:   totalPath,
		SurfaceArea:       surface,
		TimeSeconds:       timeSeconds,
		Mass:              mass,
	}, nil
}
