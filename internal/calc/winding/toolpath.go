package winding

import (
	"math"

	"Mandrel/internal/fwerr"
)

// PathInput describes a helical toolpath on a cylindrical mandrel. All
// lengths in mm (machine frame). StepDeg is the angular discretization;
// zero takes the 5° default.
type PathInput struct {
	DiameterMM float64
	LengthMM   float64
	PitchMM    float64
	NumTurns   int
	StepDeg    float64
	FeedMMMin  float64
}

// Instruction is one discretized motion step: cumulative mandrel rotation
// and carriage position, with the programmed feed.
type Instruction struct {
	RotationDeg float64
	CarriageMM  float64
	FeedMMMin   float64
}

// Path is the discretized helix plus its summary statistics.
type Path struct {
	Instructions     []Instruction
	TotalRotationDeg float64
	TotalLengthMM    float64
	TimeMinutes      float64
}

const defaultStepDeg = 5.0

// HelicalPath discretizes NumTurns helix revolutions at a fixed angular
// step. The instruction count is exactly NumTurns·360/StepDeg; rotation
// accumulates (no modulo) so the mandrel controller sees a monotone axis.
func HelicalPath(in PathInput) (Path, error) {
	if in.DiameterMM <= 0 {
		return Path{}, fwerr.Input("mandrel diameter must be positive, got %g mm", in.DiameterMM)
	}
	if in.LengthMM <= 0 {
		return Path{}, fwerr.Input("mandrel length must be positive, got %g mm", in.LengthMM)
	}
	if in.PitchMM <= 0 {
		return Path{}, fwerr.Input("pitch must be positive, got %g mm", in.PitchMM)
	}
	if in.NumTurns < 1 {
		return Path{}, fwerr.Input("turn count must be at least 1, got %d", in.NumTurns)
	}
	if in.FeedMMMin <= 0 {
		return Path{}, fwerr.Input("feed rate must be positive, got %g mm/min", in.FeedMMMin)
	}
	step := in.StepDeg
	if step == 0 {
		step = defaultStepDeg
	}
	if step <= 0 || step > 90 {
		return Path{}, fwerr.Input("angular step must be in (0°, 90°], got %g°", step)
	}
	perTurn := 360 / step
	if math.Abs(perTurn-math.Round(perTurn)) > 1e-9 {
		return Path{}, fwerr.Input("angular step %g° must divide 360°", step)
	}

	travel := float64(in.NumTurns) * in.PitchMM
	if travel > in.LengthMM+1e-9 {
		return Path{}, fwerr.Input("helix travel %g mm exceeds mandrel length %g mm", travel, in.LengthMM)
	}

	count := in.NumTurns * int(math.Round(perTurn))
	instructions := make([]Instruction, count)
	for i := 1; i <= count; i++ {
		theta := float64(i) * step
		instructions[i-1] = Instruction{
			RotationDeg: theta,
			CarriageMM:  theta / 360 * in.PitchMM,
			FeedMMMin:   in.FeedMMMin,
		}
	}

	// Helix arc length: one turn covers √((πD)² + pitch²).
	turnLength := math.Hypot(math.Pi*in.DiameterMM, in.PitchMM)
	totalLength := float64(in.NumTurns) * turnLength

	return Path{
		Instructions:     instructions,
		TotalRotationDeg: float64(count) * step,
		TotalLengthMM:    totalLength,
		TimeMinutes:      totalLength / in.FeedMMMin,
	}, nil
}
