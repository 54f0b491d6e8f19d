// Package autodesign searches for the thinnest repetition of a base stack
// that satisfies a target safety factor.
package autodesign

import (
	"fmt"
	"strings"

	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/fwerr"
	"Mandrel/internal/material"
)

// maxRepeats bounds the search; a base stack that cannot reach target
// within this many repetitions needs a different layup, not more plies.
const maxRepeats = 64

type Input struct {
	BaseSequence string
	Material     material.Material
	PlyThickness float64 // m
	Load         laminate.LoadState
	TargetSF     float64
	Criteria     laminate.Criteria
}

type Result struct {
	Repeats    int
	Sequence   string
	NumPlies   int
	AchievedSF float64
	Analysis   laminate.FailureResult
}

// Repeat thickens the base stack by whole repetitions until the minimum
// safety factor reaches the target. The first repetition keeps the base
// sequence verbatim; later ones wrap it in the Nx prefix form.
func Repeat(in Input) (Result, error) {
	if strings.TrimSpace(in.BaseSequence) == "" {
		return Result{}, fwerr.Input("base sequence must not be empty")
	}
	if in.TargetSF < 1 {
		return Result{}, fwerr.Input("target safety factor must be at least 1, got %g", in.TargetSF)
	}

	for n := 1; n <= maxRepeats; n++ {
		seq := in.BaseSequence
		if n > 1 {
			seq = fmt.Sprintf("%dx%s", n, in.BaseSequence)
		}
		plies, err := laminate.ParseSequence(seq, in.PlyThickness, in.Material)
		if err != nil {
			return Result{}, err
		}
		abd, err := laminate.AssembleABD(plies)
		if err != nil {
			return Result{}, err
		}
		res, err := laminate.AnalyzeFailure(plies, abd, in.Load, in.Criteria)
		if err != nil {
			return Result{}, err
		}
		if res.MinSafetyFactor >= in.TargetSF {
			return Result{
				Repeats:    n,
				Sequence:   seq,
				NumPlies:   len(plies),
				AchievedSF: res.MinSafetyFactor,
				Analysis:   res,
			}, nil
		}
	}
	return Result{}, fwerr.Input("target safety factor %g not reachable within %d repetitions of %q", in.TargetSF, maxRepeats, in.BaseSequence)
}
