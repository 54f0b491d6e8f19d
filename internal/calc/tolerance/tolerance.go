// Package tolerance propagates manufacturing scatter through the laminate
// pipeline: every sample perturbs each ply's angle and thickness, rebuilds
// the stiffness and failure response, and folds the results into running
// statistics. Sampling is parallel across a worker pool; each worker owns a
// deterministic random stream so a seeded run is reproducible regardless of
// scheduling.
package tolerance

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/fwerr"
)

// Input is one study specification. AngleTolDeg is the standard deviation of
// the ply-angle perturbation in absolute degrees; ThicknessTolPct the
// standard deviation of the relative thickness perturbation in percent.
// Load is optional; when present each sample also runs the failure analysis
// and the result carries safety-factor statistics.
type Input struct {
	Plies           []laminate.Ply
	AngleTolDeg     float64
	ThicknessTolPct float64
	Samples         int
	Load            *laminate.LoadState
	Criteria        laminate.Criteria
	Seed            *uint64
}

// Result aggregates the study. Seeded records whether the caller supplied a
// seed; an unseeded run is not reproducible.
type Result struct {
	Ex   Stat
	Ey   Stat
	Gxy  Stat
	NuXY Stat

	MinSafetyFactor      *Stat
	ProbabilityOfFailure float64

	Nominal laminate.EffectiveProperties
	Samples int
	Seeded  bool
}

// perWorker collects one worker's contribution.
type perWorker struct {
	ex, ey, gxy, nuxy welford
	sf                welford
	failures          int
	err               error
}

// minimum toleranced ply thickness, 1 µm; a large negative draw must not
// produce a non-physical ply.
const thicknessFloor = 1e-6

// Run executes the study. The sampling loop is embarrassingly parallel; the
// reduction is a commutative merge so statistics are independent of
// execution order. Cancellation of ctx aborts the run with an error.
func Run(ctx context.Context, in Input) (Result, error) {
	if len(in.Plies) == 0 {
		return Result{}, fwerr.Input("tolerance study needs a non-empty ply stack")
	}
	if in.Samples < 1 {
		return Result{}, fwerr.Input("sample count must be at least 1, got %d", in.Samples)
	}
	if in.AngleTolDeg < 0 || in.ThicknessTolPct < 0 {
		return Result{}, fwerr.Input("tolerances must be non-negative")
	}

	crit := in.Criteria
	if crit.Criterion == "" {
		crit = laminate.DefaultCriteria()
	}

	nominalABD, err := laminate.AssembleABD(in.Plies)
	if err != nil {
		return Result{}, err
	}
	nominal, err := laminate.Effective(nominalABD, laminate.TotalThickness(in.Plies))
	if err != nil {
		return Result{}, err
	}
	if in.Load != nil {
		if _, err := laminate.AnalyzeFailure(in.Plies, nominalABD, *in.Load, crit); err != nil {
			return Result{}, err
		}
	}

	seed := uint64(time.Now().UnixNano())
	seeded := false
	if in.Seed != nil {
		seed = *in.Seed
		seeded = true
	}

	workers := runtime.NumCPU()
	if workers > in.Samples {
		workers = in.Samples
	}

	acc := make([]perWorker, workers)
	var wg sync.WaitGroup
	base := in.Samples / workers
	rem := in.Samples % workers

	for w := 0; w < workers; w++ {
		count := base
		if w < rem {
			count++
		}
		wg.Add(1)
		go func(w, count int) {
			defer wg.Done()
			src := rand.NewSource(seed + uint64(w)*0x9E3779B97F4A7C15)
			acc[w] = sampleLoop(ctx, in, crit, src, count)
		}(w, count)
	}
	wg.Wait()

	out := Result{Nominal: nominal, Samples: in.Samples, Seeded: seeded}
	var sf welford
	failures := 0
	var ex, ey, gxy, nuxy welford
	for _, a := range acc {
		if a.err != nil {
			return Result{}, a.err
		}
		ex.merge(a.ex)
		ey.merge(a.ey)
		gxy.merge(a.gxy)
		nuxy.merge(a.nuxy)
		sf.merge(a.sf)
		failures += a.failures
	}
	out.Ex, out.Ey, out.Gxy, out.NuXY = ex.stat(), ey.stat(), gxy.stat(), nuxy.stat()
	if in.Load != nil {
		s := sf.stat()
		out.MinSafetyFactor = &s
		out.ProbabilityOfFailure = float64(failures) / float64(in.Samples)
	}
	return out, nil
}

func sampleLoop(ctx context.Context, in Input, crit laminate.Criteria, src rand.Source, count int) perWorker {
	var pw perWorker

	angleDist := distuv.Normal{Mu: 0, Sigma: in.AngleTolDeg, Src: src}
	thickDist := distuv.Normal{Mu: 0, Sigma: in.ThicknessTolPct / 100, Src: src}

	sample := make([]laminate.Ply, len(in.Plies))
	failedBelow := crit.FailedBelow
	if failedBelow == 0 {
		failedBelow = 1.0
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			pw.err = fwerr.Wrap(fwerr.KindInput, err, "tolerance study canceled")
			return pw
		}

		copy(sample, in.Plies)
		var cumulative float64
		for j := range sample {
			if in.AngleTolDeg > 0 {
				sample[j].AngleDeg += angleDist.Rand()
			}
			if in.ThicknessTolPct > 0 {
				th := sample[j].Thickness * (1 + thickDist.Rand())
				if th < thicknessFloor {
					th = thicknessFloor
				}
				sample[j].Thickness = th
			}
			cumulative += sample[j].Thickness
			sample[j].CumulativeThickness = cumulative
		}

		abd, err := laminate.AssembleABD(sample)
		if err != nil {
			pw.err = err
			return pw
		}
		props, err := laminate.Effective(abd, laminate.TotalThickness(sample))
		if err != nil {
			pw.err = err
			return pw
		}
		pw.ex.add(props.Ex)
		pw.ey.add(props.Ey)
		pw.gxy.add(props.Gxy)
		pw.nuxy.add(props.NuXY)

		if in.Load != nil {
			fr, err := laminate.AnalyzeFailure(sample, abd, *in.Load, crit)
			if err != nil {
				pw.err = err
				return pw
			}
			pw.sf.add(fr.MinSafetyFactor)
			if fr.MinSafetyFactor < failedBelow {
				pw.failures++
			}
		}
	}
	return pw
}
