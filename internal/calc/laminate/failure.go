package laminate

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"Mandrel/internal/fwerr"
	"Mandrel/internal/material"
)

// LoadState holds the applied force resultants (N/m) and moment resultants
// (N·m/m). One value object per analysis call.
type LoadState struct {
	Nx  float64
	Ny  float64
	Nxy float64
	Mx  float64
	My  float64
	Mxy float64
}

func (l LoadState) isZero() bool {
	return l.Nx == 0 && l.Ny == 0 && l.Nxy == 0 && l.Mx == 0 && l.My == 0 && l.Mxy == 0
}

// Failure criteria.
const (
	CriterionTsaiWu    = "tsai_wu"
	CriterionMaxStress = "max_stress"
)

// Design status bands.
const (
	StatusSafe     = "safe"
	StatusMarginal = "marginal"
	StatusFailed   = "failed"
)

// safetyFactorCap bounds reported factors so plies carrying no stress stay
// representable in JSON.
const safetyFactorCap = 1e9

// Criteria selects the failure criterion and the status thresholds. Zero
// values take the defaults: Tsai-Wu, failed below 1.0, marginal below 1.5.
type Criteria struct {
	Criterion     string
	FailedBelow   float64
	MarginalBelow float64
}

// DefaultCriteria returns the documented default policy.
func DefaultCriteria() Criteria {
	return Criteria{Criterion: CriterionTsaiWu, FailedBelow: 1.0, MarginalBelow: 1.5}
}

func (c Criteria) withDefaults() (Criteria, error) {
	if c.Criterion == "" {
		c.Criterion = CriterionTsaiWu
	}
	if c.Criterion != CriterionTsaiWu && c.Criterion != CriterionMaxStress {
		return c, fwerr.Input("unknown failure criterion %q", c.Criterion)
	}
	if c.FailedBelow == 0 {
		c.FailedBelow = 1.0
	}
	if c.MarginalBelow == 0 {
		c.MarginalBelow = 1.5
	}
	if c.FailedBelow <= 0 || c.MarginalBelow < c.FailedBelow {
		return c, fwerr.Input("invalid status thresholds: failed below %g, marginal below %g", c.FailedBelow, c.MarginalBelow)
	}
	return c, nil
}

// PlyFailure is the margin of one ply.
type PlyFailure struct {
	PlyID        int
	AngleDeg     float64
	SafetyFactor float64
	Mode         string
}

// FailureResult is produced per analysis call and not persisted.
// ProbabilityOfFailure is 0 for a deterministic analysis; the tolerance
// simulation fills it from sampling.
type FailureResult struct {
	MinSafetyFactor      float64
	CriticalPlyID        int
	Status               string
	ProbabilityOfFailure float64
	Criterion            string
	Plies                []PlyFailure
}

// AnalyzeFailure back-calculates mid-plane strains and curvatures from the
// applied load via the full [A B; B D] system, evaluates each ply at its
// mid-thickness coordinate and returns the per-ply safety factors. The
// safety factor is the load multiplier at predicted first ply failure.
func AnalyzeFailure(plies []Ply, abd ABD, load LoadState, crit Criteria) (FailureResult, error) {
	crit, err := crit.withDefaults()
	if err != nil {
		return FailureResult{}, err
	}
	if len(plies) == 0 {
		return FailureResult{}, fwerr.Input("cannot analyze an empty ply stack")
	}
	if load.isZero() {
		return FailureResult{}, fwerr.Input("load state must have at least one non-zero resultant")
	}
	for _, p := range plies {
		if err := checkStrengths(p.Material); err != nil {
			return FailureResult{}, err
		}
	}

	k := abd.stiffness6()
	f := mat.NewVecDense(6, []float64{load.Nx, load.Ny, load.Nxy, load.Mx, load.My, load.Mxy})
	var x mat.VecDense
	if err := x.SolveVec(k, f); err != nil {
		return FailureResult{}, fwerr.Wrap(fwerr.KindNumerical, err, "laminate stiffness system not solvable")
	}
	e0x, e0y, g0xy := x.AtVec(0), x.AtVec(1), x.AtVec(2)
	kx, ky, kxy := x.AtVec(3), x.AtVec(4), x.AtVec(5)

	total := TotalThickness(plies)
	result := FailureResult{
		MinSafetyFactor: safetyFactorCap,
		CriticalPlyID:   plies[0].Index,
		Criterion:       crit.Criterion,
		Plies:           make([]PlyFailure, 0, len(plies)),
	}

	zBot := -total / 2
	for _, p := range plies {
		zMid := zBot + p.Thickness/2
		zBot += p.Thickness

		// Plate kinematics: ε(z) = ε⁰ + z·κ, evaluated at mid-ply.
		ex := e0x + zMid*kx
		ey := e0y + zMid*ky
		gxy := g0xy + zMid*kxy

		e1, e2, g12 := strainToMaterialAxes(ex, ey, gxy, p.AngleDeg)
		q, err := reducedStiffness(p.Material)
		if err != nil {
			return FailureResult{}, err
		}
		s1, s2, t12 := materialStress(q, e1, e2, g12)

		var sf float64
		var mode string
		switch crit.Criterion {
		case CriterionTsaiWu:
			sf, mode = tsaiWu(p.Material, s1, s2, t12)
		case CriterionMaxStress:
			sf, mode = maxStress(p.Material, s1, s2, t12)
		}

		result.Plies = append(result.Plies, PlyFailure{
			PlyID:        p.Index,
			AngleDeg:     p.AngleDeg,
			SafetyFactor: sf,
			Mode:         mode,
		})
		if sf < result.MinSafetyFactor {
			result.MinSafetyFactor = sf
			result.CriticalPlyID = p.Index
		}
	}

	result.Status = statusFor(result.MinSafetyFactor, crit)
	return result, nil
}

func checkStrengths(m material.Material) error {
	if m.F1t <= 0 || m.F1c <= 0 || m.F2t <= 0 || m.F2c <= 0 || m.F12s <= 0 {
		return fwerr.Input("material %q has non-positive strength values", m.Key)
	}
	return nil
}

// tsaiWu evaluates the quadratic interactive criterion. With stresses scaled
// by a factor R, failure occurs at a·R² + b·R = 1; the safety factor is the
// positive root R = (−b + √(b²+4a)) / (2a).
func tsaiWu(m material.Material, s1, s2, t12 float64) (float64, string) {
	f1 := 1/m.F1t - 1/m.F1c
	f2 := 1/m.F2t - 1/m.F2c
	f11 := 1 / (m.F1t * m.F1c)
	f22 := 1 / (m.F2t * m.F2c)
	f66 := 1 / (m.F12s * m.F12s)
	f12 := -0.5 * math.Sqrt(f11*f22)

	a := f11*s1*s1 + f22*s2*s2 + f66*t12*t12 + 2*f12*s1*s2
	b := f1*s1 + f2*s2

	const tiny = 1e-30
	var sf float64
	switch {
	case a > tiny:
		sf = (-b + math.Sqrt(b*b+4*a)) / (2 * a)
	case b > tiny:
		sf = 1 / b
	default:
		sf = safetyFactorCap
	}
	if sf > safetyFactorCap {
		sf = safetyFactorCap
	}
	return sf, dominantMode(m, s1, s2, t12)
}

// maxStress takes the smallest strength/stress ratio over the five checks,
// choosing tension or compression strength by the sign of the stress.
func maxStress(m material.Material, s1, s2, t12 float64) (float64, string) {
	sf := math.Inf(1)
	mode := "none"
	check := func(ratio float64, name string) {
		if ratio < sf {
			sf = ratio
			mode = name
		}
	}
	if s1 > 0 {
		check(m.F1t/s1, "fiber_tension")
	} else if s1 < 0 {
		check(m.F1c/-s1, "fiber_compression")
	}
	if s2 > 0 {
		check(m.F2t/s2, "matrix_tension")
	} else if s2 < 0 {
		check(m.F2c/-s2, "matrix_compression")
	}
	if t12 != 0 {
		check(m.F12s/math.Abs(t12), "shear")
	}
	if sf > safetyFactorCap {
		sf = safetyFactorCap
	}
	return sf, mode
}

// dominantMode names the largest normalized stress ratio, for reporting.
func dominantMode(m material.Material, s1, s2, t12 float64) string {
	r1 := s1 / m.F1t
	mode1 := "fiber_tension"
	if s1 < 0 {
		r1 = -s1 / m.F1c
		mode1 = "fiber_compression"
	}
	r2 := s2 / m.F2t
	mode2 := "matrix_tension"
	if s2 < 0 {
		r2 = -s2 / m.F2c
		mode2 = "matrix_compression"
	}
	rs := math.Abs(t12) / m.F12s

	switch {
	case r1 == 0 && r2 == 0 && rs == 0:
		return "none"
	case r1 >= r2 && r1 >= rs:
		return mode1
	case r2 >= rs:
		return mode2
	default:
		return "shear"
	}
}

func statusFor(minSF float64, c Criteria) string {
	switch {
	case minSF < c.FailedBelow:
		return StatusFailed
	case minSF < c.MarginalBelow:
		return StatusMarginal
	default:
		return StatusSafe
	}
}
