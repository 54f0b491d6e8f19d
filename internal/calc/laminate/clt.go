package laminate

import (
	"gonum.org/v1/gonum/mat"

	"Mandrel/internal/fwerr"
)

// ABD holds the extensional (A), coupling (B) and bending (D) stiffness
// blocks of a laminate. Units: A in N/m, B in N, D in N·m.
type ABD struct {
	A Mat3
	B Mat3
	D Mat3
}

// AssembleABD integrates each ply's transformed stiffness over its
// through-thickness span, z measured from the laminate mid-plane:
// A += Q̄·(z_t−z_b), B += Q̄·(z_t²−z_b²)/2, D += Q̄·(z_t³−z_b³)/3.
// Symmetry is never assumed; a symmetric stack simply produces B ≈ 0.
func AssembleABD(plies []Ply) (ABD, error) {
	if len(plies) == 0 {
		return ABD{}, fwerr.Input("cannot assemble stiffness for an empty ply stack")
	}
	total := TotalThickness(plies)
	if total <= 0 {
		return ABD{}, fwerr.Input("ply stack has non-positive total thickness %g m", total)
	}

	var abd ABD
	zBot := -total / 2
	for _, p := range plies {
		if p.Thickness <= 0 {
			return ABD{}, fwerr.Input("ply %d has non-positive thickness %g m", p.Index, p.Thickness)
		}
		q, err := reducedStiffness(p.Material)
		if err != nil {
			return ABD{}, err
		}
		qb := transformedStiffness(q, p.AngleDeg)

		zTop := zBot + p.Thickness
		d1 := zTop - zBot
		d2 := (zTop*zTop - zBot*zBot) / 2
		d3 := (zTop*zTop*zTop - zBot*zBot*zBot) / 3
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				abd.A[i][j] += qb[i][j] * d1
				abd.B[i][j] += qb[i][j] * d2
				abd.D[i][j] += qb[i][j] * d3
			}
		}
		zBot = zTop
	}
	return abd, nil
}

// EffectiveProperties are the thickness-normalized engineering constants of
// the laminate, in Pa (NuXY unitless).
type EffectiveProperties struct {
	Ex   float64
	Ey   float64
	Gxy  float64
	NuXY float64
}

// Effective inverts the extensional block and normalizes by thickness:
// E_x = 1/(t·a11), E_y = 1/(t·a22), G_xy = 1/(t·a66), ν_xy = −a12/a11
// with a = A⁻¹. A singular A surfaces as a numerical error, never as NaN.
func Effective(abd ABD, thickness float64) (EffectiveProperties, error) {
	if thickness <= 0 {
		return EffectiveProperties{}, fwerr.Input("laminate thickness must be positive, got %g m", thickness)
	}

	a := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.Set(i, j, abd.A[i][j])
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return EffectiveProperties{}, fwerr.Wrap(fwerr.KindNumerical, err, "extensional stiffness matrix not invertible")
	}

	return EffectiveProperties{
		Ex:   1 / (thickness * inv.At(0, 0)),
		Ey:   1 / (thickness * inv.At(1, 1)),
		Gxy:  1 / (thickness * inv.At(2, 2)),
		NuXY: -inv.At(0, 1) / inv.At(0, 0),
	}, nil
}

// stiffness6 assembles the full plate system [A B; B D].
func (abd ABD) stiffness6() *mat.Dense {
	k := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			k.Set(i, j, abd.A[i][j])
			k.Set(i, j+3, abd.B[i][j])
			k.Set(i+3, j, abd.B[i][j])
			k.Set(i+3, j+3, abd.D[i][j])
		}
	}
	return k
}
