package laminate

import (
	"math"

	"Mandrel/internal/fwerr"
	"Mandrel/internal/material"
)

// Mat3 is a 3×3 stiffness block in Voigt notation (11, 22, 12/66 ordering
// with engineering shear).
type Mat3 [3][3]float64

// reducedStiffness returns the ply stiffness matrix Q in material axes.
func reducedStiffness(m material.Material) (Mat3, error) {
	if m.E1 <= 0 || m.E2 <= 0 || m.G12 <= 0 {
		return Mat3{}, fwerr.Input("material %q has non-positive moduli", m.Key)
	}
	nu21 := m.Nu12 * m.E2 / m.E1
	denom := 1 - m.Nu12*nu21
	if denom <= 0 {
		return Mat3{}, fwerr.Numerical("material %q violates 1-ν12ν21 > 0", m.Key)
	}

	var q Mat3
	q[0][0] = m.E1 / denom
	q[1][1] = m.E2 / denom
	q[0][1] = m.Nu12 * m.E2 / denom
	q[1][0] = q[0][1]
	q[2][2] = m.G12
	return q, nil
}

// transformedStiffness rotates Q into the laminate frame for a ply at
// angleDeg. Closed-form in powers of the direction cosines, exact at the
// common layup angles 0°, ±45°, 90° up to rounding.
func transformedStiffness(q Mat3, angleDeg float64) Mat3 {
	th := angleDeg * math.Pi / 180
	c, s := math.Cos(th), math.Sin(th)
	c2, s2 := c*c, s*s
	c4, s4 := c2*c2, s2*s2
	sc := s * c

	q11, q12, q22, q66 := q[0][0], q[0][1], q[1][1], q[2][2]

	var qb Mat3
	qb[0][0] = q11*c4 + 2*(q12+2*q66)*s2*c2 + q22*s4
	qb[0][1] = (q11+q22-4*q66)*s2*c2 + q12*(s4+c4)
	qb[1][1] = q11*s4 + 2*(q12+2*q66)*s2*c2 + q22*c4
	qb[0][2] = (q11-q12-2*q66)*sc*c2 + (q12-q22+2*q66)*sc*s2
	qb[1][2] = (q11-q12-2*q66)*sc*s2 + (q12-q22+2*q66)*sc*c2
	qb[2][2] = (q11+q22-2*q12-2*q66)*s2*c2 + q66*(s4+c4)
	qb[1][0] = qb[0][1]
	qb[2][0] = qb[0][2]
	qb[2][1] = qb[1][2]
	return qb
}

// strainToMaterialAxes rotates laminate-frame strains (εx, εy, γxy) into the
// ply material frame (ε1, ε2, γ12). Engineering shear throughout.
func strainToMaterialAxes(ex, ey, gxy, angleDeg float64) (e1, e2, g12 float64) {
	th := angleDeg * math.Pi / 180
	c, s := math.Cos(th), math.Sin(th)
	c2, s2, sc := c*c, s*s, s*c

	e1 = ex*c2 + ey*s2 + gxy*sc
	e2 = ex*s2 + ey*c2 - gxy*sc
	g12 = 2*(ey-ex)*sc + gxy*(c2-s2)
	return e1, e2, g12
}

// materialStress returns the ply stress in material axes from material-axis
// strains and the untransformed Q.
func materialStress(q Mat3, e1, e2, g12 float64) (s1, s2, t12 float64) {
	s1 = q[0][0]*e1 + q[0][1]*e2
	s2 = q[1][0]*e1 + q[1][1]*e2
	t12 = q[2][2] * g12
	return s1, s2, t12
}
