package laminate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mandrel/internal/fwerr"
	"Mandrel/internal/material"
)

// analyze is a test helper running the full parse→assemble→analyze chain.
func analyze(t *testing.T, seq string, load LoadState, crit Criteria) FailureResult {
	t.Helper()
	plies, err := ParseSequence(seq, 0.125e-3, testMaterial(t))
	require.NoError(t, err)
	abd, err := AssembleABD(plies)
	require.NoError(t, err)
	res, err := AnalyzeFailure(plies, abd, load, crit)
	require.NoError(t, err)
	return res
}

func TestTsaiWuUnityAtTensileStrength(t *testing.T) {
	mat := testMaterial(t)
	const th = 0.125e-3

	// Pure fiber-direction tension at exactly F1t.
	res := analyze(t, "[0]", LoadState{Nx: mat.F1t * th}, Criteria{})

	assert.InDelta(t, 1.0, res.MinSafetyFactor, 1e-9)
	assert.Equal(t, 0, res.CriticalPlyID)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 0.0, res.ProbabilityOfFailure)
	assert.Equal(t, CriterionTsaiWu, res.Criterion)
}

func TestMaxStressUnityAtTensileStrength(t *testing.T) {
	mat := testMaterial(t)
	const th = 0.125e-3

	res := analyze(t, "[0]", LoadState{Nx: mat.F1t * th}, Criteria{Criterion: CriterionMaxStress})

	assert.InDelta(t, 1.0, res.MinSafetyFactor, 1e-9)
	require.Len(t, res.Plies, 1)
	assert.Equal(t, "fiber_tension", res.Plies[0].Mode)
}

func TestSafetyFactorScalesInverselyWithLoad(t *testing.T) {
	mat := testMaterial(t)
	const th = 0.125e-3
	base := mat.F1t * th

	half := analyze(t, "[0]", LoadState{Nx: base / 2}, Criteria{})
	double := analyze(t, "[0]", LoadState{Nx: base * 2}, Criteria{})

	assert.InDelta(t, 2.0, half.MinSafetyFactor, 1e-9)
	assert.InDelta(t, 0.5, double.MinSafetyFactor, 1e-9)
}

func TestStatusBands(t *testing.T) {
	mat := testMaterial(t)
	const th = 0.125e-3
	base := mat.F1t * th

	assert.Equal(t, StatusSafe, analyze(t, "[0]", LoadState{Nx: base / 2}, Criteria{}).Status)
	assert.Equal(t, StatusMarginal, analyze(t, "[0]", LoadState{Nx: base / 1.2}, Criteria{}).Status)
	assert.Equal(t, StatusFailed, analyze(t, "[0]", LoadState{Nx: base * 2}, Criteria{}).Status)
}

func TestTransversePlyIsCritical(t *testing.T) {
	res := analyze(t, "[0/90]s", LoadState{Nx: 50e3}, Criteria{})

	// Under axial tension the 90° plies fail first, in the matrix.
	assert.Equal(t, 1, res.CriticalPlyID)
	require.Len(t, res.Plies, 4)
	assert.Equal(t, "matrix_tension", res.Plies[1].Mode)
	assert.Less(t, res.Plies[1].SafetyFactor, res.Plies[0].SafetyFactor)
}

func TestAnalyzeFailureErrors(t *testing.T) {
	mat := testMaterial(t)
	plies, err := ParseSequence("[0/90]", 0.125e-3, mat)
	require.NoError(t, err)
	abd, err := AssembleABD(plies)
	require.NoError(t, err)

	_, err = AnalyzeFailure(plies, abd, LoadState{}, Criteria{})
	require.Error(t, err)
	assert.True(t, fwerr.IsInput(err), "zero load: %v", err)

	_, err = AnalyzeFailure(nil, abd, LoadState{Nx: 1}, Criteria{})
	require.Error(t, err)
	assert.True(t, fwerr.IsInput(err))

	_, err = AnalyzeFailure(plies, abd, LoadState{Nx: 1}, Criteria{Criterion: "puck"})
	require.Error(t, err)
	assert.True(t, fwerr.IsInput(err))

	bad := mat
	bad.F2t = 0
	badPlies, err := ParseSequence("[0]", 0.125e-3, bad)
	require.NoError(t, err)
	badABD, err := AssembleABD(badPlies)
	require.NoError(t, err)
	_, err = AnalyzeFailure(badPlies, badABD, LoadState{Nx: 1}, Criteria{})
	require.Error(t, err)
	assert.True(t, fwerr.IsInput(err))

	_, err = AnalyzeFailure(plies, ABD{}, LoadState{Nx: 1}, Criteria{})
	require.Error(t, err)
	assert.True(t, fwerr.IsNumerical(err), "singular system: %v", err)
}

func TestCustomThresholds(t *testing.T) {
	mat := testMaterial(t)
	const th = 0.125e-3

	// SF = 2.0 is marginal against a stricter band.
	res := analyze(t, "[0]", LoadState{Nx: mat.F1t * th / 2},
		Criteria{FailedBelow: 1.5, MarginalBelow: 2.5})
	assert.Equal(t, StatusMarginal, res.Status)
}

func TestShearDominatedMode(t *testing.T) {
	res := analyze(t, "[0]", LoadState{Nxy: 5e3}, Criteria{Criterion: CriterionMaxStress})
	require.Len(t, res.Plies, 1)
	assert.Equal(t, "shear", res.Plies[0].Mode)
}

func TestCheckStrengthsRejectsZero(t *testing.T) {
	m := material.Material{Key: "bad", F1t: 1, F1c: 1, F2t: 1, F2c: 1}
	err := checkStrengths(m)
	require.Error(t, err)
	assert.True(t, fwerr.IsInput(err))
}
