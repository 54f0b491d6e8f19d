package tolerance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mandrel/internal/material"
)

func study(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := &Handler{Registry: material.NewRegistry()}
	req := httptest.NewRequest(http.MethodPost, "/api/tolerance-study", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Study(rec, req)
	return rec
}

type studyWire struct {
	Success    bool `json:"success"`
	NumSamples int  `json:"num_samples"`
	Seeded     bool `json:"seeded"`
	Tolerances struct {
		AngleDeg     float64 `json:"angle_deg"`
		ThicknessPct float64 `json:"thickness_pct"`
	} `json:"tolerances"`
	PropertyStatistics map[string]statDTO `json:"property_statistics"`
	FailureStatistics  *failureStatsDTO   `json:"failure_statistics"`
}

func TestStudyEndpointDefaults(t *testing.T) {
	rec := study(t, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp studyWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 500, resp.NumSamples)
	assert.False(t, resp.Seeded)
	assert.InDelta(t, 1.0, resp.Tolerances.AngleDeg, 1e-12)
	assert.InDelta(t, 5.0, resp.Tolerances.ThicknessPct, 1e-12)

	for _, key := range []string{"E_x", "E_y", "G_xy", "nu_xy"} {
		require.Contains(t, resp.PropertyStatistics, key)
	}
	ex := resp.PropertyStatistics["E_x"]
	assert.Greater(t, ex.Mean, 10.0)
	assert.Less(t, ex.Mean, 500.0)
	assert.Greater(t, ex.Std, 0.0)
	assert.Greater(t, ex.CVPercent, 0.0)

	// no load given, no failure block
	assert.Nil(t, resp.FailureStatistics)
}

func TestStudyEndpointWithLoad(t *testing.T) {
	body := `{"N_x":1000,"num_samples":200,"seed":7}`
	rec := study(t, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp studyWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Seeded)
	assert.Equal(t, 200, resp.NumSamples)
	require.NotNil(t, resp.FailureStatistics)
	assert.Greater(t, resp.FailureStatistics.MinSafetyFactor.Mean, 0.0)
	assert.GreaterOrEqual(t, resp.FailureStatistics.ProbabilityOfFailure, 0.0)
	assert.LessOrEqual(t, resp.FailureStatistics.ProbabilityOfFailure, 1.0)
}

func TestStudyEndpointSeedReproducible(t *testing.T) {
	body := `{"seed":42,"num_samples":100}`

	first := study(t, body)
	second := study(t, body)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestStudyEndpointBoundsSamples(t *testing.T) {
	rec := study(t, `{"num_samples":50000}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "num_samples")
}

func TestStudyEndpointBoundsTolerances(t *testing.T) {
	rec := study(t, `{"angle_tolerance_deg":45}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "angle_tolerance_deg")
}

func TestStudyEndpointUnknownMaterial(t *testing.T) {
	rec := study(t, `{"material":"unobtainium"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
