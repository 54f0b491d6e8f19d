package recommend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mandrel/internal/fwerr"
)

func TestWindingAngleClosedEndVessel(t *testing.T) {
	res, err := WindingAngle(Input{NAxial: 0.5e6, NHoop: 1.0e6})
	require.NoError(t, err)
	assert.InDelta(t, 54.7356, res.WindingAngleDeg, 0.01)
}

func TestWindingAngleEqualBiaxial(t *testing.T) {
	res, err := WindingAngle(Input{NAxial: 300, NHoop: 300})
	require.NoError(t, err)
	assert.InDelta(t, 45.0, res.WindingAngleDeg, 1e-9)
}

func TestWindingAngleGrowsWithHoopShare(t *testing.T) {
	low, err := WindingAngle(Input{NAxial: 1000, NHoop: 500})
	require.NoError(t, err)
	high, err := WindingAngle(Input{NAxial: 1000, NHoop: 4000})
	require.NoError(t, err)
	assert.Less(t, low.WindingAngleDeg, 45.0)
	assert.Greater(t, high.WindingAngleDeg, 45.0)
	assert.Greater(t, high.WindingAngleDeg, low.WindingAngleDeg)
}

func TestWindingAngleRejectsNonPositiveResultants(t *testing.T) {
	for _, in := range []Input{{NAxial: 0, NHoop: 100}, {NAxial: 100, NHoop: 0}, {NAxial: -5, NHoop: 100}} {
		_, err := WindingAngle(in)
		require.Error(t, err)
		assert.True(t, fwerr.IsInput(err))
	}
}

func TestAngleHandlerDefaultsToVesselRatio(t *testing.T) {
	h := &Handler{}
	req := httptest.NewRequest(http.MethodPost, "/api/recommend-angle", strings.NewReader(""))
	rec := httptest.NewRecorder()

	h.Angle(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp angleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 54.7356, resp.WindingAngleDeg, 0.01)
	assert.NotEmpty(t, resp.Basis)
}
