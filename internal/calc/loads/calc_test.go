package loads

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mandrel/internal/fwerr"
)

func TestVesselPressureOnly(t *testing.T) {
	// 10 MPa on a 200 mm vessel: the classic 2:1 hoop-to-axial ratio.
	state, err := Vessel(Input{Pressure: 10e6, Radius: 0.1})
	require.NoError(t, err)

	assert.InDelta(t, 0.5e6, state.Nx, 1e-6)
	assert.InDelta(t, 1.0e6, state.Ny, 1e-6)
	assert.Zero(t, state.Nxy)
	assert.InDelta(t, 2.0, state.Ny/state.Nx, 1e-12)
}

func TestVesselAxialForceAndTorque(t *testing.T) {
	r := 0.1
	circ := 2 * math.Pi * r

	state, err := Vessel(Input{Pressure: 10e6, Radius: r, AxialForce: 1000 * circ, Torque: 500 * circ * r})
	require.NoError(t, err)

	assert.InDelta(t, 0.5e6+1000, state.Nx, 1e-6)
	assert.InDelta(t, 500.0, state.Nxy, 1e-9)
}

func TestVesselCompressionForceReducesAxial(t *testing.T) {
	r := 0.1
	state, err := Vessel(Input{Pressure: 10e6, Radius: r, AxialForce: -2 * math.Pi * r * 1000})
	require.NoError(t, err)
	assert.InDelta(t, 0.5e6-1000, state.Nx, 1e-6)
}

func TestVesselInputErrors(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"zero radius", Input{Pressure: 1e6}},
		{"negative pressure", Input{Pressure: -1, Radius: 0.1}},
		{"unloaded", Input{Radius: 0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Vessel(tc.in)
			require.Error(t, err)
			assert.True(t, fwerr.IsInput(err), "got %v", err)
		})
	}
}

func TestVesselHandler(t *testing.T) {
	h := &Handler{}
	req := httptest.NewRequest(http.MethodPost, "/api/loads/vessel",
		strings.NewReader(`{"pressure_mpa":10,"diameter_mm":200}`))
	rec := httptest.NewRecorder()

	h.Vessel(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 0.5e6, resp["N_x_N_per_m"], 1e-6)
	assert.InDelta(t, 1.0e6, resp["N_y_N_per_m"], 1e-6)
	assert.InDelta(t, 0.0, resp["N_xy_N_per_m"], 1e-12)
}

func TestVesselHandlerRejectsBadDiameter(t *testing.T) {
	h := &Handler{}
	req := httptest.NewRequest(http.MethodPost, "/api/loads/vessel",
		strings.NewReader(`{"pressure_mpa":10,"diameter_mm":-5}`))
	rec := httptest.NewRecorder()

	h.Vessel(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "diameter_mm")
}
