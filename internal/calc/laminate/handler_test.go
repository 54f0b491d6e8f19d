package laminate

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

func newHandler() *Handler {
	return &Handler{Registry: material.NewRegistry()}
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/endpoint", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestParseEndpointDefaults(t *testing.T) {
	rec := post(t, newHandler().Parse, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Sequence  string     `json:"sequence"`
		NumLayers int        `json:"num_layers"`
		Layers    []LayerDTO `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "[0/±45/90]s", resp.Sequence)
	assert.Equal(t, 8, resp.NumLayers)
	require.Len(t, resp.Layers, 8)

	assert.Equal(t, []float64{0, 45, -45, 90, 90, -45, 45, 0},
		func() []float64 {
			angles := make([]float64, len(resp.Layers))
			for i, l := range resp.Layers {
				angles[i] = l.Angle
			}
			return angles
		}())
	assert.Equal(t, 0, resp.Layers[0].Index)
	assert.InDelta(t, 0.125, resp.Layers[0].ThicknessMM, 1e-12)
	assert.InDelta(t, 1.0, resp.Layers[7].CumulativeThicknessMM, 1e-9)
	assert.Equal(t, "Torayca M40J 12K / 3900-2B", resp.Layers[0].Material)
}

func TestParseEndpointCustomLayup(t *testing.T) {
	body := `{"sequence":"[0/90]","material":"IM7","ply_thickness_mm":0.25}`
	rec := post(t, newHandler().Parse, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		NumLayers int        `json:"num_layers"`
		Layers    []LayerDTO `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.NumLayers)
	assert.Equal(t, "Hexcel IM7 / 8552", resp.Layers[0].Material)
	assert.InDelta(t, 0.5, resp.Layers[1].CumulativeThicknessMM, 1e-9)
}

func TestParseEndpointBadSequence(t *testing.T) {
	rec := post(t, newHandler().Parse, `{"sequence":"[xx/45]"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestParseEndpointUnknownMaterial(t *testing.T) {
	rec := post(t, newHandler().Parse, `{"material":"unobtainium"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unobtainium")
}

func TestPropertiesEndpointQuasiIsotropic(t *testing.T) {
	rec := post(t, newHandler().Properties, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success          bool    `json:"success"`
		NumPlies         int     `json:"num_plies"`
		TotalThicknessMM float64 `json:"total_thickness_mm"`
		AMatrix          Mat3    `json:"A_matrix"`
		BMatrix          Mat3    `json:"B_matrix"`
		Effective        struct {
			Ex   float64 `json:"E_x_GPa"`
			Ey   float64 `json:"E_y_GPa"`
			Gxy  float64 `json:"G_xy_GPa"`
			NuXY float64 `json:"nu_xy"`
		} `json:"effective_properties"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 8, resp.NumPlies)
	assert.InDelta(t, 1.0, resp.TotalThicknessMM, 1e-9)

	// symmetric stack: no extension-bending coupling
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, 0, resp.BMatrix[i][j], 1e-3)
		}
	}
	// quasi-isotropic angle set: in-plane response has no preferred axis
	assert.InEpsilon(t, resp.Effective.Ex, resp.Effective.Ey, 1e-9)
	assert.Greater(t, resp.Effective.Ex, 10.0)
	assert.Less(t, resp.Effective.Ex, 500.0)
	assert.Greater(t, resp.Effective.Gxy, 0.0)
	assert.Greater(t, resp.Effective.NuXY, 0.0)
	assert.Less(t, resp.Effective.NuXY, 1.0)
}

func TestPropertiesEndpointMatchesEngine(t *testing.T) {
	reg := material.NewRegistry()
	m, err := reg.Material("T700S")
	require.NoError(t, err)
	plies, err := ParseSequence("[0/90]s", 0.25e-3, m)
	require.NoError(t, err)
	abd, err := AssembleABD(plies)
	require.NoError(t, err)
	eff, err := Effective(abd, TotalThickness(plies))
	require.NoError(t, err)

	body := `{"sequence":"[0/90]s","material":"T700S","ply_thickness_mm":0.25}`
	rec := post(t, newHandler().Properties, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AMatrix   Mat3 `json:"A_matrix"`
		Effective struct {
			Ex float64 `json:"E_x_GPa"`
		} `json:"effective_properties"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InEpsilon(t, eff.Ex/1e9, resp.Effective.Ex, 1e-9)
	assert.InEpsilon(t, abd.A[0][0], resp.AMatrix[0][0], 1e-9)
}

func TestFailureEndpointDefaults(t *testing.T) {
	rec := post(t, newHandler().Failure, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success        bool   `json:"success"`
		LoadCase       string `json:"load_case"`
		Criterion      string `json:"criterion"`
		GlobalAnalysis struct {
			MinSafetyFactor      float64 `json:"min_safety_factor"`
			CriticalPlyID        int     `json:"critical_ply_id"`
			DesignStatus         string  `json:"design_status"`
			ProbabilityOfFailure float64 `json:"probability_of_failure"`
		} `json:"global_analysis"`
		PlyResults []plyResultDTO `json:"ply_results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "tension", resp.LoadCase)
	assert.Equal(t, "tsai_wu", resp.Criterion)
	assert.Greater(t, resp.GlobalAnalysis.MinSafetyFactor, 0.0)
	assert.Contains(t, []string{"safe", "marginal", "failed"}, resp.GlobalAnalysis.DesignStatus)
	assert.Zero(t, resp.GlobalAnalysis.ProbabilityOfFailure)
	require.Len(t, resp.PlyResults, 8)
	for _, p := range resp.PlyResults {
		assert.Greater(t, p.SafetyFactor, 0.0)
		assert.NotEmpty(t, p.FailureMode)
	}
}

func TestFailureEndpointEchoesLoadCase(t *testing.T) {
	body := `{"load_case":"hoop pressure","N_x":0,"N_y":2000}`
	rec := post(t, newHandler().Failure, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		LoadCase string `json:"load_case"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hoop pressure", resp.LoadCase)
}

func TestFailureEndpointRejectsZeroLoad(t *testing.T) {
	rec := post(t, newHandler().Failure, `{"N_x":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "non-zero")
}

func TestFailureEndpointRejectsUnknownCriterion(t *testing.T) {
	rec := post(t, newHandler().Failure, `{"criterion":"voigt"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "criterion")
}

func TestFailureEndpointMaxStressSelectable(t *testing.T) {
	rec := post(t, newHandler().Failure, `{"criterion":"max_stress"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Criterion string `json:"criterion"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "max_stress", resp.Criterion)
}
