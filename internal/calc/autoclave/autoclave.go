// Package autoclave exposes the reference cure cycle shipped with the
// tool. The profile is display data for the frontend, not an input to any
// calculation.
package autoclave

import (
	"net/http"

	"Mandrel/internal/api"
)

// Profile is a cure cycle sampled at its schedule points.
type Profile struct {
	TimeMin     []float64 `json:"time_min"`
	TempC       []float64 `json:"temp_C"`
	PressureBar []float64 `json:"pressure_bar"`
}

// Default returns a fresh copy of the reference 180 °C epoxy cycle.
func Default() Profile {
	return Profile{
		TimeMin:     []float64{0, 30, 90, 150, 210},
		TempC:       []float64{20, 120, 180, 180, 50},
		PressureBar: []float64{0, 3, 6, 6, 0},
	}
}

type Handler struct{}

// Get serves the reference profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, Default())
}
