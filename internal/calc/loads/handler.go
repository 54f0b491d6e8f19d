package loads

import (
	"net/http"

	"Mandrel/internal/api"
)

type Handler struct{}

type vesselRequest struct {
	PressureMPa float64 `json:"pressure_mpa" validate:"gte=0"`
	DiameterMM  float64 `json:"diameter_mm" validate:"gt=0"`
	AxialForceN float64 `json:"axial_force_n"`
	TorqueNM    float64 `json:"torque_nm"`
}

type vesselResponse struct {
	Nx  float64 `json:"N_x_N_per_m"`
	Ny  float64 `json:"N_y_N_per_m"`
	Nxy float64 `json:"N_xy_N_per_m"`
}

// Vessel turns engineering-unit vessel parameters into the membrane
// resultants consumed by the failure endpoints.
func (h *Handler) Vessel(w http.ResponseWriter, r *http.Request) {
	req := vesselRequest{PressureMPa: 10, DiameterMM: 200}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	state, err := Vessel(Input{
		Pressure:   req.PressureMPa * 1e6,
		Radius:     req.DiameterMM / 2 * 1e-3,
		AxialForce: req.AxialForceN,
		Torque:     req.TorqueNM,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, vesselResponse{Nx: state.Nx, Ny: state.Ny, Nxy: state.Nxy})
}
