package recommend

import (
	"net/http"

	"Mandrel/internal/api"
)

type Handler struct{}

type angleRequest struct {
	NAxial float64 `json:"N_x_N_per_m"`
	NHoop  float64 `json:"N_y_N_per_m"`
}

type angleResponse struct {
	WindingAngleDeg float64 `json:"winding_angle_deg"`
	Basis           string  `json:"basis"`
}

// Angle recommends the netting-analysis winding angle for the given
// resultants; defaults describe a closed-end pressure vessel.
func (h *Handler) Angle(w http.ResponseWriter, r *http.Request) {
	req := angleRequest{NAxial: 0.5e6, NHoop: 1.0e6}
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	res, err := WindingAngle(Input{NAxial: req.NAxial, NHoop: req.NHoop})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, angleResponse{WindingAngleDeg: res.WindingAngleDeg, Basis: res.Basis})
}
