package material

import (
	"net/http"

	"Mandrel/internal/api"
)

type Handler struct {
	Registry *Registry
}

type materialInfo struct {
	Name             string  `json:"name"`
	Density          float64 `json:"density"`
	FiberArealWeight float64 `json:"fiber_areal_weight"`
}

type processInfo struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	LineSpeed  float64 `json:"line_speed"`
	Efficiency float64 `json:"efficiency"`
}

// Materials lists the served material presets keyed the way requests name
// them.
func (h *Handler) Materials(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]materialInfo)
	for _, key := range h.Registry.MaterialKeys() {
		m, err := h.Registry.Material(key)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		out[key] = materialInfo{Name: m.Name, Density: m.Density, FiberArealWeight: m.FiberArealWeight}
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// Processes lists the served process presets.
func (h *Handler) Processes(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]processInfo)
	for _, key := range h.Registry.ProcessKeys() {
		p, err := h.Registry.Process(key)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		out[key] = processInfo{Name: p.Name, Type: p.Type, LineSpeed: p.LineSpeed, Efficiency: p.Efficiency}
	}
	api.WriteJSON(w, http.StatusOK, out)
}
