// Package designs keeps named analysis payloads per user. A saved payload
// replays against any analysis endpoint unchanged.
package designs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"Mandrel/internal/api"
	"Mandrel/internal/auth"
	"Mandrel/internal/fwerr"
	"Mandrel/internal/store"
)

type Handler struct {
	Store store.Store
}

type saveRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=120"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

type designDTO struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type createResponse struct {
	Success bool `json:"success"`
	ID      int  `json:"id"`
}

type listResponse struct {
	Success bool        `json:"success"`
	Designs []designDTO `json:"designs"`
}

type getResponse struct {
	Success bool      `json:"success"`
	Design  designDTO `json:"design"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r.Context())
	if !ok {
		denied(w)
		return
	}
	var req saveRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	id, err := h.Store.CreateDesign(r.Context(), store.Design{
		UserID:  uid,
		Name:    req.Name,
		Payload: string(req.Payload),
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, createResponse{Success: true, ID: id})
}

// List answers without payloads; Get returns the full design.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r.Context())
	if !ok {
		denied(w)
		return
	}
	ds, err := h.Store.DesignsByUser(r.Context(), uid)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	out := make([]designDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, designDTO{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt})
	}
	api.WriteJSON(w, http.StatusOK, listResponse{Success: true, Designs: out})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r.Context())
	if !ok {
		denied(w)
		return
	}
	id, err := designID(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	d, err := h.Store.DesignByID(r.Context(), uid, id)
	if errors.Is(err, store.ErrNotFound) {
		api.WriteError(w, r, fwerr.Config("design %d not found", id))
		return
	}
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, getResponse{Success: true, Design: designDTO{
		ID:        d.ID,
		Name:      d.Name,
		Payload:   json.RawMessage(d.Payload),
		CreatedAt: d.CreatedAt,
	}})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r.Context())
	if !ok {
		denied(w)
		return
	}
	id, err := designID(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	err = h.Store.DeleteDesign(r.Context(), uid, id)
	if errors.Is(err, store.ErrNotFound) {
		api.WriteError(w, r, fwerr.Config("design %d not found", id))
		return
	}
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func designID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, fwerr.Input("design id must be an integer")
	}
	return id, nil
}

func denied(w http.ResponseWriter) {
	api.WriteJSON(w, http.StatusUnauthorized, api.ErrorEnvelope{Error: "authentication required"})
}
