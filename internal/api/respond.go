// Package api carries the HTTP plumbing shared by every endpoint: request
// decoding with validation, JSON responses and the mapping from engine
// error kinds to status codes.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"Mandrel/internal/fwerr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report wire names, not Go field names, in validation messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Decode fills dst from the JSON body and validates it. An empty body is
// allowed so a request without parameters falls back to the defaults dst
// was constructed with.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fwerr.Input("invalid request payload: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Param() != "" {
				return fwerr.Input("%s failed %s=%s validation", fe.Field(), fe.ActualTag(), fe.Param())
			}
			return fwerr.Input("%s failed %s validation", fe.Field(), fe.ActualTag())
		}
		return fwerr.Input("invalid request: %v", err)
	}
	return nil
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorEnvelope is the uniform failure body.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ErrorID string `json:"error_id,omitempty"`
}

// StatusFor maps an engine error kind to its HTTP status.
func StatusFor(err error) int {
	switch fwerr.KindOf(err) {
	case fwerr.KindInput:
		return http.StatusBadRequest
	case fwerr.KindConfig:
		return http.StatusNotFound
	case fwerr.KindNumerical:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs err with its correlation id and writes the failure
// envelope. Unclassified errors are reported without internals.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := "internal error"
	id := ""
	var e *fwerr.Error
	if errors.As(err, &e) {
		msg = e.Message
		id = e.ID
	}
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Str("error_id", id).
		Int("status", status).
		Str("path", r.URL.Path).
		Msg("request failed")
	WriteJSON(w, status, ErrorEnvelope{Error: msg, ErrorID: id})
}
