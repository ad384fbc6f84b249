// Package handler provides HTTP request handlers.
//
// Every response uses one envelope shape: {"status":"success","data":...}
// for successes, {"status":"fail","data":{field:message}} for client
// faults, and {"status":"error","message":...} for opaque server faults.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/middleware"
)

// requestID pulls the correlation id injected by the RequestID middleware.
func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

// Handler wraps fallback HTTP handlers.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello is the root info endpoint.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{
		"service": "relayhub",
		"version": "0.1.0",
	})
}

// NotFound handles 404 responses for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeFail(w, http.StatusNotFound, "path", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeFail(w, http.StatusMethodNotAllowed, "method", "method not allowed")
}

// statusForKind maps taxonomy kinds to HTTP status codes.
func statusForKind(kind fault.Kind) int {
	switch kind {
	case fault.MissingCredential, fault.InvalidCredential:
		return http.StatusUnauthorized
	case fault.Conflict:
		return http.StatusConflict
	case fault.NotFound, fault.UnknownRecipient:
		return http.StatusNotFound
	case fault.SelfMessage, fault.SelfConversation, fault.Invalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeFault renders any service or store error. Client faults carry a
// per-field message map; server faults are logged with their cause and
// rendered with no internal detail.
func writeFault(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	fe := fault.As(err)

	if !fe.IsClientFault() {
		logger.Error("request failed",
			slog.String("error", fe.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeError(w)
		return
	}

	writeFail(w, statusForKind(fe.Kind), fe.Field, fe.Msg)
}

// writeSuccess writes a success envelope with the given status code.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{
		"status": "success",
		"data":   data,
	})
}

// writeFail writes a client-fault envelope with a single field error.
func writeFail(w http.ResponseWriter, status int, field, msg string) {
	writeJSON(w, status, map[string]any{
		"status": "fail",
		"data":   map[string]string{field: msg},
	})
}

// writeError writes the opaque server-fault envelope.
func writeError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"status":  "error",
		"message": "service unavailable",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; nothing useful left to do.
		_ = err
	}
}
