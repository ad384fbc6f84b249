package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/relayhub/relayhub/internal/auth"
	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/metrics"
	"github.com/relayhub/relayhub/internal/service"
)

// UserHandler handles registration and user lookup endpoints.
type UserHandler struct {
	logger *slog.Logger
	users  *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(logger *slog.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{logger: logger, users: users}
}

// registerRequest is the POST /register body.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register handles POST /register. It is the only unauthenticated
// mutation: a successful call returns the new id and the plaintext API
// key, shown exactly once.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "body", "invalid request body")
		return
	}

	reg, err := h.users.Register(r.Context(), req.Username, req.Email)
	if err != nil {
		writeFault(w, h.logger, r, err)
		return
	}

	metrics.UsersRegistered.Inc()
	h.logger.Info("user registered",
		slog.Int64("user_id", reg.ID),
		slog.String("request_id", requestID(r)),
	)

	writeSuccess(w, http.StatusCreated, reg)
}

// Me handles GET /me, returning the authenticated caller's own record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeFault(w, h.logger, r, fault.MissingCredentialf())
		return
	}

	user, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		writeFault(w, h.logger, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// GetByID handles GET /user_by_id/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeFault(w, h.logger, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// GetByUsername handles GET /user_by_username/{username}. Here absence
// is caller-visible: a miss is a NotFound client fault.
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		writeFault(w, h.logger, r, err)
		return
	}
	if user == nil {
		writeFault(w, h.logger, r, fault.NotFoundf("username", username))
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// DeleteByID handles DELETE /delete_user_by_id/{id} and returns the
// deleted user snapshot. The API key row is removed by cascade.
func (h *UserHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.users.DeleteByID(r.Context(), id)
	if err != nil {
		writeFault(w, h.logger, r, err)
		return
	}

	metrics.UsersDeleted.Inc()
	h.logger.Info("user deleted",
		slog.Int64("user_id", user.ID),
		slog.String("request_id", requestID(r)),
	)

	writeSuccess(w, http.StatusOK, user)
}

// parseID pulls the {id} route parameter and requires it to be an
// integer. On failure it writes the client fault itself.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "id", "id must be an integer")
		return 0, false
	}
	return id, true
}
