package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relayhub/relayhub/internal/auth"
	"github.com/relayhub/relayhub/internal/metrics"
	"github.com/relayhub/relayhub/internal/model"
	"github.com/relayhub/relayhub/internal/service"
)

// MessageHandler handles direct-messaging endpoints.
type MessageHandler struct {
	logger   *slog.Logger
	messages *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(logger *slog.Logger, messages *service.MessageService) *MessageHandler {
	return &MessageHandler{logger: logger, messages: messages}
}

// sendRequest is the POST /send_message body.
type sendRequest struct {
	Dst     string `json:"dst"`
	Content string `json:"content"`
}

// Send handles POST /send_message. The sender is always the
// authenticated caller; persistence succeeding is the only acknowledgment.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "body", "invalid request body")
		return
	}

	msg, err := h.messages.Send(r.Context(), identity.UserID, req.Dst, req.Content)
	if err != nil {
		writeFault(w, h.logger, r, err)
		return
	}

	metrics.MessagesSent.Inc()
	h.logger.Info("message sent",
		slog.Int64("src_id", identity.UserID),
		slog.Int64("dst_id", msg.DstID),
		slog.String("request_id", requestID(r)),
	)

	writeSuccess(w, http.StatusCreated, model.ConversationMessage{
		Src:       identity.Username,
		Dst:       req.Dst,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
}

// Read handles GET /read_message/{peerUsername}, returning the full
// two-way conversation between the caller and the peer in chronological
// order. Endpoints come back as usernames, never ids.
func (h *MessageHandler) Read(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	peer := chi.URLParam(r, "peerUsername")

	conversation, err := h.messages.ReadConversation(r.Context(), identity.UserID, identity.Username, peer)
	if err != nil {
		writeFault(w, h.logger, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, conversation)
}
