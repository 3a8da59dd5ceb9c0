package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/internal/usecase"
	"integration-hub/pkg/logger"
)

// LineSignatureHeader carries the webhook body signature
const LineSignatureHeader = "X-Line-Signature"

// LineHandler serves the LINE messaging actions and webhook callback
type LineHandler struct {
	repo          repository.LineRepository
	orchestrator  *usecase.WebhookOrchestrator
	channelSecret string
	logger        logger.Logger
}

// NewLineHandler creates a new LINE handler
func NewLineHandler(repo repository.LineRepository, orchestrator *usecase.WebhookOrchestrator, channelSecret string, logger logger.Logger) *LineHandler {
	return &LineHandler{
		repo:          repo,
		orchestrator:  orchestrator,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

// Register adds the LINE routes
func (h *LineHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhook/callback", h.callback)
	mux.HandleFunc("POST /messaging/push", h.push)
	mux.HandleFunc("GET /messaging/profile/{user_id}", h.profile)
}

// ValidateSignature reports whether signature is the base64 HMAC-SHA256 of
// body keyed by the channel secret
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

func (h *LineHandler) callback(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(LineSignatureHeader)
	if signature == "" {
		writeDetail(w, http.StatusBadRequest, "Missing Signature")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Unreadable body")
		return
	}

	if h.channelSecret == "" || !ValidateSignature(h.channelSecret, body, signature) {
		writeDetail(w, http.StatusBadRequest, "Invalid Signature")
		return
	}

	var webhook entity.LineWebhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid webhook body")
		return
	}

	h.logger.Info("Webhook received", "destination", webhook.Destination, "events", len(webhook.Events))
	if failed := h.orchestrator.ProcessWebhook(r.Context(), &webhook); failed > 0 {
		h.logger.Warn("Some webhook events failed", "failed", failed)
	}

	writeJSON(w, http.StatusOK, "OK")
}

func (h *LineHandler) push(w http.ResponseWriter, r *http.Request) {
	var msg entity.PushMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.repo.PushText(r.Context(), msg.UserID, msg.Text); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Push message sent"})
}

func (h *LineHandler) profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.repo.GetProfile(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"display_name":   profile.DisplayName,
		"user_id":        profile.UserID,
		"picture_url":    profile.PictureURL,
		"status_message": profile.StatusMessage,
	})
}
