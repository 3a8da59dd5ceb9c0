package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/pkg/logger"
)

// CleverTapHandler relays profile and event uploads to CleverTap
type CleverTapHandler struct {
	repo   repository.CleverTapRepository
	logger logger.Logger
}

// NewCleverTapHandler creates a new CleverTap handler
func NewCleverTapHandler(repo repository.CleverTapRepository, logger logger.Logger) *CleverTapHandler {
	return &CleverTapHandler{
		repo:   repo,
		logger: logger,
	}
}

// Register adds the CleverTap routes
func (h *CleverTapHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /clevertap/profiles", h.uploadProfiles)
	mux.HandleFunc("POST /clevertap/events", h.uploadEvents)
}

func (h *CleverTapHandler) uploadProfiles(w http.ResponseWriter, r *http.Request) {
	var profiles []entity.CleverTapProfile
	if err := decodeOneOrMany(w, r, &profiles); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.repo.UploadProfiles(r.Context(), profiles)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CleverTapHandler) uploadEvents(w http.ResponseWriter, r *http.Request) {
	var events []entity.CleverTapEvent
	if err := decodeOneOrMany(w, r, &events); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.repo.UploadEvents(r.Context(), events)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeOneOrMany decodes either a JSON array or a single object into the
// slice pointed to by out
func decodeOneOrMany[T any](w http.ResponseWriter, r *http.Request, out *[]T) error {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
		}
		return nil
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
	}
	*out = []T{one}
	return nil
}
