package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/pkg/logger"
)

// FacebookHandler serves the lead-gen and Conversions API endpoints
type FacebookHandler struct {
	repo   repository.FacebookRepository
	logger logger.Logger
}

// NewFacebookHandler creates a new Facebook handler
func NewFacebookHandler(repo repository.FacebookRepository, logger logger.Logger) *FacebookHandler {
	return &FacebookHandler{
		repo:   repo,
		logger: logger,
	}
}

// Register adds the Facebook routes
func (h *FacebookHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /facebook/leadgen/{form_id}", h.leadgen)
	mux.HandleFunc("POST /facebook/conversion_api/{pixel_id}/events", h.conversionAPI)
}

func (h *FacebookHandler) leadgen(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := entity.LeadQuery{FormID: r.PathValue("form_id"), Limit: 100}

	var err error
	if query.Start, err = parseLeadTime(q.Get("start_time")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if query.End, err = parseLeadTime(q.Get("end_time")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if v := q.Get("limit"); v != "" {
		if query.Limit, err = strconv.Atoi(v); err != nil || query.Limit < 1 {
			writeDetail(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
	}

	h.logger.Info("Leadgen endpoint called", "formId", query.FormID)
	leads, err := h.repo.GetLeads(r.Context(), query)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// parseLeadTime parses an optional "2006-01-02 15:04:05" bound in Bangkok time
func parseLeadTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(entity.LeadTimeLayout, v, entity.Bangkok)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must look like 2025-01-01 00:00:00", entity.ErrInvalidPayload, v)
	}
	return t, nil
}

func (h *FacebookHandler) conversionAPI(w http.ResponseWriter, r *http.Request) {
	var events []entity.ServerEvent
	if err := decodeJSON(w, r, &events); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.repo.SendEvents(r.Context(), r.PathValue("pixel_id"), events)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Events created successfully!",
		"response": res,
	})
}
