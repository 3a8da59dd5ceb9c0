package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"
)

// SheetsHandler appends rows to Google Sheets
type SheetsHandler struct {
	repo   repository.SheetsRepository
	logger logger.Logger
}

// NewSheetsHandler creates a new Sheets handler. repo is nil when no Google
// credentials are configured.
func NewSheetsHandler(repo repository.SheetsRepository, logger logger.Logger) *SheetsHandler {
	return &SheetsHandler{
		repo:   repo,
		logger: logger,
	}
}

// Register adds the Sheets routes
func (h *SheetsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /google_sheet/{google_sheet_id}/{work_sheet_id}", h.appendData)
}

func (h *SheetsHandler) appendData(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, h.logger, fmt.Errorf("google sheets: %w", relay.ErrNotConfigured))
		return
	}

	sheetID, err := strconv.ParseInt(r.PathValue("work_sheet_id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "work_sheet_id must be an integer")
		return
	}

	var rows [][]string
	if err := decodeJSON(w, r, &rows); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if len(rows) == 0 {
		writeError(w, h.logger, fmt.Errorf("%w: at least one row is required", entity.ErrInvalidPayload))
		return
	}

	if err := h.repo.AppendRows(r.Context(), r.PathValue("google_sheet_id"), sheetID, rows); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Data appended successfully!"})
}
