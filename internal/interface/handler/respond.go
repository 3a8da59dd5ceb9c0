package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/infrastructure/tabular"
	"integration-hub/internal/interface/relay"
	"integration-hub/internal/interface/sheets"
	"integration-hub/pkg/logger"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response
type errorBody struct {
	Detail  string   `json:"detail"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps domain and upstream errors to HTTP status codes
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var missing *entity.MissingFieldsError
	var upstream *relay.StatusError

	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: missing.Error(), Missing: missing.Fields})
	case errors.Is(err, entity.ErrInvalidPayload), errors.Is(err, tabular.ErrInvalidArgument):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, tabular.ErrNotFound), sheets.IsNotFound(err):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.As(err, &upstream):
		log.Warn("Upstream call rejected", "provider", upstream.Provider, "status", upstream.StatusCode)
		writeDetail(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, relay.ErrNotConfigured):
		log.Error("Provider not configured", "error", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
	default:
		log.Error("Request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON decodes a size-limited request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", entity.ErrInvalidPayload)
		}
		return fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
	}
	return nil
}
