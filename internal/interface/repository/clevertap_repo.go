package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"
)

// CleverTapRepository uploads profiles and events to CleverTap
type CleverTapRepository struct {
	client    *relay.Client
	logger    logger.Logger
	baseURL   string
	accountID string
	passcode  string
}

// NewCleverTapRepository creates a new CleverTap repository
func NewCleverTapRepository(client *relay.Client, logger logger.Logger, baseURL, accountID, passcode string) repository.CleverTapRepository {
	return &CleverTapRepository{
		client:    client,
		logger:    logger,
		baseURL:   strings.TrimRight(baseURL, "/"),
		accountID: accountID,
		passcode:  passcode,
	}
}

// UploadProfiles validates and uploads user profiles
func (r *CleverTapRepository) UploadProfiles(ctx context.Context, profiles []entity.CleverTapProfile) (map[string]interface{}, error) {
	if err := entity.ValidateProfiles(profiles); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
	}
	r.logger.Info("Uploading CleverTap profiles", "count", len(profiles))
	return r.upload(ctx, "upload_profiles", profiles)
}

// UploadEvents validates and uploads user events
func (r *CleverTapRepository) UploadEvents(ctx context.Context, events []entity.CleverTapEvent) (map[string]interface{}, error) {
	if err := entity.ValidateEvents(events); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
	}
	r.logger.Info("Uploading CleverTap events", "count", len(events))
	return r.upload(ctx, "upload_events", events)
}

func (r *CleverTapRepository) upload(ctx context.Context, operation string, records interface{}) (map[string]interface{}, error) {
	if r.accountID == "" || r.passcode == "" {
		return nil, fmt.Errorf("clevertap: %w", relay.ErrNotConfigured)
	}

	header := http.Header{}
	header.Set("X-CleverTap-Account-Id", r.accountID)
	header.Set("X-CleverTap-Passcode", r.passcode)
	header.Set("Content-Type", "application/json; charset=utf-8")

	var response map[string]interface{}
	err := r.client.DoJSON(ctx, relay.Request{
		Operation: operation,
		Method:    http.MethodPost,
		URL:       r.baseURL + "/upload",
		Header:    header,
		Body:      map[string]interface{}{"d": records},
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("clevertap %s: %w", operation, err)
	}
	return response, nil
}
