package repository

import (
	"context"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
)

// NoopRelayLogRepository discards relay log entries
type NoopRelayLogRepository struct{}

// NewNoopRelayLogRepository creates a relay log repository that stores nothing
func NewNoopRelayLogRepository() repository.RelayLogRepository {
	return NoopRelayLogRepository{}
}

// Save discards log
func (NoopRelayLogRepository) Save(context.Context, *entity.RelayLog) error {
	return nil
}

// FindByProvider always returns no entries
func (NoopRelayLogRepository) FindByProvider(context.Context, string, int) ([]*entity.RelayLog, error) {
	return nil, nil
}
