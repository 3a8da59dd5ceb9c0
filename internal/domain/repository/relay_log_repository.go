package repository

import (
	"context"

	"integration-hub/internal/domain/entity"
)

// RelayLogRepository defines the interface for relay audit storage
type RelayLogRepository interface {
	Save(ctx context.Context, log *entity.RelayLog) error
	FindByProvider(ctx context.Context, provider string, limit int) ([]*entity.RelayLog, error)
}
