package repository

import (
	"context"
	"time"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"

	"gorm.io/gorm"
)

// GormRelayLogRepository implements the RelayLogRepository interface
type GormRelayLogRepository struct {
	db *gorm.DB
}

// RelayLogs GORM model for database mapping
type RelayLogs struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	RequestID  string    `gorm:"column:request_id;index"`
	Provider   string    `gorm:"column:provider;index:idx_relay_logs_provider_created"`
	Operation  string    `gorm:"column:operation"`
	Status     string    `gorm:"column:status"`
	StatusCode int       `gorm:"column:status_code"`
	Error      string    `gorm:"column:error"`
	DurationMs int64     `gorm:"column:duration_ms"`
	CreatedAt  time.Time `gorm:"index:idx_relay_logs_provider_created"`
}

// TableName overrides the default table name
func (RelayLogs) TableName() string {
	return "relay_logs"
}

// NewGormRelayLogRepository creates a new GORM relay log repository and
// migrates its table.
func NewGormRelayLogRepository(db *gorm.DB) (repository.RelayLogRepository, error) {
	if err := db.AutoMigrate(&RelayLogs{}); err != nil {
		return nil, err
	}
	return &GormRelayLogRepository{
		db: db,
	}, nil
}

// Save inserts a relay log entry
func (r *GormRelayLogRepository) Save(ctx context.Context, log *entity.RelayLog) error {
	row := RelayLogs{
		ID:         log.ID,
		RequestID:  log.RequestID,
		Provider:   log.Provider,
		Operation:  log.Operation,
		Status:     log.Status,
		StatusCode: log.StatusCode,
		Error:      log.Error,
		DurationMs: log.Duration.Milliseconds(),
		CreatedAt:  log.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// FindByProvider returns the most recent entries of a provider
func (r *GormRelayLogRepository) FindByProvider(ctx context.Context, provider string, limit int) ([]*entity.RelayLog, error) {
	var rows []RelayLogs
	result := r.db.WithContext(ctx).
		Where("provider = ?", provider).
		Order("created_at desc").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM models to domain entities
	logs := make([]*entity.RelayLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, &entity.RelayLog{
			ID:         row.ID,
			RequestID:  row.RequestID,
			Provider:   row.Provider,
			Operation:  row.Operation,
			Status:     row.Status,
			StatusCode: row.StatusCode,
			Error:      row.Error,
			Duration:   time.Duration(row.DurationMs) * time.Millisecond,
			CreatedAt:  row.CreatedAt,
		})
	}
	return logs, nil
}
