package repository

import (
	"context"

	"integration-hub/internal/domain/entity"
)

// CleverTapRepository defines the interface for CleverTap uploads
type CleverTapRepository interface {
	UploadProfiles(ctx context.Context, profiles []entity.CleverTapProfile) (map[string]interface{}, error)
	UploadEvents(ctx context.Context, events []entity.CleverTapEvent) (map[string]interface{}, error)
}
