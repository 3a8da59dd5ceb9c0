package repository

import (
	"context"

	"integration-hub/internal/domain/entity"
)

// FacebookRepository defines the interface for Graph API operations
type FacebookRepository interface {
	GetLeads(ctx context.Context, query entity.LeadQuery) ([]entity.Lead, error)
	SendEvents(ctx context.Context, pixelID string, events []entity.ServerEvent) (map[string]interface{}, error)
}
