package usecase

import (
	"context"

	"integration-hub/internal/domain/entity"
)

// EventHandler defines the interface for LINE webhook event handlers
type EventHandler interface {
	// CanHandle determines if this handler can process the given event subject
	CanHandle(subject string) bool

	// Handle processes the event
	Handle(ctx context.Context, event *entity.LineEvent) error
}

// EventRouter routes webhook events to the appropriate handler by subject
type EventRouter interface {
	// Register registers a handler
	Register(handler EventHandler)

	// GetHandler returns the appropriate handler for a given subject
	GetHandler(subject string) EventHandler
}
