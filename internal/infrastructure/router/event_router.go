package router

import (
	"fmt"

	"integration-hub/internal/usecase"
	"integration-hub/pkg/logger"
)

// EventRouter routes LINE webhook events to handlers based on subject
type EventRouter struct {
	handlers []usecase.EventHandler
	logger   logger.Logger
}

// NewEventRouter creates a new event router
func NewEventRouter(logger logger.Logger) *EventRouter {
	return &EventRouter{
		handlers: make([]usecase.EventHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler; earlier registrations take precedence
func (r *EventRouter) Register(handler usecase.EventHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered handler", "handler", fmt.Sprintf("%T", handler))
}

// GetHandler returns the appropriate handler for a given subject
func (r *EventRouter) GetHandler(subject string) usecase.EventHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(subject) {
			return handler
		}
	}
	return nil
}
