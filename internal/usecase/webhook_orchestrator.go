package usecase

import (
	"context"
	"fmt"

	"integration-hub/internal/domain/entity"
	"integration-hub/pkg/logger"
)

// WebhookOrchestrator dispatches LINE webhook events to registered handlers
type WebhookOrchestrator struct {
	router EventRouter
	logger logger.Logger
}

// NewWebhookOrchestrator creates a new webhook orchestrator
func NewWebhookOrchestrator(router EventRouter, logger logger.Logger) *WebhookOrchestrator {
	return &WebhookOrchestrator{
		router: router,
		logger: logger,
	}
}

// ProcessEvent processes a single event. Events without a handler are skipped.
func (o *WebhookOrchestrator) ProcessEvent(ctx context.Context, event *entity.LineEvent) error {
	subject := event.Subject()
	handler := o.router.GetHandler(subject)
	if handler == nil {
		o.logger.Debug("No handler found for event", "subject", subject)
		return nil
	}

	handlerType := fmt.Sprintf("%T", handler)
	o.logger.Info("Processing event with handler",
		"subject", subject,
		"handler", handlerType,
		"userId", event.Source.UserID)

	if err := handler.Handle(ctx, event); err != nil {
		return fmt.Errorf("%s: %w", handlerType, err)
	}
	return nil
}

// ProcessWebhook processes every event of a webhook. A failing event is
// logged and does not stop the others; the number of failures is returned.
func (o *WebhookOrchestrator) ProcessWebhook(ctx context.Context, webhook *entity.LineWebhook) int {
	failed := 0
	for i := range webhook.Events {
		if err := o.ProcessEvent(ctx, &webhook.Events[i]); err != nil {
			failed++
			o.logger.Error("Handler failed to process event",
				"subject", webhook.Events[i].Subject(),
				"error", err)
		}
	}
	return failed
}
