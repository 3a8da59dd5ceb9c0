package usecase

import (
	"context"
	"fmt"
	"strings"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/pkg/logger"
)

// loadingSeconds is how long the typing animation runs while a reply is generated
const loadingSeconds = 20

// TextMessageHandler answers text messages, with a generated reply when a
// generator is configured
type TextMessageHandler struct {
	line      repository.LineRepository
	generator repository.GeneratorRepository
	logger    logger.Logger
}

// NewTextMessageHandler creates a new text message handler
func NewTextMessageHandler(line repository.LineRepository, generator repository.GeneratorRepository, logger logger.Logger) *TextMessageHandler {
	return &TextMessageHandler{
		line:      line,
		generator: generator,
		logger:    logger,
	}
}

// CanHandle checks if the event is a text message
func (h *TextMessageHandler) CanHandle(subject string) bool {
	return subject == entity.LineEventMessage+"."+entity.LineMessageText
}

// Handle shows the loading animation, builds the reply text and replies
func (h *TextMessageHandler) Handle(ctx context.Context, event *entity.LineEvent) error {
	userText := event.Message.Text
	userID := event.Source.UserID

	var displayName string
	if userID != "" {
		profile, err := h.line.GetProfile(ctx, userID)
		if err != nil {
			h.logger.Warn("Failed to get user profile", "userId", userID, "error", err)
		} else {
			displayName = profile.DisplayName
		}

		if err := h.line.ShowLoading(ctx, userID, loadingSeconds); err != nil {
			h.logger.Warn("Error showing loading animation", "userId", userID, "error", err)
		}
	}

	var reply string
	if h.generator != nil && h.generator.Enabled() {
		text, err := h.generator.Generate(ctx, userText)
		if err != nil {
			reply = fmt.Sprintf("Gemini Error: %v", err)
		} else {
			reply = text
		}
	} else if strings.EqualFold(userText, "hello") {
		reply = fmt.Sprintf("Hello %s", displayName)
	} else {
		reply = fmt.Sprintf("Service processed: %s %s", userText, displayName)
	}

	return h.line.ReplyText(ctx, event.ReplyToken, reply)
}

// ImageMessageHandler acknowledges image messages
type ImageMessageHandler struct {
	line   repository.LineRepository
	logger logger.Logger
}

// NewImageMessageHandler creates a new image message handler
func NewImageMessageHandler(line repository.LineRepository, logger logger.Logger) *ImageMessageHandler {
	return &ImageMessageHandler{
		line:   line,
		logger: logger,
	}
}

// CanHandle checks if the event is an image message
func (h *ImageMessageHandler) CanHandle(subject string) bool {
	return subject == entity.LineEventMessage+"."+entity.LineMessageImage
}

// Handle replies with an acknowledgement
func (h *ImageMessageHandler) Handle(ctx context.Context, event *entity.LineEvent) error {
	h.logger.Info("Image received", "messageId", event.Message.ID, "userId", event.Source.UserID)
	return h.line.ReplyText(ctx, event.ReplyToken, "Image received")
}

// BeaconHandler answers beacon events
type BeaconHandler struct {
	line repository.LineRepository
}

// NewBeaconHandler creates a new beacon handler
func NewBeaconHandler(line repository.LineRepository) *BeaconHandler {
	return &BeaconHandler{line: line}
}

// CanHandle checks if the event is a beacon event
func (h *BeaconHandler) CanHandle(subject string) bool {
	return subject == entity.LineEventBeacon
}

// Handle replies with the beacon type
func (h *BeaconHandler) Handle(ctx context.Context, event *entity.LineEvent) error {
	beaconType := ""
	if event.Beacon != nil {
		beaconType = event.Beacon.Type
	}
	return h.line.ReplyText(ctx, event.ReplyToken, fmt.Sprintf("Service processed: %s", beaconType))
}
