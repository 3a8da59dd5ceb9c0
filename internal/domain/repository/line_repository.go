package repository

import (
	"context"

	"integration-hub/internal/domain/entity"
)

// LineRepository defines the interface for LINE Messaging API operations
type LineRepository interface {
	PushText(ctx context.Context, userID, text string) error
	ReplyText(ctx context.Context, replyToken, text string) error
	GetProfile(ctx context.Context, userID string) (*entity.LineProfile, error)
	ShowLoading(ctx context.Context, chatID string, seconds int) error
}

// GeneratorRepository defines the interface for generative text replies
type GeneratorRepository interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}
