package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"
)

// LineRepository calls the LINE Messaging API
type LineRepository struct {
	client      *relay.Client
	logger      logger.Logger
	baseURL     string
	accessToken string
}

// NewLineRepository creates a new LINE repository
func NewLineRepository(client *relay.Client, logger logger.Logger, baseURL, accessToken string) repository.LineRepository {
	return &LineRepository{
		client:      client,
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

type lineTextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textMessages(text string) []lineTextMessage {
	return []lineTextMessage{{Type: entity.LineMessageText, Text: text}}
}

// PushText sends a text message to a user
func (r *LineRepository) PushText(ctx context.Context, userID, text string) error {
	if userID == "" || text == "" {
		return fmt.Errorf("%w: user_id and text are required", entity.ErrInvalidPayload)
	}
	body := map[string]interface{}{
		"to":       userID,
		"messages": textMessages(text),
	}
	if err := r.call(ctx, "push_message", http.MethodPost, "/v2/bot/message/push", body, nil); err != nil {
		return err
	}
	r.logger.Info("Push message sent", "userId", userID)
	return nil
}

// ReplyText answers a webhook event through its reply token
func (r *LineRepository) ReplyText(ctx context.Context, replyToken, text string) error {
	if replyToken == "" {
		return fmt.Errorf("%w: reply token is required", entity.ErrInvalidPayload)
	}
	body := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   textMessages(text),
	}
	return r.call(ctx, "reply_message", http.MethodPost, "/v2/bot/message/reply", body, nil)
}

// GetProfile fetches a user's profile
func (r *LineRepository) GetProfile(ctx context.Context, userID string) (*entity.LineProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", entity.ErrInvalidPayload)
	}
	var profile entity.LineProfile
	if err := r.call(ctx, "get_profile", http.MethodGet, "/v2/bot/profile/"+url.PathEscape(userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ShowLoading displays the loading animation in a one-to-one chat
func (r *LineRepository) ShowLoading(ctx context.Context, chatID string, seconds int) error {
	body := map[string]interface{}{
		"chatId":         chatID,
		"loadingSeconds": seconds,
	}
	return r.call(ctx, "show_loading", http.MethodPost, "/v2/bot/chat/loading/start", body, nil)
}

func (r *LineRepository) call(ctx context.Context, operation, method, path string, body, out interface{}) error {
	if r.accessToken == "" {
		return fmt.Errorf("line: %w", relay.ErrNotConfigured)
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+r.accessToken)

	err := r.client.DoJSON(ctx, relay.Request{
		Operation: operation,
		Method:    method,
		URL:       r.baseURL + path,
		Header:    header,
		Body:      body,
	}, out)
	if err != nil {
		return fmt.Errorf("line %s: %w", operation, err)
	}
	return nil
}
