package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"integration-hub/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// ErrNoCredentials is returned when neither a service account nor a
// refresh token is configured
var ErrNoCredentials = errors.New("no google credentials configured")

// GoogleOAuth handles the OAuth refresh-token flow for the Sheets API
type GoogleOAuth struct {
	config       *oauth2.Config
	refreshToken string
	logger       logger.Logger
}

// NewGoogleOAuth creates a new Google OAuth handler
func NewGoogleOAuth(clientID, clientSecret, refreshToken string, logger logger.Logger) *GoogleOAuth {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}

	return &GoogleOAuth{
		config:       config,
		refreshToken: refreshToken,
		logger:       logger,
	}
}

// GetTokenSource returns a token source that can be used with the Sheets API
func (o *GoogleOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	token := &oauth2.Token{
		RefreshToken: o.refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return o.config.TokenSource(ctx, token)
}

// GenerateAuthURL generates a URL for the user to authorize the application
func (o *GoogleOAuth) GenerateAuthURL(redirectURL, state string) string {
	o.config.RedirectURL = redirectURL
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode exchanges an authorization code for a token
func (o *GoogleOAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	o.logger.Info("Refresh token obtained", "expiry", token.Expiry)

	return token, nil
}

// TokenToJSON converts a token to JSON
func (o *GoogleOAuth) TokenToJSON(token *oauth2.Token) (string, error) {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ServiceAccountTokenSource builds a token source for the Sheets scope from
// credentials, which is either a path to a service account key file or the
// key's JSON content.
func ServiceAccountTokenSource(ctx context.Context, credentials string) (oauth2.TokenSource, error) {
	data := []byte(credentials)
	if !strings.HasPrefix(strings.TrimSpace(credentials), "{") {
		raw, err := os.ReadFile(credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		data = raw
	}

	config, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	return config.TokenSource(ctx), nil
}

// SheetsTokenSource picks service account credentials when present and the
// refresh-token flow otherwise.
func SheetsTokenSource(ctx context.Context, credentials, clientID, clientSecret, refreshToken string, logger logger.Logger) (oauth2.TokenSource, error) {
	if credentials != "" {
		logger.Info("Using service account credentials for Google Sheets")
		return ServiceAccountTokenSource(ctx, credentials)
	}
	if refreshToken != "" && clientID != "" {
		logger.Info("Using OAuth refresh token for Google Sheets")
		return NewGoogleOAuth(clientID, clientSecret, refreshToken, logger).GetTokenSource(ctx), nil
	}
	return nil, ErrNoCredentials
}
