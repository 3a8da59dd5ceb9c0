package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"integration-hub/internal/infrastructure/config"
	"integration-hub/internal/infrastructure/oauth"
	"integration-hub/pkg/logger"

	"github.com/google/uuid"
)

// Prints a Google refresh token with the Sheets scope for GOOGLE_REFRESH_TOKEN
func main() {
	log := logger.NewLogger("info")
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Fatal("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}

	googleOAuth := oauth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, "", log)
	state := uuid.NewString()

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		token, err := googleOAuth.ExchangeCode(context.Background(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		fmt.Printf("\nRefresh Token: %s\n\n", token.RefreshToken)
		if raw, err := googleOAuth.TokenToJSON(token); err == nil {
			fmt.Println(raw)
		}

		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	authURL := googleOAuth.GenerateAuthURL("http://localhost:8090/oauth2callback", state)
	fmt.Printf("Open this URL in your browser:\n%s\n", authURL)

	log.Fatal("Callback server stopped", "error", http.ListenAndServe(":8090", nil))
}
