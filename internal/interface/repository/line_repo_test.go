package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineRepository(t *testing.T) {
	calls := map[string]map[string]interface{}{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer line-token", r.Header.Get("Authorization"))
		if r.Method == http.MethodGet {
			calls[r.URL.Path] = nil
			w.Write([]byte(`{"displayName":"Ann","userId":"U1","pictureUrl":"https://pic"}`))
			return
		}
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls[r.URL.Path] = body
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	repo := NewLineRepository(newRelayClient("line"), logger.NewNopLogger(), srv.URL, "line-token")
	ctx := context.Background()

	t.Run("push", func(t *testing.T) {
		require.NoError(t, repo.PushText(ctx, "U1", "hi"))
		body := calls["/v2/bot/message/push"]
		assert.Equal(t, "U1", body["to"])
		msg := body["messages"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "text", msg["type"])
		assert.Equal(t, "hi", msg["text"])
	})

	t.Run("reply", func(t *testing.T) {
		require.NoError(t, repo.ReplyText(ctx, "rt-1", "hello"))
		assert.Equal(t, "rt-1", calls["/v2/bot/message/reply"]["replyToken"])
	})

	t.Run("loading", func(t *testing.T) {
		require.NoError(t, repo.ShowLoading(ctx, "U1", 20))
		assert.Equal(t, float64(20), calls["/v2/bot/chat/loading/start"]["loadingSeconds"])
	})

	t.Run("profile", func(t *testing.T) {
		profile, err := repo.GetProfile(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, &entity.LineProfile{DisplayName: "Ann", UserID: "U1", PictureURL: "https://pic"}, profile)
		assert.Contains(t, calls, "/v2/bot/profile/U1")
	})

	t.Run("push requires text", func(t *testing.T) {
		assert.ErrorIs(t, repo.PushText(ctx, "U1", ""), entity.ErrInvalidPayload)
	})
}

func TestLineRepositoryNotConfigured(t *testing.T) {
	repo := NewLineRepository(newRelayClient("line"), logger.NewNopLogger(), "http://unused", "")
	assert.ErrorIs(t, repo.PushText(context.Background(), "U1", "hi"), relay.ErrNotConfigured)
}
