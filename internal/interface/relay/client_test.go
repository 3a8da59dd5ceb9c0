package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"integration-hub/internal/domain/entity"
	"integration-hub/pkg/logger"
	"integration-hub/pkg/metrics"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAudit struct {
	mu      sync.Mutex
	entries []*entity.RelayLog
	err     error
}

func (r *recordingAudit) Save(_ context.Context, log *entity.RelayLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, log)
	return r.err
}

func (r *recordingAudit) FindByProvider(_ context.Context, _ string, _ int) ([]*entity.RelayLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, nil
}

func newTestClient(audit *recordingAudit, m *metrics.Metrics) *Client {
	return NewClient("acme", Options{RequestsPerSecond: 100, Burst: 10, Timeout: 5 * time.Second}, m, audit, logger.NewNopLogger())
}

func TestDoJSON(t *testing.T) {
	t.Run("sends body and decodes response", func(t *testing.T) {
		var gotBody map[string]interface{}
		var gotHeader, gotRequestID string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Api-Key")
			gotRequestID = r.Header.Get(RequestIDHeader)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`{"status":"ok","count":2}`))
		}))
		defer srv.Close()

		audit := &recordingAudit{}
		m := metrics.NewNopMetrics()
		c := newTestClient(audit, m)

		ctx := ContextWithRequestID(context.Background(), "req-1")
		var out map[string]interface{}
		err := c.DoJSON(ctx, Request{
			Operation: "upload",
			Method:    http.MethodPost,
			URL:       srv.URL,
			Header:    http.Header{"X-Api-Key": []string{"secret"}},
			Body:      map[string]string{"hello": "world"},
		}, &out)
		require.NoError(t, err)

		assert.Equal(t, "ok", out["status"])
		assert.Equal(t, "world", gotBody["hello"])
		assert.Equal(t, "secret", gotHeader)
		assert.Equal(t, "req-1", gotRequestID)

		require.Len(t, audit.entries, 1)
		entry := audit.entries[0]
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "req-1", entry.RequestID)
		assert.Equal(t, "acme", entry.Provider)
		assert.Equal(t, "upload", entry.Operation)
		assert.Equal(t, entity.RelayStatusSuccess, entry.Status)
		assert.Equal(t, http.StatusOK, entry.StatusCode)
		var counter dto.Metric
		require.NoError(t, m.RelayCalls.WithLabelValues("acme", "upload", entity.RelayStatusSuccess).Write(&counter))
		assert.Equal(t, 1.0, counter.GetCounter().GetValue())
	})

	t.Run("non-2xx becomes StatusError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad"}`))
		}))
		defer srv.Close()

		audit := &recordingAudit{}
		c := newTestClient(audit, metrics.NewNopMetrics())

		err := c.DoJSON(context.Background(), Request{Operation: "get", Method: http.MethodGet, URL: srv.URL}, nil)
		require.Error(t, err)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadRequest, se.StatusCode)
		assert.Contains(t, se.Body, "bad")
		assert.Equal(t, http.StatusBadRequest, StatusCodeOf(err))

		require.Len(t, audit.entries, 1)
		assert.Equal(t, entity.RelayStatusFailed, audit.entries[0].Status)
		assert.NotEmpty(t, audit.entries[0].Error)
	})

	t.Run("audit failure does not fail the call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		audit := &recordingAudit{err: errors.New("db down")}
		c := newTestClient(audit, metrics.NewNopMetrics())

		err := c.DoJSON(context.Background(), Request{Operation: "get", Method: http.MethodGet, URL: srv.URL}, nil)
		assert.NoError(t, err)
		assert.Len(t, audit.entries, 1)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := NewClient("acme", Options{RequestsPerSecond: 0.001, Burst: 1}, nil, nil, logger.NewNopLogger())
		// drain the single burst token
		require.NoError(t, c.Track(context.Background(), "noop", func(context.Context) (int, error) { return 0, nil }))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := c.Track(ctx, "noop", func(context.Context) (int, error) { return 0, nil })
		assert.Error(t, err)
	})
}

type taggingLogger struct {
	logger.Logger
	tags *[][]interface{}
}

func (l taggingLogger) With(keysAndValues ...interface{}) logger.Logger {
	*l.tags = append(*l.tags, keysAndValues)
	return l
}

func TestNewClientTagsProviderOnce(t *testing.T) {
	var tags [][]interface{}
	NewClient("acme", Options{}, nil, nil, taggingLogger{Logger: logger.NewNopLogger(), tags: &tags})

	assert.Equal(t, [][]interface{}{{"provider", "acme"}}, tags)
}
