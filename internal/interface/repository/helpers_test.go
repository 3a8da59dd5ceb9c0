package repository

import (
	"time"

	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"
	"integration-hub/pkg/metrics"
)

func newRelayClient(provider string) *relay.Client {
	return relay.NewClient(provider,
		relay.Options{RequestsPerSecond: 1000, Burst: 100, Timeout: 5 * time.Second},
		metrics.NewNopMetrics(),
		NewNoopRelayLogRepository(),
		logger.NewNopLogger())
}
