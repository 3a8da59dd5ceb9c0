// internal/domain/entity/relay_log.go
package entity

import (
	"time"
)

// Relay call statuses
const (
	RelayStatusSuccess = "success"
	RelayStatusFailed  = "failed"
)

// RelayLog records one outbound call to a third-party API
type RelayLog struct {
	ID         string        `json:"id" bson:"_id"`
	RequestID  string        `json:"requestId,omitempty" bson:"requestId,omitempty"`
	Provider   string        `json:"provider" bson:"provider"`
	Operation  string        `json:"operation" bson:"operation"`
	Status     string        `json:"status" bson:"status"`
	StatusCode int           `json:"statusCode,omitempty" bson:"statusCode,omitempty"`
	Error      string        `json:"error,omitempty" bson:"error,omitempty"`
	Duration   time.Duration `json:"duration" bson:"duration"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
}
