// internal/domain/entity/errors.go
package entity

import "errors"

// ErrInvalidPayload marks a request body that fails validation
var ErrInvalidPayload = errors.New("invalid payload")
