// internal/domain/entity/clevertap.go
package entity

import (
	"errors"
	"fmt"
	"time"
)

// CleverTap upload record types
const (
	CleverTapProfileType = "profile"
	CleverTapEventType   = "event"
)

// CleverTapProfile is one user profile upload record
type CleverTapProfile struct {
	Type        string                 `json:"type"`
	Identity    string                 `json:"identity,omitempty"`
	ObjectID    string                 `json:"objectId,omitempty"`
	FBID        string                 `json:"FBID,omitempty"`
	ProfileData map[string]interface{} `json:"profileData"`
}

// Validate checks the profile shape and fills the default type
func (p *CleverTapProfile) Validate() error {
	if p.Type == "" {
		p.Type = CleverTapProfileType
	}
	if p.ProfileData == nil {
		return errors.New("profileData is required")
	}
	if p.Identity == "" && p.ObjectID == "" && p.FBID == "" {
		return errors.New("one of identity, objectId or FBID is required")
	}
	return nil
}

// CleverTapEvent is one event upload record
type CleverTapEvent struct {
	Type     string                 `json:"type"`
	EvtName  string                 `json:"evtName"`
	TS       int64                  `json:"ts"`
	Identity string                 `json:"identity,omitempty"`
	ObjectID string                 `json:"objectId,omitempty"`
	FBID     string                 `json:"FBID,omitempty"`
	GPID     string                 `json:"GPID,omitempty"`
	EvtData  map[string]interface{} `json:"evtData"`
}

// Validate checks the event shape and fills the default type
func (e *CleverTapEvent) Validate() error {
	if e.Type == "" {
		e.Type = CleverTapEventType
	}
	if e.EvtName == "" {
		return errors.New("evtName is required")
	}
	if e.TS <= 0 {
		return errors.New("ts is required")
	}
	if e.EvtData == nil {
		return errors.New("evtData is required")
	}
	if e.Identity == "" && e.ObjectID == "" && e.FBID == "" && e.GPID == "" {
		return errors.New("one of identity, objectId, FBID or GPID is required")
	}
	return nil
}

// ValidateProfiles validates every profile, reporting the first bad index
func ValidateProfiles(profiles []CleverTapProfile) error {
	if len(profiles) == 0 {
		return errors.New("at least one profile is required")
	}
	for i := range profiles {
		if err := profiles[i].Validate(); err != nil {
			return fmt.Errorf("profile %d: %w", i, err)
		}
	}
	return nil
}

// ValidateEvents validates every event, reporting the first bad index
func ValidateEvents(events []CleverTapEvent) error {
	if len(events) == 0 {
		return errors.New("at least one event is required")
	}
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

// CleverTapTimeLayout is the datetime layout accepted by ToUnix
const CleverTapTimeLayout = "2006-01-02 15:04:05"

// ToUnix converts a "2006-01-02 15:04:05" datetime at a fixed UTC offset
// in hours to unix seconds.
func ToUnix(datetime string, tzOffsetHours int) (int64, error) {
	loc := time.FixedZone(fmt.Sprintf("UTC%+d", tzOffsetHours), tzOffsetHours*3600)
	t, err := time.ParseInLocation(CleverTapTimeLayout, datetime, loc)
	if err != nil {
		return 0, fmt.Errorf("parse datetime %q: %w", datetime, err)
	}
	return t.Unix(), nil
}
