// internal/domain/entity/facebook.go
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ActionSource is where a conversion happened
type ActionSource string

const (
	ActionSourceEmail           ActionSource = "email"
	ActionSourceWebsite         ActionSource = "website"
	ActionSourceApp             ActionSource = "app"
	ActionSourcePhoneCall       ActionSource = "phone_call"
	ActionSourceChat            ActionSource = "chat"
	ActionSourcePhysicalStore   ActionSource = "physical_store"
	ActionSourceSystemGenerated ActionSource = "system_generated"
	ActionSourceOther           ActionSource = "other"
)

// Valid reports whether the action source is one the Conversions API accepts
func (a ActionSource) Valid() bool {
	switch a {
	case ActionSourceEmail, ActionSourceWebsite, ActionSourceApp, ActionSourcePhoneCall,
		ActionSourceChat, ActionSourcePhysicalStore, ActionSourceSystemGenerated, ActionSourceOther:
		return true
	}
	return false
}

// UserData identifies the customer behind a server event.
// Em, Ph, Fn and Ln must be SHA-256 hashed before sending.
type UserData struct {
	Em              []string `json:"em,omitempty"`
	Ph              []string `json:"ph,omitempty"`
	Fn              []string `json:"fn,omitempty"`
	Ln              []string `json:"ln,omitempty"`
	LeadID          []string `json:"lead_id,omitempty"`
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
	Fbc             string   `json:"fbc,omitempty"`
	Fbp             string   `json:"fbp,omitempty"`
}

// Hash normalises and hashes the personal fields in place
func (u *UserData) Hash() {
	u.Em = hashAll(u.Em)
	u.Ph = hashAll(u.Ph)
	u.Fn = hashAll(u.Fn)
	u.Ln = hashAll(u.Ln)
}

func hashAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = HashIdentifier(v)
	}
	return out
}

// HashIdentifier trims and lowercases v and returns its SHA-256 hex digest.
// Values that already look like a digest are returned normalised but unhashed.
func HashIdentifier(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if isSHA256Hex(v) {
		return v
	}
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}

func isSHA256Hex(v string) bool {
	if len(v) != 64 {
		return false
	}
	for _, c := range v {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

// CustomData carries the business details of a conversion
type CustomData struct {
	Value       *float64 `json:"value,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	ContentName string   `json:"content_name,omitempty"`
	ContentIDs  []string `json:"content_ids,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
	OrderID     string   `json:"order_id,omitempty"`
}

// ServerEvent is one Conversions API event
type ServerEvent struct {
	EventName      string       `json:"event_name"`
	EventTime      int64        `json:"event_time"`
	ActionSource   ActionSource `json:"action_source"`
	EventID        string       `json:"event_id,omitempty"`
	EventSourceURL string       `json:"event_source_url,omitempty"`
	UserData       *UserData    `json:"user_data"`
	CustomData     *CustomData  `json:"custom_data,omitempty"`
}

// Prepare validates the event, applies defaults and hashes user data
func (e *ServerEvent) Prepare(now time.Time) error {
	if e.EventName == "" {
		return fmt.Errorf("event_name is required")
	}
	if e.UserData == nil {
		return fmt.Errorf("user_data is required")
	}
	if e.EventTime == 0 {
		e.EventTime = now.Unix()
	}
	if e.ActionSource == "" {
		e.ActionSource = ActionSourceWebsite
	}
	if !e.ActionSource.Valid() {
		return fmt.Errorf("invalid action_source %q", e.ActionSource)
	}
	e.UserData.Hash()
	return nil
}

// LeadField is one answer in a lead form
type LeadField struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Lead is a lead-gen form submission
type Lead struct {
	ID          string      `json:"id,omitempty"`
	CreatedTime string      `json:"created_time"`
	AdID        string      `json:"ad_id,omitempty"`
	FormID      string      `json:"form_id,omitempty"`
	FieldData   []LeadField `json:"field_data"`
}

// LeadQuery selects leads of a form created inside a time window
type LeadQuery struct {
	FormID string
	Start  time.Time
	End    time.Time
	Limit  int
}

// LeadTimeLayout is the layout of lead query bounds and returned lead times
const LeadTimeLayout = "2006-01-02 15:04:05"

// Bangkok is the fixed UTC+7 zone lead times are reported in
var Bangkok = time.FixedZone("UTC+7", 7*3600)
