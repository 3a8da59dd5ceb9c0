// internal/domain/entity/line.go
package entity

// LINE webhook event types
const (
	LineEventMessage = "message"
	LineEventBeacon  = "beacon"
)

// LINE message types
const (
	LineMessageText  = "text"
	LineMessageImage = "image"
)

// LineWebhook is the body LINE posts to the webhook callback
type LineWebhook struct {
	Destination string      `json:"destination"`
	Events      []LineEvent `json:"events"`
}

// LineEvent is one webhook event
type LineEvent struct {
	Type       string       `json:"type"`
	Timestamp  int64        `json:"timestamp"`
	ReplyToken string       `json:"replyToken,omitempty"`
	Source     LineSource   `json:"source"`
	Message    *LineMessage `json:"message,omitempty"`
	Beacon     *LineBeacon  `json:"beacon,omitempty"`
}

// Subject returns the routing key of the event, e.g. "message.text" or "beacon"
func (e *LineEvent) Subject() string {
	if e.Type == LineEventMessage && e.Message != nil {
		return e.Type + "." + e.Message.Type
	}
	return e.Type
}

// LineSource is who triggered an event
type LineSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// LineMessage is the message content of a message event
type LineMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// LineBeacon is the beacon content of a beacon event
type LineBeacon struct {
	HWID string `json:"hwid"`
	Type string `json:"type"`
	DM   string `json:"dm,omitempty"`
}

// LineProfile is a LINE user profile
type LineProfile struct {
	DisplayName   string `json:"displayName"`
	UserID        string `json:"userId"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// PushMessage is a request to push text to a user
type PushMessage struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}
