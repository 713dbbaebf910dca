package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeFeedSyncCompleted MessageType = "feed.sync_completed"
	TypeFeedSyncError     MessageType = "feed.sync_error"
	TypeBookingCreated    MessageType = "booking.created"
	TypeBookingCancelled  MessageType = "booking.cancelled"
	TypeNotification      MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// FeedSyncPayload is the payload for feed.sync_completed events.
type FeedSyncPayload struct {
	FeedID        string `json:"feed_id"`
	FeedName      string `json:"feed_name"`
	Status        string `json:"status"`
	EventsFound   int    `json:"events_found"`
	EventsCreated int    `json:"events_created"`
}

// FeedSyncErrorPayload is the payload for feed.sync_error events.
type FeedSyncErrorPayload struct {
	FeedID   string `json:"feed_id"`
	FeedName string `json:"feed_name"`
	Message  string `json:"message"`
}

// BookingPayload is the payload for booking.created and booking.cancelled
// events.
type BookingPayload struct {
	BookingID string    `json:"booking_id"`
	UnitID    string    `json:"unit_id"`
	Status    string    `json:"status"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error, success
	Title   string `json:"title"`
	Message string `json:"message"`
}
