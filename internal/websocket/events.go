package websocket

import (
	"log"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastFeedSyncCompleted sends a feed sync completed event.
func (b *EventBroadcaster) BroadcastFeedSyncCompleted(result models.FeedSyncResult) {
	payload := FeedSyncPayload{
		FeedID:        result.FeedID,
		FeedName:      result.FeedName,
		Status:        "success",
		EventsFound:   result.EventsFound,
		EventsCreated: result.EventsCreated,
	}
	if result.Skipped {
		payload.Status = "skipped"
	}

	b.broadcast(NewMessage(TypeFeedSyncCompleted, payload))
}

// BroadcastFeedSyncError sends a feed sync error event.
func (b *EventBroadcaster) BroadcastFeedSyncError(feedID, feedName, message string) {
	payload := FeedSyncErrorPayload{
		FeedID:   feedID,
		FeedName: feedName,
		Message:  message,
	}

	b.broadcast(NewMessage(TypeFeedSyncError, payload))
}

// BroadcastBookingCreated sends a booking created event.
func (b *EventBroadcaster) BroadcastBookingCreated(booking models.Booking) {
	b.broadcastBooking(TypeBookingCreated, booking)
}

// BroadcastBookingCancelled sends a booking cancelled event.
func (b *EventBroadcaster) BroadcastBookingCancelled(booking models.Booking) {
	b.broadcastBooking(TypeBookingCancelled, booking)
}

func (b *EventBroadcaster) broadcastBooking(msgType MessageType, booking models.Booking) {
	payload := BookingPayload{
		BookingID: booking.ID,
		UnitID:    booking.UnitID,
		Status:    booking.Status,
		CheckIn:   booking.CheckIn,
		CheckOut:  booking.CheckOut,
	}

	b.broadcast(NewMessage(msgType, payload))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:   level,
		Title:   title,
		Message: message,
	}

	b.broadcast(NewMessage(TypeNotification, payload))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Failed to serialize WebSocket message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
