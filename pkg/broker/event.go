package broker

import "time"

// Event is the envelope every service event travels in.
type Event[T any] struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Payload   T         `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}
