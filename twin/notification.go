package twin

import "time"

// EventNotification is one firing of a registered event. It is immutable
// once created.
type EventNotification struct {
	Key       string      `json:"key"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"` // epoch milliseconds
}

// NewEventNotification creates a notification stamped with the current time.
func NewEventNotification(key string, payload interface{}) EventNotification {
	return EventNotification{
		Key:       key,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}
