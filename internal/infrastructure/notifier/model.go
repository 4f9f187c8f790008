package notifier

import "time"

// CallbackPayload is the body posted to the webhook for every domain event.
type CallbackPayload struct {
	Topic      string         `json:"topic"`
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
