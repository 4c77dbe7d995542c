// Package alerts holds the broker clients alert channels publish through.
package alerts

import (
	"encoding/json"
	"time"
)

// Message is the wire form of one alert sent to a broker.
type Message struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// Encode marshals m as JSON.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}
