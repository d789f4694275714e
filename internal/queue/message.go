package queue

import (
	"encoding/json"

	"interview-backend/internal/notify"
)

// Message is the payload sent to the notification worker.
type Message struct {
	Invitation notify.Invitation `json:"invitation"`
	RequestID  string            `json:"requestId,omitempty"`
	EnqueuedAt string            `json:"enqueuedAt"`
	Version    int               `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
