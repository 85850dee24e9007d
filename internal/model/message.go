package model

import (
	"time"
)

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind distinguishes plain text from structured payloads.
type MessageKind string

const (
	// KindText is an ordinary text message.
	KindText MessageKind = "text"
	// KindSuggestions carries a set of outfit suggestions.
	KindSuggestions MessageKind = "suggestions"
)

// Message is a single transcript entry. Messages are immutable once
// appended; IDs are monotonic within a session in insertion order.
type Message struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`

	Role Role        `json:"role"`
	Kind MessageKind `json:"kind"`

	Content string   `json:"content,omitempty"`
	Outfits []Outfit `json:"outfits,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SubmitMessageRequest is the request to submit a user message.
type SubmitMessageRequest struct {
	Content string `json:"content"`
}

// SubmitMessageResponse is the response after submitting a message.
type SubmitMessageResponse struct {
	SessionID string   `json:"session_id"`
	Message   *Message `json:"message"`
}
