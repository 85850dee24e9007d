// Package model defines data structures for the styling assistant.
package model

import (
	"time"
)

// Session is one chat conversation with its ordered transcript.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionSummary is the history-panel view of a session.
type SessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RenameSessionRequest is the request to rename a session.
type RenameSessionRequest struct {
	Title string `json:"title"`
}

// ListSessionsResponse is the response for listing sessions,
// ordered most-recently-updated first.
type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
	Total    int              `json:"total"`
}
