package model

// Snapshot is the read-only projection handed to the presentation
// layer: the selected session's transcript, any visible in-flight
// response state, and the ordered session list.
type Snapshot struct {
	// SelectedSessionID is empty when a fresh "new chat" context is
	// selected.
	SelectedSessionID string    `json:"selected_session_id,omitempty"`
	Transcript        []Message `json:"transcript"`

	// IsGenerating is true only while the in-flight response belongs
	// to the selected session.
	IsGenerating bool   `json:"is_generating"`
	PartialText  string `json:"visible_partial_text"`
	StatusLabel  string `json:"visible_status_label"`

	Sessions []SessionSummary `json:"sessions"`
}
