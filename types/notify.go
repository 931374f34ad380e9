package types

const (
	NotifyTypeAuthChanged      = "auth_changed"
	NotifyTypeColorizeStarted  = "colorize_started"
	NotifyTypeColorizeFinished = "colorize_finished"
	NotifyTypeWorkspaceReset   = "workspace_reset"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "auth_changed"
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

// NotifyHub fans notifications out to the open tabs of one client.
type NotifyHub interface {
	Broadcast(clientID string, notification *Notification)
}
