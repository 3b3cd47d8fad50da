package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one immutable trail entry recording who changed what.
type AuditLog struct {
	LogID      string          `json:"id"`
	ActorID    string          `json:"user_id,omitempty"`
	Action     string          `json:"action"` // e.g. budget.status_changed
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
