package domain

import "time"

// AuditFields holds the standard timestamps every mutable entity carries.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
