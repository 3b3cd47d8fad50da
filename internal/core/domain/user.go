package domain

// UserRole is the access level of an internal user.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTechnician UserRole = "technician"

	// RoleClient marks portal tokens issued for a client. It is never a
	// valid role for an internal user row.
	RoleClient UserRole = "client"
)

// IsValid reports whether r is a role an internal user may hold.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleTechnician
}

// IsStaff reports whether r belongs to an internal user rather than a
// portal client.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleTechnician
}

// User is a staff member of the business (admin or field technician).
// Portal clients authenticate against the clients table instead.
type User struct {
	UserID       string   `json:"id"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Role         UserRole `json:"role"`
	IsActive     bool     `json:"is_active"`
	PasswordHash string   `json:"-"` // bcrypt, never serialized
	AuditFields
}
