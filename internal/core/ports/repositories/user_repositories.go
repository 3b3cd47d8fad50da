package repositories

import (
	"context"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// UserReader defines read operations for internal users.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail looks the user up for login; the returned user carries
	// the password hash.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	ListUsers(ctx context.Context, onlyActive bool, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for internal users.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	SetUserActive(ctx context.Context, userID string, active bool, now time.Time) error
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
