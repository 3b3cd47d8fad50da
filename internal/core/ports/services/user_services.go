package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// UserSvcFacade exposes internal user management and authentication.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, onlyActive bool, limit int, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	DeleteUser(ctx context.Context, userID string) error

	// Authenticate verifies credentials and returns the user on success.
	// Inactive users fail authentication.
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)
}
