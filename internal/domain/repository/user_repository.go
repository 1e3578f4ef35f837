// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"fintrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByIdentifier retrieves a single user whose username OR email matches
	// the given login identifier. Returns ErrUserNotFound when absent.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)

	// ExistsByUsernameOrEmail reports whether any user already holds the given
	// username or email. It is a pre-create courtesy check only; the insert
	// itself relies on the store's unique constraints to stay race-free.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Create persists a new user entity. A unique-constraint violation
	// surfaces as the domain conflict error, atomically with the insert.
	Create(ctx context.Context, user *entity.User) error
}
