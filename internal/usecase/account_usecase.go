// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
// Fields arrive pre-validated by the delivery layer's validation gate.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// LoginInput defines the data required for a user to log in.
// Identifier is a username or an email, matched interchangeably.
type LoginInput struct {
	Identifier string
	Password   string
}

// --- Output DTOs ---

// RegisterOutput returns the new record's id and a bearer token bound to it.
// The password and its hash are never part of any output.
type RegisterOutput struct {
	UserID uuid.UUID
	Token  string
}

// LoginOutput returns the bearer token issued after a successful login.
type LoginOutput struct {
	Token string
}

// ProfileOutput is the authenticated user's own record, minus the credential.
type ProfileOutput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Username  string
	Email     string
	CreatedAt time.Time
}

// AccountUsecase defines the interface for credential-management operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)
}
