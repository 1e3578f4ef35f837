// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record at the heart of the credential core.
// Username and Email are each globally unique and both act as login identifiers.
type User struct {
	ID           uuid.UUID // Assigned by the store at creation, immutable afterwards.
	FirstName    string    // Display name, non-empty.
	LastName     string    // Display name, non-empty.
	Username     string    // Unique login identifier.
	Email        string    // Unique secondary login identifier, valid email syntax.
	PasswordHash string    // Opaque bcrypt digest. Never the plaintext, never serialized to a client.
	CreatedAt    time.Time // Set once by the store.
}
