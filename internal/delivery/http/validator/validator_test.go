package validator

import (
	"testing"

	domainerrors "fintrack/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func TestValidate_AllFieldsValid(t *testing.T) {
	v := New()

	err := v.Validate(&registerForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "longenough",
	})

	assert.NoError(t, err)
}

func TestValidate_CollectsEveryFailingField(t *testing.T) {
	v := New()

	// Three independent failures; all of them must be reported at once.
	err := v.Validate(&registerForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "",
		Email:     "not-an-email",
		Password:  "short",
	})

	require.Error(t, err)

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 400, validationErr.HTTPCode())

	fields := validationErr.Fields()
	require.Len(t, fields, 3)

	byField := make(map[string]string, len(fields))
	for _, f := range fields {
		byField[f.Field] = f.Message
	}

	// Field names come from the json tags, not the Go struct fields.
	assert.Contains(t, byField, "username")
	assert.Contains(t, byField, "email")
	assert.Contains(t, byField, "password")
	assert.Equal(t, "username is required", byField["username"])
	assert.Equal(t, "invalid email address", byField["email"])
	assert.Equal(t, "password must be at least 8 characters long", byField["password"])
}

func TestValidate_EmptyStruct(t *testing.T) {
	v := New()

	err := v.Validate(&registerForm{})

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields(), 5)
}
