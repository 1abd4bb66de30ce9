package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Ada", " Ada@Example.com ", "correct horse battery")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Expected normalized email, got %s", user.Email)
	}

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     error
	}{
		{"empty name", "", "a@example.com", "long enough password", ErrEmptyUserName},
		{"empty email", "Ada", "", "long enough password", ErrEmptyEmail},
		{"invalid email", "Ada", "not-an-email", "long enough password", ErrInvalidEmail},
		{"display name form", "Ada", "Ada <ada@example.com>", "long enough password", ErrInvalidEmail},
		{"short password", "Ada", "a@example.com", "short", ErrPasswordTooShort},
		{"long password", "Ada", "a@example.com", strings.Repeat("p", 73), ErrPasswordTooLong},
		{"no password at all", "Ada", "a@example.com", "", ErrEmptyHashedPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.userName, tt.email, tt.password)
			if err != tt.want {
				t.Errorf("Expected error %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUserValidateWithHash(t *testing.T) {
	u := User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", HashedPassword: "$2a$10$hash"}
	if err := u.Validate(); err != nil {
		t.Errorf("Expected stored user to validate, got %v", err)
	}
}
