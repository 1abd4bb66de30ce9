package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUserName       = errors.New("user name cannot be empty")
	ErrUserNameTooLong     = errors.New("user name must be at most 255 characters long")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User owns projects and tasks and receives task notifications.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given name, email and plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
// A user without a plaintext password must carry a hash.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Name == "" {
		return ErrEmptyUserName
	}
	if utf8.RuneCountInString(u.Name) > 255 {
		return ErrUserNameTooLong
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		switch n := len(u.Password); {
		case n < 12:
			return ErrPasswordTooShort
		case n > 72:
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}
