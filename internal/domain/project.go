package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits and defaults for projects.
const (
	MaxProjectNameLength        = 255
	MaxProjectDescriptionLength = 1000
	DefaultProjectColor         = "#3B82F6"
)

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// Project groups tasks for a single owner.
type Project struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Color       string     `json:"color"`
	TaskCount   int        `json:"task_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// NewProject creates a project for userID. An empty color uses DefaultProjectColor.
func NewProject(userID uuid.UUID, name string, description *string, color string) (*Project, error) {
	now := time.Now().UTC()
	if color == "" {
		color = DefaultProjectColor
	}

	project := &Project{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}
	return project, nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if p.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty")
	}
	if p.Name == "" {
		return NewValidationError("name", "is required")
	}
	if utf8.RuneCountInString(p.Name) > MaxProjectNameLength {
		return NewValidationError("name", fmt.Sprintf("must be at most %d characters", MaxProjectNameLength))
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > MaxProjectDescriptionLength {
		return NewValidationError("description",
			fmt.Sprintf("must be at most %d characters", MaxProjectDescriptionLength))
	}
	if !IsHexColor(p.Color) {
		return NewValidationError("color", "must be a hex color like #RGB or #RRGGBB")
	}
	return nil
}

// OwnedBy reports whether userID owns the project.
func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// ApplyUpdate replaces the name. A nil description or an empty color keeps the
// current value; an empty description clears it.
// The project is left unchanged when the result would be invalid.
func (p *Project) ApplyUpdate(name string, description *string, color string, now time.Time) error {
	updated := *p
	updated.Name = strings.TrimSpace(name)
	if description != nil {
		if *description == "" {
			updated.Description = nil
		} else {
			updated.Description = description
		}
	}
	if color != "" {
		updated.Color = color
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = now.UTC()
	*p = updated
	return nil
}

// IsHexColor reports whether s is a #RGB or #RRGGBB color.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
