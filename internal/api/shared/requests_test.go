package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string  `json:"title"              validate:"required,max=10"`
	Email    string  `json:"email,omitempty"    validate:"omitempty,email"`
	Color    string  `json:"color,omitempty"    validate:"omitempty,hexcolor3or6"`
	Status   *string `json:"status,omitempty"   validate:"omitempty,taskstatus"`
	Priority string  `json:"priority,omitempty" validate:"omitempty,taskpriority"`
	Deadline *string `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"title":"hello"}`, false},
		{"malformed", `{"title":}`, true},
		{"trailing comma", `{"title":"x",}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var req sampleRequest
			err := DecodeJSON(httptest.NewRecorder(), r, &req)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hello", req.Title)
		})
	}

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var req sampleRequest
		assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &req), ErrEmptyBody)
	})

	t.Run("oversized body", func(t *testing.T) {
		big := `{"title":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		var req sampleRequest
		assert.Error(t, DecodeJSON(httptest.NewRecorder(), r, &req))
	})
}

func TestValidateRequest(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("valid", func(t *testing.T) {
		err := ValidateRequest(sampleRequest{
			Title:    "ok",
			Color:    "#abc",
			Status:   strPtr("IN_PROGRESS"),
			Priority: "HIGH",
			Deadline: strPtr("2026-12-31"),
		})
		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		req     sampleRequest
		field   string
		message string
	}{
		{"missing title", sampleRequest{}, "title", "is required"},
		{"long title", sampleRequest{Title: "abcdefghijk"}, "title", "must be at most 10 characters"},
		{"bad email", sampleRequest{Title: "x", Email: "nope"}, "email", "must be a valid email address"},
		{"bad color", sampleRequest{Title: "x", Color: "#abcd"}, "color", "must be a hex color like #RGB or #RRGGBB"},
		{"bad status", sampleRequest{Title: "x", Status: strPtr("DONE")}, "status", "must be one of [PENDING IN_PROGRESS COMPLETED]"},
		{"bad priority", sampleRequest{Title: "x", Priority: "URGENT"}, "priority", "must be one of [LOW MEDIUM HIGH]"},
		{"bad deadline", sampleRequest{Title: "x", Deadline: strPtr("31/12/2026")}, "deadline", "must be a date in the form 2006-01-02"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			require.ErrorIs(t, err, domain.ErrValidation)
			fields, ok := domain.AsFieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, tc.message, fields[tc.field])
		})
	}
}
