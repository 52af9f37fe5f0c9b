package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/validation"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

type categoryRequest struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Slug    string `json:"slug" validate:"slug"`
	ImageID string `json:"image_id" validate:"required"`
}

type bookRequest struct {
	Title     string    `json:"title" validate:"notblank"`
	Author    string    `json:"author" validate:"notblank"`
	DateStart time.Time `json:"date_start" validate:"required"`
	DateEnd   time.Time `json:"date_end" validate:"required,gtefield=DateStart"`
}

type opinionRequest struct {
	Rate        *int   `json:"rate" validate:"required,gte=0,lte=10"`
	Description string `json:"description" validate:"notblank"`
	BookID      string `json:"book_id" validate:"required"`
}

func ptr[T any](v T) *T { return &v }

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := signupRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	}

	assert.NoError(t, v.Validate(req))
	assert.NoError(t, v.ValidateFirst(req))
}

func TestValidator_ValidateCollectsAllFields(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{Email: "nope", Password: "short"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 3)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "password")
}

func TestValidator_ValidateFirst_Precedence(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantErr   error
	}{
		{
			name:      "signup: email before name and password",
			req:       signupRequest{Email: "nope"},
			wantField: "email",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name:      "signup: name before password",
			req:       signupRequest{Email: "a@b.co", Password: "x"},
			wantField: "name",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name:      "category: name before slug",
			req:       categoryRequest{Name: "  ", Slug: "Bad Slug"},
			wantField: "name",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name:      "category: bad slug is an invalid key",
			req:       categoryRequest{Name: "Horror", Slug: "Bad Slug"},
			wantField: "slug",
			wantErr:   domainerrors.ErrInvalidKey,
		},
		{
			name:      "category: image last",
			req:       categoryRequest{Name: "Horror", Slug: "horror"},
			wantField: "image_id",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name: "book: end before start",
			req: bookRequest{
				Title:     "Dracula",
				Author:    "Stoker",
				DateStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				DateEnd:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			wantField: "date_end",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name:      "opinion: rate above range",
			req:       opinionRequest{Rate: ptr(11), Description: "", BookID: ""},
			wantField: "rate",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name:      "opinion: rate below range",
			req:       opinionRequest{Rate: ptr(-1), Description: "ok", BookID: "book-1"},
			wantField: "rate",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name:      "opinion: missing rate",
			req:       opinionRequest{Description: "ok", BookID: "book-1"},
			wantField: "rate",
			wantErr:   domainerrors.ErrValidation,
		},
		{
			name:      "opinion: description before book",
			req:       opinionRequest{Rate: ptr(5)},
			wantField: "description",
			wantErr:   domainerrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFirst(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			field, ok := domainerrors.Field(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, field)
		})
	}
}

func TestValidator_RateBounds(t *testing.T) {
	v := validation.New()

	for _, rate := range []int{0, 10} {
		req := opinionRequest{Rate: ptr(rate), Description: "fine", BookID: "book-1"}
		assert.NoError(t, v.ValidateFirst(req), "rate %d", rate)
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.ValidateFirst(signupRequest{Password: "password123", Name: "Test"})
	require.Error(t, err)

	// Should use JSON tag name "email", not struct field name "Email"
	assert.Contains(t, err.Error(), "email")
	assert.NotContains(t, err.Error(), "Email")
}
