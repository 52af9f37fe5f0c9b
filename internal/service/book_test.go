package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/store/sqlite/sqlitetest"
)

var (
	jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb1 = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
)

func TestBookService_Create(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.club(t, "readers")
	sqlitetest.Category(t, env.store, c.group, "horror", c.image)

	book, err := env.books.Create(ctx, c.member.ID, "readers", "horror", BookRequest{
		Title: "The Name of the Wind!", Author: "Patrick Rothfuss", DateStart: jan1, DateEnd: feb1,
	})
	require.NoError(t, err)
	assert.Equal(t, "the-name-of-the-wind", book.Slug)

	got, err := env.books.Get(ctx, c.admin.ID, "readers", "horror")
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
	assert.True(t, got.DateStart.Equal(jan1))

	t.Run("one book per category", func(t *testing.T) {
		_, err := env.books.Create(ctx, c.member.ID, "readers", "horror", BookRequest{
			Title: "Dracula", Author: "Bram Stoker", DateStart: jan1, DateEnd: feb1,
		})
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	})

	t.Run("outsider", func(t *testing.T) {
		_, err := env.books.Get(ctx, c.outsider.ID, "readers", "horror")
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})
}

func TestBookService_ValidationPrecedence(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.club(t, "readers")
	sqlitetest.Category(t, env.store, c.group, "horror", c.image)

	tests := []struct {
		name  string
		req   BookRequest
		code  *domainerrors.Error
		field string
	}{
		{"all missing", BookRequest{}, domainerrors.ErrValidation, "title"},
		{"author next", BookRequest{Title: "Dracula"}, domainerrors.ErrValidation, "author"},
		{"start next", BookRequest{Title: "Dracula", Author: "Stoker"}, domainerrors.ErrValidation, "date_start"},
		{"end next", BookRequest{Title: "Dracula", Author: "Stoker", DateStart: jan1}, domainerrors.ErrValidation, "date_end"},
		{"end before start", BookRequest{Title: "Dracula", Author: "Stoker", DateStart: feb1, DateEnd: jan1}, domainerrors.ErrValidation, "date_end"},
		{"title without letters", BookRequest{Title: "?!", Author: "Stoker", DateStart: jan1, DateEnd: feb1}, domainerrors.ErrInvalidKey, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.books.Create(ctx, c.member.ID, "readers", "horror", tt.req)
			assertField(t, err, tt.code, tt.field)
		})
	}
}

func TestBookService_Update(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.club(t, "readers")
	cat := sqlitetest.Category(t, env.store, c.group, "horror", c.image)

	_, err := env.books.Update(ctx, c.member.ID, "readers", "horror", BookRequest{
		Title: "Dracula", Author: "Stoker", DateStart: jan1, DateEnd: feb1,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	original := sqlitetest.Book(t, env.store, cat, "dracula")

	book, err := env.books.Update(ctx, c.member.ID, "readers", "horror", BookRequest{
		Title: "Carmilla", Author: "Sheridan Le Fanu", DateStart: jan1, DateEnd: jan1,
	})
	require.NoError(t, err)
	assert.Equal(t, original.ID, book.ID)
	assert.Equal(t, "carmilla", book.Slug)
	assert.Equal(t, "Sheridan Le Fanu", book.Author)
}

func TestBookService_Delete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.club(t, "readers")
	cat := sqlitetest.Category(t, env.store, c.group, "horror", c.image)
	book := sqlitetest.Book(t, env.store, cat, "dracula")
	sqlitetest.Opinion(t, env.store, book, c.member, 5)
	sqlitetest.Opinion(t, env.store, book, c.member, 6)

	_, err := env.books.Delete(ctx, c.member.ID, "readers", "horror")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	res, err := env.books.Delete(ctx, c.admin.ID, "readers", "horror")
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Opinions)
	assert.EqualValues(t, 1, res.Books)

	_, err = env.books.Get(ctx, c.admin.ID, "readers", "horror")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The category stays.
	_, err = env.categories.Get(ctx, c.admin.ID, "readers", "horror")
	assert.NoError(t, err)
}
