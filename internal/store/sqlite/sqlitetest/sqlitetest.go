// Package sqlitetest opens throwaway SQLite stores and inserts fixture rows for tests
// in other packages.
package sqlitetest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	"github.com/bookclubapp/bookclub-server/internal/id"
	"github.com/bookclubapp/bookclub-server/internal/store"
	"github.com/bookclubapp/bookclub-server/internal/store/sqlite"
)

// NewStore opens a migrated store in a temporary directory, closed on cleanup.
func NewStore(t testing.TB) *sqlite.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// Count runs a SELECT COUNT(*) query directly against the database.
func Count(t testing.TB, s *sqlite.Store, query string, args ...any) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

// User inserts a user with the given display name.
func User(t testing.TB, q store.Queries, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           id.MustGenerate(id.User),
		Email:        id.MustGenerate(id.Token) + "@example.com",
		Name:         name,
		PasswordHash: "x",
	}
	u.InitTimestamps()
	if err := q.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// Group inserts a group created by creator, who also becomes its first member.
func Group(t testing.TB, q store.Queries, creator *domain.User, slug string) *domain.BookGroup {
	t.Helper()
	ctx := context.Background()
	g := &domain.BookGroup{
		ID:        id.MustGenerate(id.Group),
		Slug:      slug,
		Name:      slug,
		CreatorID: creator.ID,
	}
	g.InitTimestamps()
	if err := q.CreateGroup(ctx, g); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	Member(t, q, g, creator)
	return g
}

// Member adds user to group.
func Member(t testing.TB, q store.Queries, g *domain.BookGroup, user *domain.User) {
	t.Helper()
	m := &domain.Membership{GroupID: g.ID, UserID: user.ID, JoinedAt: time.Now()}
	if err := q.AddMember(context.Background(), m); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
}

// Image inserts image metadata. A nil group puts the image in the shared pool.
func Image(t testing.TB, q store.Queries, g *domain.BookGroup) *domain.Image {
	t.Helper()
	img := &domain.Image{
		ID:          id.MustGenerate(id.Image),
		CreatedAt:   time.Now(),
		ContentType: "image/png",
		Size:        1,
		Width:       1,
		Height:      1,
	}
	if g != nil {
		img.GroupID = g.ID
	}
	if err := q.CreateImage(context.Background(), img); err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	return img
}

// Category inserts a dormant category illustrated by img.
func Category(t testing.TB, q store.Queries, g *domain.BookGroup, slug string, img *domain.Image) *domain.BookCategory {
	t.Helper()
	c := &domain.BookCategory{
		ID:      id.MustGenerate(id.Category),
		GroupID: g.ID,
		Slug:    slug,
		Name:    slug,
		ImageID: img.ID,
	}
	c.InitTimestamps()
	if err := q.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return c
}

// Book inserts the category's book.
func Book(t testing.TB, q store.Queries, c *domain.BookCategory, slug string) *domain.Book {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := &domain.Book{
		ID:         id.MustGenerate(id.Book),
		CategoryID: c.ID,
		Slug:       slug,
		Title:      slug,
		Author:     "Anon",
		DateStart:  start,
		DateEnd:    start.AddDate(0, 1, 0),
	}
	b.InitTimestamps()
	if err := q.CreateBook(context.Background(), b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	return b
}

// Opinion inserts an opinion by user on book.
func Opinion(t testing.TB, q store.Queries, b *domain.Book, user *domain.User, rate int) *domain.Opinion {
	t.Helper()
	op := &domain.Opinion{
		ID:          id.MustGenerate(id.Opinion),
		CreatedAt:   time.Now(),
		BookID:      b.ID,
		UserID:      user.ID,
		Rate:        rate,
		Description: "ok",
	}
	if err := q.CreateOpinion(context.Background(), op); err != nil {
		t.Fatalf("CreateOpinion: %v", err)
	}
	return op
}
