package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclubapp/bookclub-server/internal/auth"
	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/logger"
	"github.com/bookclubapp/bookclub-server/internal/media/images"
	"github.com/bookclubapp/bookclub-server/internal/store/sqlite"
	"github.com/bookclubapp/bookclub-server/internal/store/sqlite/sqlitetest"
)

// testEnv wires every service against a throwaway SQLite store and in-memory blobs.
type testEnv struct {
	store *sqlite.Store
	blobs *images.MemoryStorage

	auth       *AuthService
	groups     *GroupService
	categories *CategoryService
	books      *BookService
	opinions   *OpinionService
	images     *ImageService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard().Logger
	s := sqlitetest.NewStore(t)
	blobs := images.NewMemoryStorage()
	g := graph.New(s, blobs, log)

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{7}, 32), time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:      s,
		blobs:      blobs,
		auth:       NewAuthService(s, tokens, log),
		groups:     NewGroupService(s, g, log),
		categories: NewCategoryService(s, g, log),
		books:      NewBookService(s, g, log),
		opinions:   NewOpinionService(s, log),
		images:     NewImageService(s, g, blobs, images.NewProcessor(1<<20, log), log),
	}
}

// club is a group with an admin, a member, an outsider and a shared image.
type club struct {
	admin, member, outsider *domain.User
	group                   *domain.BookGroup
	image                   *domain.Image
}

func (e *testEnv) club(t *testing.T, groupSlug string) *club {
	t.Helper()
	c := &club{
		admin:    sqlitetest.User(t, e.store, "Admin"),
		member:   sqlitetest.User(t, e.store, "Member"),
		outsider: sqlitetest.User(t, e.store, "Outsider"),
	}
	c.group = sqlitetest.Group(t, e.store, c.admin, groupSlug)
	sqlitetest.Member(t, e.store, c.group, c.member)
	c.image = sqlitetest.Image(t, e.store, nil)
	return c
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// assertField checks that err carries the expected code and offending field.
func assertField(t *testing.T, err error, code *domainerrors.Error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, code)
	got, ok := domainerrors.Field(err)
	require.True(t, ok, "error %v has no field", err)
	assert.Equal(t, field, got)
}

func ptr[T any](v T) *T { return &v }
