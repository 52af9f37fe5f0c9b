package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	"github.com/bookclubapp/bookclub-server/internal/graph"
)

// createGroup creates a group through the API.
func (ts *testServer) createGroup(t *testing.T, authHeader, name, slug string) *domain.BookGroup {
	t.Helper()

	resp := ts.api.Post("/api/v1/groups", authHeader, map[string]any{"name": name, "slug": slug})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeEnvelope[*domain.BookGroup](t, resp).Data
}

func TestGroupLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	admin, adminUser := ts.signup(t, "admin@example.com", "Admin")

	group := ts.createGroup(t, admin, "Klub Czytelniczy", "klub")
	assert.Equal(t, "klub", group.Slug)
	assert.Equal(t, adminUser.ID, group.CreatorID)

	list := ts.api.Get("/api/v1/groups", admin)
	require.Equal(t, http.StatusOK, list.Code)
	groups := decodeEnvelope[[]*domain.BookGroup](t, list).Data
	require.Len(t, groups, 1)
	assert.Equal(t, group.ID, groups[0].ID)

	// Renaming the slug keeps the ID and retires the old key.
	resp := ts.api.Patch("/api/v1/groups/klub", admin, map[string]any{"name": "Klub", "slug": "nowy-klub"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	renamed := decodeEnvelope[*domain.BookGroup](t, resp).Data
	assert.Equal(t, group.ID, renamed.ID)
	assert.Equal(t, "nowy-klub", renamed.Slug)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/groups/klub", admin).Code)
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/groups/nowy-klub", admin).Code)

	del := ts.api.Delete("/api/v1/groups/nowy-klub", admin)
	require.Equal(t, http.StatusOK, del.Code, del.Body.String())
	result := decodeEnvelope[graph.DeleteResult](t, del).Data
	assert.Equal(t, int64(1), result.Members)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/groups/nowy-klub", admin).Code)
}

func TestCreateGroup_Errors(t *testing.T) {
	ts := setupTestServer(t)
	admin, _ := ts.signup(t, "admin@example.com", "Admin")
	ts.createGroup(t, admin, "Taken", "taken")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"blank name", map[string]any{"name": " ", "slug": "ok"}, http.StatusBadRequest, "VALIDATION", "name"},
		{"bad slug", map[string]any{"name": "Fine", "slug": "Not A Slug"}, http.StatusBadRequest, "INVALID_KEY", "slug"},
		{"name checked before slug", map[string]any{"name": "", "slug": "!!"}, http.StatusBadRequest, "VALIDATION", "name"},
		{"duplicate slug", map[string]any{"name": "Again", "slug": "taken"}, http.StatusConflict, "ALREADY_EXISTS", "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/groups", admin, tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code)

			env := decodeEnvelope[any](t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantField, detailsField(t, env.Details))
		})
	}
}

func TestGroupAccess(t *testing.T) {
	ts := setupTestServer(t)
	admin, _ := ts.signup(t, "admin@example.com", "Admin")
	member, _ := ts.signup(t, "member@example.com", "Member")
	outsider, _ := ts.signup(t, "outsider@example.com", "Outsider")

	ts.createGroup(t, admin, "Club", "club")
	resp := ts.api.Post("/api/v1/groups/club/members", admin, map[string]any{"email": "member@example.com"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// Outsiders cannot tell the group exists.
	resp = ts.api.Get("/api/v1/groups/club", outsider)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp).Code)

	// Members can read but not administer.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/groups/club", member).Code)

	resp = ts.api.Patch("/api/v1/groups/club", member, map[string]any{"name": "Mine", "slug": "mine"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope[any](t, resp).Code)

	assert.Equal(t, http.StatusForbidden, ts.api.Delete("/api/v1/groups/club", member).Code)
}

func TestMembers(t *testing.T) {
	ts := setupTestServer(t)
	admin, adminUser := ts.signup(t, "admin@example.com", "Admin")
	_, memberUser := ts.signup(t, "member@example.com", "Member")
	ts.createGroup(t, admin, "Club", "club")

	resp := ts.api.Post("/api/v1/groups/club/members", admin, map[string]any{"email": "member@example.com"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	added := decodeEnvelope[*domain.Member](t, resp).Data
	assert.Equal(t, memberUser.ID, added.UserID)
	assert.False(t, added.IsAdmin)

	t.Run("duplicate", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/groups/club/members", admin, map[string]any{"email": "member@example.com"})
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/groups/club/members", admin, map[string]any{"email": "ghost@example.com"})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "email", detailsField(t, decodeEnvelope[any](t, resp).Details))
	})

	list := ts.api.Get("/api/v1/groups/club/members", admin)
	require.Equal(t, http.StatusOK, list.Code)
	members := decodeEnvelope[[]*domain.Member](t, list).Data
	require.Len(t, members, 2)

	admins := 0
	for _, m := range members {
		if m.IsAdmin {
			admins++
			assert.Equal(t, adminUser.ID, m.UserID)
		}
	}
	assert.Equal(t, 1, admins)

	t.Run("creator cannot be removed", func(t *testing.T) {
		resp := ts.api.Delete("/api/v1/groups/club/members/"+adminUser.ID, admin)
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	resp = ts.api.Delete("/api/v1/groups/club/members/"+memberUser.ID, admin)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/groups/club/members/"+memberUser.ID, admin)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
