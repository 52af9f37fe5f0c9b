package sqlite_test

import (
	"context"
	"testing"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	"github.com/bookclubapp/bookclub-server/internal/store/sqlite/sqlitetest"
)

func TestListOpinionViews(t *testing.T) {
	s := sqlitetest.NewStore(t)
	ctx := context.Background()

	alice := sqlitetest.User(t, s, "Alice")
	bob := sqlitetest.User(t, s, "")
	g := sqlitetest.Group(t, s, alice, "readers")
	sqlitetest.Member(t, s, g, bob)
	c := sqlitetest.Category(t, s, g, "horror", sqlitetest.Image(t, s, g))
	b := sqlitetest.Book(t, s, c, "dracula")

	empty, err := s.ListOpinionViews(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListOpinionViews: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil list, got %v", empty)
	}

	sqlitetest.Opinion(t, s, b, bob, 9)
	sqlitetest.Opinion(t, s, b, alice, 2)
	sqlitetest.Opinion(t, s, b, bob, 5)

	views, err := s.ListOpinionViews(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListOpinionViews: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("len: got %d, want 3", len(views))
	}

	want := []struct {
		user     string
		rate     int
		severity domain.Severity
	}{
		{bob.DisplayName(), 9, domain.SeverityHigh},
		{"Alice", 2, domain.SeverityLow},
		{bob.DisplayName(), 5, domain.SeverityMedium},
	}
	for i, w := range want {
		if views[i].UserName != w.user || views[i].Rate != w.rate || views[i].Severity != w.severity {
			t.Errorf("[%d]: got %+v, want %+v", i, views[i], w)
		}
	}
}
