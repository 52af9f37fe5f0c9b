package sqlite

import (
	"context"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// groupColumns must match the scan order in scanGroup.
const groupColumns = `g.id, g.created_at, g.updated_at, g.slug, g.name, g.creator_id`

func scanGroup(scanner interface{ Scan(dest ...any) error }) (*domain.BookGroup, error) {
	var (
		g                    domain.BookGroup
		createdAt, updatedAt string
	)
	if err := scanner.Scan(&g.ID, &createdAt, &updatedAt, &g.Slug, &g.Name, &g.CreatorID); err != nil {
		return nil, mapErr(err)
	}

	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (q *queries) queryGroups(ctx context.Context, query string, args ...any) ([]*domain.BookGroup, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []*domain.BookGroup{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CreateGroup inserts a new group. Returns store.ErrAlreadyExists when the slug is taken.
func (q *queries) CreateGroup(ctx context.Context, g *domain.BookGroup) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO book_groups (id, created_at, updated_at, slug, name, creator_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, formatTime(g.CreatedAt), formatTime(g.UpdatedAt), g.Slug, g.Name, g.CreatorID,
	)
	return mapErr(err)
}

// GetGroup retrieves a group by ID.
func (q *queries) GetGroup(ctx context.Context, id string) (*domain.BookGroup, error) {
	return scanGroup(q.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM book_groups g WHERE g.id = ?`, id))
}

// GetGroupBySlug retrieves a group by its current slug.
func (q *queries) GetGroupBySlug(ctx context.Context, slug string) (*domain.BookGroup, error) {
	return scanGroup(q.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM book_groups g WHERE g.slug = ?`, slug))
}

// UpdateGroup updates a group's name and slug. The ID never changes.
func (q *queries) UpdateGroup(ctx context.Context, g *domain.BookGroup) error {
	return q.execOne(ctx,
		`UPDATE book_groups SET updated_at = ?, slug = ?, name = ? WHERE id = ?`,
		formatTime(g.UpdatedAt), g.Slug, g.Name, g.ID,
	)
}

// DeleteGroup removes the group row. Fails with store.ErrReferenced while
// members, categories, or owned images remain.
func (q *queries) DeleteGroup(ctx context.Context, id string) error {
	return q.execOne(ctx, `DELETE FROM book_groups WHERE id = ?`, id)
}

// ListGroupsForUser returns the groups a user belongs to, oldest first.
func (q *queries) ListGroupsForUser(ctx context.Context, userID string) ([]*domain.BookGroup, error) {
	return q.queryGroups(ctx, `
		SELECT `+groupColumns+`
		FROM book_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.rowid`, userID)
}
