package sqlite

import (
	"context"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// AddMember inserts a membership. Returns store.ErrAlreadyExists for a duplicate pair.
func (q *queries) AddMember(ctx context.Context, m *domain.Membership) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`,
		m.GroupID, m.UserID, formatTime(m.JoinedAt),
	)
	return mapErr(err)
}

// RemoveMember deletes a membership.
func (q *queries) RemoveMember(ctx context.Context, groupID, userID string) error {
	return q.execOne(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
}

// IsMember reports whether the user belongs to the group.
func (q *queries) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)`,
		groupID, userID,
	).Scan(&exists)
	return exists, err
}

// ListMembers returns the group's members in join order.
func (q *queries) ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.name, m.joined_at, g.creator_id = u.id
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		JOIN book_groups g ON g.id = m.group_id
		WHERE m.group_id = ?
		ORDER BY m.rowid`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		var (
			m        domain.Member
			joinedAt string
		)
		if err := rows.Scan(&m.UserID, &m.Email, &m.Name, &joinedAt, &m.IsAdmin); err != nil {
			return nil, err
		}
		if m.JoinedAt, err = parseTime(joinedAt); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// DeleteMembershipsByGroup removes every membership of the group.
func (q *queries) DeleteMembershipsByGroup(ctx context.Context, groupID string) (int64, error) {
	return q.execCount(ctx, `DELETE FROM group_members WHERE group_id = ?`, groupID)
}
