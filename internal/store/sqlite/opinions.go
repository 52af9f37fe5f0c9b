package sqlite

import (
	"context"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// CreateOpinion inserts a new opinion.
func (q *queries) CreateOpinion(ctx context.Context, op *domain.Opinion) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO opinions (id, created_at, book_id, user_id, rate, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		op.ID, formatTime(op.CreatedAt), op.BookID, op.UserID, op.Rate, op.Description,
	)
	return mapErr(err)
}

// ListOpinionViews returns a book's opinions in insertion order, joined with the
// author's name and email. Severity is derived from the rate.
func (q *queries) ListOpinionViews(ctx context.Context, bookID string) ([]*domain.OpinionView, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT o.id, o.created_at, o.user_id, u.name, u.email, o.rate, o.description
		FROM opinions o
		JOIN users u ON u.id = o.user_id
		WHERE o.book_id = ?
		ORDER BY o.rowid`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []*domain.OpinionView{}
	for rows.Next() {
		var (
			v         domain.OpinionView
			u         domain.User
			createdAt string
		)
		if err := rows.Scan(&v.ID, &createdAt, &v.UserID, &u.Name, &u.Email, &v.Rate, &v.Description); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		v.UserName = u.DisplayName()
		v.Severity = domain.RateSeverity(v.Rate)
		views = append(views, &v)
	}
	return views, rows.Err()
}

// DeleteOpinionsByBook removes every opinion on a book.
func (q *queries) DeleteOpinionsByBook(ctx context.Context, bookID string) (int64, error) {
	return q.execCount(ctx, `DELETE FROM opinions WHERE book_id = ?`, bookID)
}

// DeleteOpinionsByGroup removes every opinion on any book in the group.
func (q *queries) DeleteOpinionsByGroup(ctx context.Context, groupID string) (int64, error) {
	return q.execCount(ctx, `
		DELETE FROM opinions
		WHERE book_id IN (
			SELECT b.id FROM books b
			JOIN book_categories c ON c.id = b.category_id
			WHERE c.group_id = ?
		)`, groupID)
}
