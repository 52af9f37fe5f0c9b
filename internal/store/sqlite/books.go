package sqlite

import (
	"context"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// bookColumns must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, category_id, slug, title, author, date_start, date_end`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b                    domain.Book
		createdAt, updatedAt string
		dateStart, dateEnd   string
	)
	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.CategoryID,
		&b.Slug,
		&b.Title,
		&b.Author,
		&dateStart,
		&dateEnd,
	)
	if err != nil {
		return nil, mapErr(err)
	}

	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if b.DateStart, err = parseTime(dateStart); err != nil {
		return nil, err
	}
	if b.DateEnd, err = parseTime(dateEnd); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook inserts a new book. Returns store.ErrAlreadyExists when the category
// already holds a book.
func (q *queries) CreateBook(ctx context.Context, b *domain.Book) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, category_id, slug, title, author, date_start, date_end
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
		b.CategoryID,
		b.Slug,
		b.Title,
		b.Author,
		formatTime(b.DateStart),
		formatTime(b.DateEnd),
	)
	return mapErr(err)
}

// GetBook retrieves a book by ID.
func (q *queries) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return scanBook(q.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id))
}

// GetBookByCategory retrieves the book attached to a category.
func (q *queries) GetBookByCategory(ctx context.Context, categoryID string) (*domain.Book, error) {
	return scanBook(q.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE category_id = ?`, categoryID))
}

// UpdateBook updates a book's fields. The slug is re-derived by the caller.
func (q *queries) UpdateBook(ctx context.Context, b *domain.Book) error {
	return q.execOne(ctx, `
		UPDATE books
		SET updated_at = ?, slug = ?, title = ?, author = ?, date_start = ?, date_end = ?
		WHERE id = ?`,
		formatTime(b.UpdatedAt),
		b.Slug,
		b.Title,
		b.Author,
		formatTime(b.DateStart),
		formatTime(b.DateEnd),
		b.ID,
	)
}

// DeleteBook removes a book row. Fails with store.ErrReferenced while opinions exist.
func (q *queries) DeleteBook(ctx context.Context, id string) error {
	return q.execOne(ctx, `DELETE FROM books WHERE id = ?`, id)
}

// DeleteBooksByGroup removes the books of every category in a group.
func (q *queries) DeleteBooksByGroup(ctx context.Context, groupID string) (int64, error) {
	return q.execCount(ctx, `
		DELETE FROM books
		WHERE category_id IN (SELECT id FROM book_categories WHERE group_id = ?)`, groupID)
}
