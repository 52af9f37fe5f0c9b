package sqlite

import (
	"context"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// categoryColumns must match the scan order in scanCategory.
const categoryColumns = `id, created_at, updated_at, group_id, slug, name, image_id, is_active, was_picked`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.BookCategory, error) {
	var (
		c                    domain.BookCategory
		createdAt, updatedAt string
	)
	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.GroupID,
		&c.Slug,
		&c.Name,
		&c.ImageID,
		&c.IsActive,
		&c.WasPicked,
	)
	if err != nil {
		return nil, mapErr(err)
	}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new category. Returns store.ErrAlreadyExists when the slug
// is taken within the group, or when it would be a second active category.
func (q *queries) CreateCategory(ctx context.Context, c *domain.BookCategory) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO book_categories (
			id, created_at, updated_at, group_id, slug, name, image_id, is_active, was_picked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
		c.GroupID,
		c.Slug,
		c.Name,
		c.ImageID,
		boolInt(c.IsActive),
		boolInt(c.WasPicked),
	)
	return mapErr(err)
}

// GetCategory retrieves a category by ID.
func (q *queries) GetCategory(ctx context.Context, id string) (*domain.BookCategory, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM book_categories WHERE id = ?`, id))
}

// GetCategoryBySlug retrieves a category by its slug within a group.
func (q *queries) GetCategoryBySlug(ctx context.Context, groupID, slug string) (*domain.BookCategory, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM book_categories WHERE group_id = ? AND slug = ?`,
		groupID, slug))
}

// GetActiveCategory returns the group's active category or store.ErrNotFound.
func (q *queries) GetActiveCategory(ctx context.Context, groupID string) (*domain.BookCategory, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM book_categories WHERE group_id = ? AND is_active = 1`,
		groupID))
}

// UpdateCategory writes every mutable column. ID and group never change.
func (q *queries) UpdateCategory(ctx context.Context, c *domain.BookCategory) error {
	return q.execOne(ctx, `
		UPDATE book_categories
		SET updated_at = ?, slug = ?, name = ?, image_id = ?, is_active = ?, was_picked = ?
		WHERE id = ?`,
		formatTime(c.UpdatedAt),
		c.Slug,
		c.Name,
		c.ImageID,
		boolInt(c.IsActive),
		boolInt(c.WasPicked),
		c.ID,
	)
}

// DeleteCategory removes a category row. Fails with store.ErrReferenced while its
// book exists.
func (q *queries) DeleteCategory(ctx context.Context, id string) error {
	return q.execOne(ctx, `DELETE FROM book_categories WHERE id = ?`, id)
}

// ListCategories returns a group's categories in creation order.
func (q *queries) ListCategories(ctx context.Context, groupID string) ([]*domain.BookCategory, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM book_categories WHERE group_id = ? ORDER BY rowid`,
		groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.BookCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountCategoriesByImage counts the categories, in any group, that reference an image.
func (q *queries) CountCategoriesByImage(ctx context.Context, imageID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM book_categories WHERE image_id = ?`, imageID).Scan(&n)
	return n, err
}

// DeleteCategoriesByGroup removes every category of a group.
func (q *queries) DeleteCategoriesByGroup(ctx context.Context, groupID string) (int64, error) {
	return q.execCount(ctx, `DELETE FROM book_categories WHERE group_id = ?`, groupID)
}
