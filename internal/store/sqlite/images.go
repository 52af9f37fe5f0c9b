package sqlite

import (
	"context"
	"database/sql"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// imageColumns must match the scan order in scanImage.
const imageColumns = `id, created_at, group_id, content_type, alt_text, blur_hash, size, width, height`

func scanImage(scanner interface{ Scan(dest ...any) error }) (*domain.Image, error) {
	var (
		img       domain.Image
		createdAt string
		groupID   sql.NullString
		altText   sql.NullString
		blurHash  sql.NullString
	)
	err := scanner.Scan(
		&img.ID,
		&createdAt,
		&groupID,
		&img.ContentType,
		&altText,
		&blurHash,
		&img.Size,
		&img.Width,
		&img.Height,
	)
	if err != nil {
		return nil, mapErr(err)
	}

	if img.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	img.GroupID = groupID.String
	img.AltText = altText.String
	img.BlurHash = blurHash.String
	return &img, nil
}

func (q *queries) queryImages(ctx context.Context, query string, args ...any) ([]*domain.Image, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []*domain.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// CreateImage inserts image metadata. The bytes live in blob storage.
func (q *queries) CreateImage(ctx context.Context, img *domain.Image) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO images (
			id, created_at, group_id, content_type, alt_text, blur_hash, size, width, height
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID,
		formatTime(img.CreatedAt),
		nullString(img.GroupID),
		img.ContentType,
		nullString(img.AltText),
		nullString(img.BlurHash),
		img.Size,
		img.Width,
		img.Height,
	)
	return mapErr(err)
}

// GetImage retrieves image metadata by ID.
func (q *queries) GetImage(ctx context.Context, id string) (*domain.Image, error) {
	return scanImage(q.db.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM images WHERE id = ?`, id))
}

// ListImagesForGroup returns the shared pool plus the images owned by the group.
func (q *queries) ListImagesForGroup(ctx context.Context, groupID string) ([]*domain.Image, error) {
	return q.queryImages(ctx,
		`SELECT `+imageColumns+` FROM images WHERE group_id IS NULL OR group_id = ? ORDER BY rowid`,
		groupID)
}

// ListImagesOwnedBy returns only the images uploaded to the group.
func (q *queries) ListImagesOwnedBy(ctx context.Context, groupID string) ([]*domain.Image, error) {
	return q.queryImages(ctx,
		`SELECT `+imageColumns+` FROM images WHERE group_id = ? ORDER BY rowid`, groupID)
}

// DeleteImage removes image metadata. Fails with store.ErrReferenced while any
// category points at it.
func (q *queries) DeleteImage(ctx context.Context, id string) error {
	return q.execOne(ctx, `DELETE FROM images WHERE id = ?`, id)
}
