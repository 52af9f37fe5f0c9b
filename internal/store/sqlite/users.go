package sqlite

import (
	"context"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, email, name, password_hash`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u                    domain.User
		createdAt, updatedAt string
	)
	if err := scanner.Scan(&u.ID, &createdAt, &updatedAt, &u.Email, &u.Name, &u.PasswordHash); err != nil {
		return nil, mapErr(err)
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. Returns store.ErrAlreadyExists when the email is taken.
func (q *queries) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, email, name, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, formatTime(u.CreatedAt), formatTime(u.UpdatedAt), u.Email, u.Name, u.PasswordHash,
	)
	return mapErr(err)
}

// GetUser retrieves a user by ID.
func (q *queries) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (q *queries) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// UpdateUser updates a user's profile and credential.
func (q *queries) UpdateUser(ctx context.Context, u *domain.User) error {
	return q.execOne(ctx, `
		UPDATE users SET updated_at = ?, email = ?, name = ?, password_hash = ?
		WHERE id = ?`,
		formatTime(u.UpdatedAt), u.Email, u.Name, u.PasswordHash, u.ID,
	)
}
