// Package store defines the persistence interface for the book-club server.
//
// Rows are keyed by opaque IDs. Slugs are secondary unique lookup columns, so renaming
// a group or category never touches the rows that reference it. Foreign keys are
// restrictive: removing a parent with live dependents fails with ErrReferenced, and
// cascades are performed explicitly by package graph inside a single transaction.
package store

import (
	"context"

	"github.com/bookclubapp/bookclub-server/internal/domain"
)

// Queries is the set of statement-level operations. The Store runs them on the
// connection pool; a transaction handle passed to WithTx runs them atomically.
type Queries interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Groups
	CreateGroup(ctx context.Context, group *domain.BookGroup) error
	GetGroup(ctx context.Context, id string) (*domain.BookGroup, error)
	GetGroupBySlug(ctx context.Context, slug string) (*domain.BookGroup, error)
	UpdateGroup(ctx context.Context, group *domain.BookGroup) error
	DeleteGroup(ctx context.Context, id string) error
	ListGroupsForUser(ctx context.Context, userID string) ([]*domain.BookGroup, error)

	// Memberships
	AddMember(ctx context.Context, m *domain.Membership) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error)
	DeleteMembershipsByGroup(ctx context.Context, groupID string) (int64, error)

	// Categories
	CreateCategory(ctx context.Context, c *domain.BookCategory) error
	GetCategory(ctx context.Context, id string) (*domain.BookCategory, error)
	GetCategoryBySlug(ctx context.Context, groupID, slug string) (*domain.BookCategory, error)
	GetActiveCategory(ctx context.Context, groupID string) (*domain.BookCategory, error)
	UpdateCategory(ctx context.Context, c *domain.BookCategory) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context, groupID string) ([]*domain.BookCategory, error)
	CountCategoriesByImage(ctx context.Context, imageID string) (int, error)
	DeleteCategoriesByGroup(ctx context.Context, groupID string) (int64, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookByCategory(ctx context.Context, categoryID string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	DeleteBooksByGroup(ctx context.Context, groupID string) (int64, error)

	// Opinions
	CreateOpinion(ctx context.Context, op *domain.Opinion) error
	ListOpinionViews(ctx context.Context, bookID string) ([]*domain.OpinionView, error)
	DeleteOpinionsByBook(ctx context.Context, bookID string) (int64, error)
	DeleteOpinionsByGroup(ctx context.Context, groupID string) (int64, error)

	// Images
	CreateImage(ctx context.Context, img *domain.Image) error
	GetImage(ctx context.Context, id string) (*domain.Image, error)
	ListImagesForGroup(ctx context.Context, groupID string) ([]*domain.Image, error)
	ListImagesOwnedBy(ctx context.Context, groupID string) ([]*domain.Image, error)
	DeleteImage(ctx context.Context, id string) error
}

// Store is the persistence handle used by services.
type Store interface {
	Queries

	// WithTx runs fn in a transaction. The transaction commits if fn returns nil
	// and rolls back otherwise.
	WithTx(ctx context.Context, fn func(q Queries) error) error

	Close() error
}
