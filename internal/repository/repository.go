// Package repository declares the persistence contracts the services depend on.
// The gormdb package implements them; service tests use in-memory mocks.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
)

// SortOrder is the direction books are sorted by last update.
// The zero value leaves ordering to the database.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "", "asc" or "desc" (case-insensitive).
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, SortAsc, SortDesc:
		return o, nil
	default:
		return SortNone, apperror.ValidationFailed("orderBy",
			fmt.Sprintf("orderBy must be %q or %q, got %q", SortAsc, SortDesc, s))
	}
}

// BookQuery filters and pages a book listing.
// Take and Skip of zero mean "no LIMIT" and "no OFFSET".
type BookQuery struct {
	Take    int
	Skip    int
	Search  string // substring of title or description
	OrderBy SortOrder
}

type BookRepository interface {
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	ListBooks(ctx context.Context, q BookQuery) ([]model.Book, error)
	CreateBook(ctx context.Context, book *model.Book) error
	SetPublished(ctx context.Context, id int64, published bool) (*model.Book, error)
	IncrementViews(ctx context.Context, id int64) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) (*model.Book, error)
}

type UserRepository interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	// CreateUser inserts the user and any Books attached to it in one transaction.
	CreateUser(ctx context.Context, user *model.User) error
	// ListDrafts returns ErrNotFound when the user does not exist.
	ListDrafts(ctx context.Context, userID int64) ([]model.Book, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
}
