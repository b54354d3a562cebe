package gormdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

var _ repository.BookRepository = (*DB)(nil)

func bookID(id int64) string { return strconv.FormatInt(id, 10) }

// GetBook returns apperror.ErrNotFound when no book has the id.
func (db *DB) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	var book model.Book
	if err := db.conn.WithContext(ctx).First(&book, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("book", bookID(id))
		}
		return nil, fmt.Errorf("gormdb: getting book %d: %w", id, err)
	}
	return &book, nil
}

// ListBooks returns books matching q, each with its Author loaded.
//
// Search matches title OR description with LIKE '%term%'. The term is
// escaped so % and _ in user input match literally. Whether the match is
// case-sensitive is up to the database (SQLite: no for ASCII, Postgres: yes).
//
// Take/Skip of zero add no LIMIT/OFFSET. Negative values are handed to GORM,
// which drops them.
func (db *DB) ListBooks(ctx context.Context, q repository.BookQuery) ([]model.Book, error) {
	tx := db.conn.WithContext(ctx).Preload("Author")

	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		tx = tx.Where(`title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if q.Take != 0 {
		tx = tx.Limit(q.Take)
	}
	if q.Skip != 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.OrderBy != repository.SortNone {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: "updated_at"},
			Desc:   q.OrderBy == repository.SortDesc,
		})
	}

	books := make([]model.Book, 0)
	if err := tx.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("gormdb: listing books: %w", err)
	}
	return books, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// CreateBook inserts book. An AuthorID that matches no user fails the
// foreign key and is reported as the user not being found.
func (db *DB) CreateBook(ctx context.Context, book *model.Book) error {
	if err := db.conn.WithContext(ctx).Omit(clause.Associations).Create(book).Error; err != nil {
		if classify(err) == violationForeignKey {
			return apperror.NotFound("user", strconv.FormatInt(book.AuthorID, 10))
		}
		return fmt.Errorf("gormdb: creating book: %w", err)
	}
	return nil
}

// SetPublished writes the published flag and returns the updated row.
func (db *DB) SetPublished(ctx context.Context, id int64, published bool) (*model.Book, error) {
	res := db.conn.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", id).
		Update("published", published)
	if res.Error != nil {
		return nil, fmt.Errorf("gormdb: publishing book %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("book", bookID(id))
	}
	return db.GetBook(ctx, id)
}

// IncrementViews adds one to view_count in a single UPDATE, so concurrent
// calls never lose an increment.
func (db *DB) IncrementViews(ctx context.Context, id int64) (*model.Book, error) {
	res := db.conn.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("gormdb: incrementing views of book %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("book", bookID(id))
	}
	return db.GetBook(ctx, id)
}

// DeleteBook removes the book and returns it as it was before deletion.
func (db *DB) DeleteBook(ctx context.Context, id int64) (*model.Book, error) {
	var book model.Book

	err := db.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Book{}, id).Error
	})
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("book", bookID(id))
		}
		return nil, fmt.Errorf("gormdb: deleting book %d: %w", id, err)
	}
	return &book, nil
}
