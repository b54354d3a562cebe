// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → orchestrates, enforces rules
//	Repository (data layer)  → reads/writes the database
//
// Most operations here are passthroughs. The exceptions are the publish
// toggle, which reads before it writes, and sign-up, which encodes the
// password before it is stored.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

// BookService handles book queries and mutations.
type BookService struct {
	repo   repository.BookRepository
	logger *slog.Logger
}

func NewBookService(repo repository.BookRepository, logger *slog.Logger) *BookService {
	return &BookService{
		repo:   repo,
		logger: logger,
	}
}

// Find returns the book with the given id, or nil (and no error) if there
// is none.
func (s *BookService) Find(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding book: %w", err)
	}
	return book, nil
}

// DashboardParams are the raw dashboard query options.
type DashboardParams struct {
	Take    int
	Skip    int
	Search  string
	OrderBy string
}

// Dashboard lists books with their authors. Only orderBy is checked; take
// and skip go to the database as given.
func (s *BookService) Dashboard(ctx context.Context, p DashboardParams) ([]model.Book, error) {
	order, err := repository.ParseSortOrder(p.OrderBy)
	if err != nil {
		return nil, err
	}

	books, err := s.repo.ListBooks(ctx, repository.BookQuery{
		Take:    p.Take,
		Skip:    p.Skip,
		Search:  p.Search,
		OrderBy: order,
	})
	if err != nil {
		s.logger.Error("failed to list books", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

// DraftInput is the payload for creating a draft.
type DraftInput struct {
	Title       string
	Page        int
	Description *string
	AuthorID    int64
}

// CreateDraft inserts an unpublished book for an existing author.
func (s *BookService) CreateDraft(ctx context.Context, in DraftInput) (*model.Book, error) {
	book := &model.Book{
		Title:       in.Title,
		Page:        in.Page,
		Description: in.Description,
		AuthorID:    in.AuthorID,
	}

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}

	s.logger.Info("draft created",
		slog.Int64("id", book.ID),
		slog.Int64("authorId", book.AuthorID),
	)
	return book, nil
}

// TogglePublish flips the published flag.
//
// The read and the write are separate statements. Two concurrent toggles
// on the same book can both read the same value, and the book then ends up
// flipped once instead of twice.
func (s *BookService) TogglePublish(ctx context.Context, id int64) (*model.Book, error) {
	current, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggling publish: %w", err)
	}

	book, err := s.repo.SetPublished(ctx, id, !current.Published)
	if err != nil {
		return nil, fmt.Errorf("toggling publish: %w", err)
	}

	s.logger.Info("book publish toggled",
		slog.Int64("id", book.ID),
		slog.Bool("published", book.Published),
	)
	return book, nil
}

// RecordView increments the view counter by one.
func (s *BookService) RecordView(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recording view: %w", err)
	}
	return book, nil
}

// Delete removes a book and returns the deleted row.
func (s *BookService) Delete(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deleting book: %w", err)
	}

	s.logger.Info("book deleted", slog.Int64("id", id))
	return book, nil
}
