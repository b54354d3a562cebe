package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

// UserService handles sign-up, user listing, drafts and profiles.
type UserService struct {
	repo      repository.UserRepository
	passwords auth.PasswordEncoder
	logger    *slog.Logger
}

func NewUserService(repo repository.UserRepository, passwords auth.PasswordEncoder, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// BookStub is a book submitted together with a sign-up.
type BookStub struct {
	Title       string
	Page        int
	Description *string
}

// SignUpInput is the payload for creating a user.
type SignUpInput struct {
	Username string
	Password string
	Email    string
	Books    []BookStub
}

// SignUp creates the user and every stub in in.Books as a draft authored
// by that user, all in one repository call.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	stored, err := s.passwords.Encode(in.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username: in.Username,
		Password: stored,
		Email:    in.Email,
	}
	if len(in.Books) > 0 {
		user.Books = make([]model.Book, 0, len(in.Books))
		for _, b := range in.Books {
			user.Books = append(user.Books, model.Book{
				Title:       b.Title,
				Page:        b.Page,
				Description: b.Description,
			})
		}
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("failed to sign up user",
				slog.String("email", in.Email),
				slog.String("error", err.Error()),
			)
		}
		return nil, fmt.Errorf("signing up: %w", err)
	}

	s.logger.Info("user signed up",
		slog.Int64("id", user.ID),
		slog.Int("books", len(user.Books)),
	)
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Drafts returns the user's unpublished books. A user that does not exist
// yields a nil slice and no error.
func (s *UserService) Drafts(ctx context.Context, userID int64) ([]model.Book, error) {
	drafts, err := s.repo.ListDrafts(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	return drafts, nil
}

// CreateProfile attaches a bio to an existing user.
func (s *UserService) CreateProfile(ctx context.Context, userID int64, bio string) (*model.Profile, error) {
	profile := &model.Profile{Bio: bio, UserID: userID}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	s.logger.Info("profile created",
		slog.Int64("id", profile.ID),
		slog.Int64("userId", userID),
	)
	return profile, nil
}
