// Package seed loads the fixed demo dataset: two users, each with one
// published book and one draft.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

func ptr(s string) *string { return &s }

// Users returns a fresh copy of the dataset on every call, since creating
// a user writes IDs back into it.
func Users() []model.User {
	return []model.User{
		{
			Username: "Nice",
			Password: "mnbdshi3",
			Email:    "nice@gmial.com",
			Books: []model.Book{
				{Title: "How to be golang developer", Page: 105, Description: ptr("-"), Published: true},
				{Title: "How to be rust developer", Page: 135, Description: ptr("Rust is coming to beat golang and nodejs")},
			},
		},
		{
			Username: "Petch",
			Password: "k3d9u7i4",
			Email:    "petch@gmail.com",
			Books: []model.Book{
				{Title: "How to be nodejs developer", Page: 150, Description: ptr("-"), Published: true},
				{Title: "How to be the best of husband", Page: 550, Description: ptr("Method and Mindset to be the best of husband in the world")},
			},
		},
	}
}

// Run creates every seed user with its books, one user per create call,
// the same nested path sign-up uses. It stops at the first failure.
func Run(ctx context.Context, repo repository.UserRepository, passwords auth.PasswordEncoder, logger *slog.Logger) ([]model.User, error) {
	logger.Info("start seeding")

	users := Users()
	for i := range users {
		u := &users[i]

		stored, err := passwords.Encode(u.Password)
		if err != nil {
			return nil, fmt.Errorf("seed: encoding password for %s: %w", u.Email, err)
		}
		u.Password = stored

		if err := repo.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("seed: creating %s: %w", u.Email, err)
		}
		logger.Info("created user with id", slog.Int64("id", u.ID))
	}

	logger.Info("seeding finished", slog.Int("users", len(users)))
	return users, nil
}
