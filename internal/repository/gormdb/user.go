package gormdb

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm/clause"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

// ListUsers returns every user without associations.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	if err := db.conn.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("gormdb: listing users: %w", err)
	}
	return users, nil
}

// CreateUser inserts user together with user.Books. GORM wraps the parent
// insert and the association inserts in one transaction, so a duplicate
// email leaves no orphan books behind.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	if err := db.conn.WithContext(ctx).Omit("Profile").Create(user).Error; err != nil {
		if classify(err) == violationUnique {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("gormdb: creating user %q: %w", user.Username, err)
	}
	return nil
}

// ListDrafts returns the user's unpublished books, or apperror.ErrNotFound
// if the user does not exist. An existing user without drafts yields an
// empty, non-nil slice.
func (db *DB) ListDrafts(ctx context.Context, userID int64) ([]model.Book, error) {
	var count int64
	if err := db.conn.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("gormdb: looking up user %d: %w", userID, err)
	}
	if count == 0 {
		return nil, apperror.NotFound("user", strconv.FormatInt(userID, 10))
	}

	drafts := make([]model.Book, 0)
	err := db.conn.WithContext(ctx).
		Where("author_id = ? AND published = ?", userID, false).
		Order("id").
		Find(&drafts).Error
	if err != nil {
		return nil, fmt.Errorf("gormdb: listing drafts of user %d: %w", userID, err)
	}
	return drafts, nil
}

// CreateProfile inserts profile for profile.UserID. A missing user is
// reported as not found, a second profile for the same user as a conflict.
func (db *DB) CreateProfile(ctx context.Context, profile *model.Profile) error {
	err := db.conn.WithContext(ctx).Omit(clause.Associations).Create(profile).Error
	if err == nil {
		return nil
	}

	userID := strconv.FormatInt(profile.UserID, 10)
	switch classify(err) {
	case violationForeignKey:
		return apperror.NotFound("user", userID)
	case violationUnique:
		return apperror.Conflict("profile", "user "+userID)
	default:
		return fmt.Errorf("gormdb: creating profile for user %s: %w", userID, err)
	}
}
