package gormdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

func TestCreateUser_WithNestedBooks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := &model.User{
		Username: "Nice",
		Password: "mnbdshi3",
		Email:    "nice@gmial.com",
		Books: []model.Book{
			{Title: "How to be golang developer", Page: 105, Description: strPtr("-")},
			{Title: "How to be rust developer", Page: 135},
		},
	}
	require.NoError(t, db.CreateUser(ctx, u))
	require.NotZero(t, u.ID)

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "mnbdshi3", users[0].Password, "password is stored as given")
	assert.Empty(t, users[0].Books, "ListUsers does not load associations")

	books, err := db.ListBooks(ctx, repository.BookQuery{})
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		assert.Equal(t, u.ID, b.AuthorID)
		assert.False(t, b.Published)
	}
}

func TestCreateUser_DuplicateEmailRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "first", "dup@example.com")

	err := db.CreateUser(ctx, &model.User{
		Username: "second",
		Password: "pw",
		Email:    "dup@example.com",
		Books:    []model.Book{{Title: "should not persist", Page: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	books, err := db.ListBooks(ctx, repository.BookQuery{})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestListUsers_Empty(t *testing.T) {
	db := newTestDB(t)

	users, err := db.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListDrafts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "nice", "nice@example.com")
	other := createTestUser(t, db, "petch", "petch@example.com")

	draft := createTestBook(t, db, u.ID, "draft", nil)
	published := createTestBook(t, db, u.ID, "published", nil)
	createTestBook(t, db, other.ID, "someone else's draft", nil)
	_, err := db.SetPublished(ctx, published.ID, true)
	require.NoError(t, err)

	drafts, err := db.ListDrafts(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
}

func TestListDrafts_UserWithoutDrafts(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "nice", "nice@example.com")

	drafts, err := db.ListDrafts(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}

func TestListDrafts_UnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := db.ListDrafts(context.Background(), 77)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "nice", "nice@example.com")

	p := &model.Profile{Bio: "writes about Go", UserID: u.ID}
	require.NoError(t, db.CreateProfile(ctx, p))
	assert.NotZero(t, p.ID)

	err := db.CreateProfile(ctx, &model.Profile{Bio: "again", UserID: u.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateProfile_UnknownUser(t *testing.T) {
	db := newTestDB(t)

	err := db.CreateProfile(context.Background(), &model.Profile{Bio: "ghost", UserID: 404})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestReset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "nice", "nice@example.com")

	require.NoError(t, db.Reset(ctx))

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, db.Ping(ctx))
}
