package service

import (
	"context"
	"testing"

	"property-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	user, created, err := svc.Create(context.Background(), CreateUserInput{
		Name:   "Jane",
		Email:  " jane@example.com ",
		Avatar: "https://cdn.test/jane.png",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Empty(t, user.AllProperties)

	again, created, err := svc.Create(context.Background(), CreateUserInput{Name: "Other", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.False(t, created, "existing email returns the stored user")
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Jane", again.Name)

	assert.Equal(t, int64(1), countRows(t, db, &model.User{}))
}

func TestUserService_Create_RequiresEmail(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := NewUserService(db).Create(context.Background(), CreateUserInput{Name: "No Email"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_Get(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "jane@example.com")
	first := seedProperty(t, db, owner, model.Property{Title: "First"})
	second := seedProperty(t, db, owner, model.Property{Title: "Second"})
	svc := NewUserService(db)

	user, err := svc.Get(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, user.AllProperties, 2)
	assert.Equal(t, first.ID, user.AllProperties[0].ID)
	assert.Equal(t, second.ID, user.AllProperties[1].ID)

	_, err = svc.Get(context.Background(), owner.ID+1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_List(t *testing.T) {
	db := setupTestDB(t)
	jane := seedUser(t, db, "jane@example.com")
	john := seedUser(t, db, "john@example.com")
	seedUser(t, db, "zoe@example.com")
	seedProperty(t, db, jane, model.Property{Title: "Jane's"})
	seedProperty(t, db, john, model.Property{Title: "John's 1"})
	seedProperty(t, db, john, model.Property{Title: "John's 2"})
	svc := NewUserService(db)

	users, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"Jane's"}, titles(users[0].AllProperties))
	assert.Equal(t, []string{"John's 1", "John's 2"}, titles(users[1].AllProperties))
	assert.NotNil(t, users[2].AllProperties)
	assert.Empty(t, users[2].AllProperties)

	users, err = svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
