package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"registration-service/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UserModel{}, &IdempotencyModel{}))
	return db
}

func newVerifiedUser(t *testing.T, username, email string) *entities.ValidatedUser {
	t.Helper()

	user := entities.NewUser(username, email, "Ana", "hashedpassword")
	user.IsVerified = true
	validated, err := entities.NewValidatedUser(user)
	require.NoError(t, err)
	return validated
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newVerifiedUser(t, "ana", "a@example.com"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.IsVerified)

	byID, err := repo.FindById(ctx, created.Id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ana", byID.Username)

	byUsername, err := repo.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	assert.Equal(t, created.Id, byUsername.Id)

	byEmail, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.Id, byEmail.Id)
}

func TestUserRepositoryFindMissingReturnsNil(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user, err := repo.FindByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.FindByUsername(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newVerifiedUser(t, "ana", "a@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newVerifiedUser(t, "other", "a@example.com"))
	assert.ErrorIs(t, err, entities.ErrEmailTaken)
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newVerifiedUser(t, "ana", "a@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newVerifiedUser(t, "ana", "b@example.com"))
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newVerifiedUser(t, "ana", "a@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.Id))

	found, err := repo.FindById(ctx, created.Id)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestIdempotencyRepositoryRoundTrip(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()

	missing, err := repo.FindByKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	record := entities.NewIdempotencyRecord("key-1", `{"email":"a@example.com"}`)
	record.SetResponse(`{"message":"ok"}`, 200)

	_, err = repo.Create(ctx, record)
	require.NoError(t, err)

	found, err := repo.FindByKey(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, `{"message":"ok"}`, found.Response)
	assert.Equal(t, 200, found.StatusCode)
}
