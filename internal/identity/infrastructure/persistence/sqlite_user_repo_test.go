package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/emZubair/Calendy/internal/identity/domain"
	"github.com/emZubair/Calendy/internal/shared/infrastructure/database"
	_ "github.com/emZubair/Calendy/internal/shared/infrastructure/database/sqlite"
	"github.com/emZubair/Calendy/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func newStoredUser(t *testing.T, repo *SQLiteUserRepository, username, email, first, last string) *domain.User {
	t.Helper()

	name, err := domain.NewUsername(username)
	require.NoError(t, err)
	address, err := domain.NewEmail(email)
	require.NoError(t, err)
	user, err := domain.NewUser(name, address, first, last)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestSQLiteUserRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := NewSQLiteUserRepository(conn)

	t.Run("round trips a user", func(t *testing.T) {
		user := newStoredUser(t, repo, "alice", "alice@example.com", "Alice", "Smith")

		found, err := repo.FindByID(ctx, user.ID())

		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID(), found.ID())
		assert.Equal(t, "alice", found.Username().String())
		assert.Equal(t, "alice@example.com", found.Email().String())
		assert.Equal(t, "Alice Smith", found.FullName())
	})

	t.Run("missing id yields nil without error", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())

		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestSQLiteUserRepository_FindByUsername(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := NewSQLiteUserRepository(conn)

	user := newStoredUser(t, repo, "bob", "bob@example.com", "", "")

	found, err := repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID(), found.ID())

	missing, err := repo.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteUserRepository_FindByIdentifier(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := NewSQLiteUserRepository(conn)

	alice := newStoredUser(t, repo, "alice", "alice@example.com", "Alice", "Smith")
	bob := newStoredUser(t, repo, "bob", "bob@example.com", "Bob", "Smith")
	newStoredUser(t, repo, "carol", "carol@example.com", "", "")

	t.Run("matches usernames case-insensitively", func(t *testing.T) {
		found, err := repo.FindByIdentifier(ctx, "ALICE")

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, alice.ID(), found[0].ID())
	})

	t.Run("matches shared last names", func(t *testing.T) {
		found, err := repo.FindByIdentifier(ctx, "smith")

		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, alice.ID(), found[0].ID())
		assert.Equal(t, bob.ID(), found[1].ID())
	})

	t.Run("blank identifier matches nobody", func(t *testing.T) {
		found, err := repo.FindByIdentifier(ctx, "   ")

		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("unknown identifier yields an empty list", func(t *testing.T) {
		found, err := repo.FindByIdentifier(ctx, "zelda")

		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestSQLiteUserRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := NewSQLiteUserRepository(conn)

	user := newStoredUser(t, repo, "dana", "dana@example.com", "Dana", "")

	updated := domain.RehydrateUser(user.ID(), user.Username(), user.Email(), "Dana", "Jones", user.CreatedAt(), user.UpdatedAt())
	require.NoError(t, repo.Save(ctx, updated))

	found, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)
	assert.Equal(t, "Jones", found.LastName())
}
