package users

import (
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eventsnap/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Permission{}))

	return NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAuthenticateRoundTrip(t *testing.T) {
	store := newTestStore(t)

	perms := []string{models.CapabilityCalendar, models.CapabilityImageGenerator}
	require.NoError(t, store.AddUser("alice", "wonderland", perms))

	info, ok := store.Authenticate("alice", "wonderland")
	require.True(t, ok)
	assert.Equal(t, "alice", info.Username)
	assert.ElementsMatch(t, perms, info.Permissions)

	_, ok = store.Authenticate("alice", "not-the-password")
	assert.False(t, ok)

	_, ok = store.Authenticate("nobody", "wonderland")
	assert.False(t, ok)
}

func TestAuthenticateUpdatesLastLogin(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddUser("alice", "wonderland", nil))

	users, err := store.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Nil(t, users[0].LastLogin)

	_, ok := store.Authenticate("alice", "wonderland")
	require.True(t, ok)

	users, err = store.ListUsers()
	require.NoError(t, err)
	assert.NotNil(t, users[0].LastLogin)
}

func TestAddUserDuplicate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddUser("bob", "first-password", []string{models.CapabilityCalendar}))
	assert.ErrorIs(t, store.AddUser("bob", "second-password", nil), ErrUsernameTaken)

	// The original record is left unmodified.
	info, ok := store.Authenticate("bob", "first-password")
	require.True(t, ok)
	assert.Equal(t, []string{models.CapabilityCalendar}, info.Permissions)

	_, ok = store.Authenticate("bob", "second-password")
	assert.False(t, ok)
}

func TestDeleteAdminAlwaysFails(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureAdmin("topsecret"))

	assert.ErrorIs(t, store.DeleteUser("admin"), ErrProtectedUser)

	users, err := store.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
}

func TestDeleteUser(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddUser("carol", "pw", []string{models.CapabilityCalendar}))

	require.NoError(t, store.DeleteUser("carol"))

	users, err := store.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	// Deleting an absent user is a no-op success.
	assert.NoError(t, store.DeleteUser("carol"))
}

func TestPermissionsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddUser("dora", "pw", []string{models.CapabilityImageGenerator, models.CapabilityCalendar}))

	users, err := store.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.ElementsMatch(t, []string{models.CapabilityCalendar, models.CapabilityImageGenerator}, users[0].Permissions)

	// The empty set round-trips to the empty set, never to [""].
	require.NoError(t, store.UpdatePermissions("dora", nil))
	users, err = store.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users[0].Permissions)

	require.NoError(t, store.UpdatePermissions("dora", []string{models.CapabilityCalendar}))
	users, err = store.ListUsers()
	require.NoError(t, err)
	assert.Equal(t, []string{models.CapabilityCalendar}, users[0].Permissions)
}

func TestUpdatePermissionsUnknownUser(t *testing.T) {
	store := newTestStore(t)
	assert.ErrorIs(t, store.UpdatePermissions("ghost", []string{models.CapabilityCalendar}), ErrUnknownUser)
}

func TestEnsureAdmin(t *testing.T) {
	store := newTestStore(t)

	// No secret: soft failure, no admin, no error.
	require.NoError(t, store.EnsureAdmin(""))
	users, err := store.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	// With a secret the admin gets the full default permission set.
	require.NoError(t, store.EnsureAdmin("topsecret"))
	info, ok := store.Authenticate("admin", "topsecret")
	require.True(t, ok)
	assert.ElementsMatch(t, models.AllCapabilities(), info.Permissions)

	// Idempotent: a second call with a different secret changes nothing.
	require.NoError(t, store.EnsureAdmin("othersecret"))
	_, ok = store.Authenticate("admin", "othersecret")
	assert.False(t, ok)
	_, ok = store.Authenticate("admin", "topsecret")
	assert.True(t, ok)
}

func TestListUsersOrdered(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"mallory", "alice", "bob"} {
		require.NoError(t, store.AddUser(name, "pw", nil))
	}

	users, err := store.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "mallory", users[2].Username)
}
