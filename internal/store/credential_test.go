package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/config"
	"github.com/Divyaraj25/PaisaTrack/internal/database"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCredentials(t *testing.T) (*Credentials, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2023, 11, 5, 9, 0, 0, 0, time.UTC)}
	creds := NewCredentials(openTestDB(t),
		config.JWTConfig{Secret: "test-secret", Issuer: "test", ExpireHours: 24, ResetExpireMinutes: 60, CheckRevocation: true},
		config.SecurityConfig{BcryptCost: bcrypt.MinCost, MaxFailedLogins: 3, LockMinutes: 10},
	)
	creds.Now = clock.Now
	return creds, clock
}

func register(t *testing.T, creds *Credentials, username, email string) uint {
	t.Helper()
	id, err := creds.Register(Registration{
		Username:      username,
		Email:         email,
		ContactNumber: "5550100",
		Password:      "Passw0rd1",
	})
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func TestRegisterAuthenticateVerifyRoundTrip(t *testing.T) {
	creds, _ := newTestCredentials(t)
	id := register(t, creds, "alice", "alice@example.com")

	token, user, err := creds.Authenticate("alice", "Passw0rd1", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, id, user.ID)
	assert.NotNil(t, user.LastLoginAt)

	got, err := creds.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	stored, err := creds.Profile(id)
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Passw0rd1")))
}

func TestRegisterConflict(t *testing.T) {
	creds, _ := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")

	_, err := creds.Register(Registration{Username: "ALICE", Email: "other@example.com", ContactNumber: "1", Password: "Passw0rd1"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = creds.Register(Registration{Username: "bob", Email: "Alice@Example.com", ContactNumber: "1", Password: "Passw0rd1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	creds, _ := newTestCredentials(t)

	cases := []Registration{
		{Username: "", Email: "a@example.com", ContactNumber: "1", Password: "Passw0rd1"},
		{Username: "al", Email: "a@example.com", ContactNumber: "1", Password: "Passw0rd1"},
		{Username: "alice", Email: "not-an-email", ContactNumber: "1", Password: "Passw0rd1"},
		{Username: "alice", Email: "a@example.com", ContactNumber: "1", Password: "short"},
		{Username: "alice", Email: "a@example.com", ContactNumber: "", Password: "Passw0rd1"},
	}
	for _, r := range cases {
		_, err := creds.Register(r)
		assert.ErrorIs(t, err, ErrValidation, "%+v", r)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	creds, _ := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")

	_, _, err := creds.Authenticate("alice", "WrongPass1", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = creds.Authenticate("nobody", "Passw0rd1", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateLockout(t *testing.T) {
	creds, clock := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")

	for i := 0; i < 3; i++ {
		_, _, err := creds.Authenticate("alice", "WrongPass1", "")
		require.ErrorIs(t, err, ErrUnauthorized)
	}

	// locked even with the right password
	_, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	clock.Advance(11 * time.Minute)
	_, _, err = creds.Authenticate("alice", "Passw0rd1", "")
	assert.NoError(t, err)
}

func TestNewLoginRevokesPreviousToken(t *testing.T) {
	creds, clock := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")

	first, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)

	_, err = creds.VerifyToken(first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = creds.VerifyToken(second)
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	creds, _ := newTestCredentials(t)
	id := register(t, creds, "alice", "alice@example.com")

	token, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)
	require.NoError(t, creds.Logout(id))

	_, err = creds.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutWithoutRevocationCheck(t *testing.T) {
	creds, _ := newTestCredentials(t)
	creds.CheckRevocation = false
	id := register(t, creds, "alice", "alice@example.com")

	token, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)
	require.NoError(t, creds.Logout(id))

	got, err := creds.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerifyTokenRejects(t *testing.T) {
	creds, clock := newTestCredentials(t)
	id := register(t, creds, "alice", "alice@example.com")
	token, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := creds.VerifyToken("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := creds.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("wrong secret", func(t *testing.T) {
		forged, err := util.GenerateToken("other-secret", "test", util.KindSession, id, "", clock.now, time.Hour)
		require.NoError(t, err)
		_, err = creds.VerifyToken(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("expired", func(t *testing.T) {
		saved := clock.now
		clock.Advance(25 * time.Hour)
		defer func() { clock.now = saved }()
		_, err := creds.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestResetTokenFlow(t *testing.T) {
	creds, _ := newTestCredentials(t)
	id := register(t, creds, "alice", "alice@example.com")
	session, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)

	reset, err := creds.IssueResetToken("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, reset)

	// a reset token is not a session token
	_, err = creds.VerifyToken(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, creds.ConsumeResetToken(reset, "NewPassw0rd"))

	// single use
	assert.ErrorIs(t, creds.ConsumeResetToken(reset, "Another1Pass"), ErrInvalidToken)

	// the old session is gone and the new password works
	_, err = creds.VerifyToken(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, _, err = creds.Authenticate("alice", "Passw0rd1", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, user, err := creds.Authenticate("alice", "NewPassw0rd", "")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
}

func TestResetTokenUnknownEmail(t *testing.T) {
	creds, _ := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")

	token, err := creds.IssueResetToken("nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestResetTokenExpires(t *testing.T) {
	creds, clock := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")

	reset, err := creds.IssueResetToken("alice@example.com")
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	assert.ErrorIs(t, creds.ConsumeResetToken(reset, "NewPassw0rd"), ErrInvalidToken)
}

func TestResetTokenSupersededByNewer(t *testing.T) {
	creds, clock := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")

	first, err := creds.IssueResetToken("alice@example.com")
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := creds.IssueResetToken("alice@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, creds.ConsumeResetToken(first, "NewPassw0rd"), ErrInvalidToken)
	assert.NoError(t, creds.ConsumeResetToken(second, "NewPassw0rd"))
}

func TestSessionTokenRejectedForReset(t *testing.T) {
	creds, _ := newTestCredentials(t)
	register(t, creds, "alice", "alice@example.com")
	session, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)

	assert.ErrorIs(t, creds.ConsumeResetToken(session, "NewPassw0rd"), ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	creds, _ := newTestCredentials(t)
	id := register(t, creds, "alice", "alice@example.com")
	register(t, creds, "bob", "bob@example.com")

	user, err := creds.UpdateProfile(id, ProfileUpdate{ContactNumber: "5559999"})
	require.NoError(t, err)
	assert.Equal(t, "5559999", user.ContactNumber)
	assert.Equal(t, "alice", user.Username)

	_, err = creds.UpdateProfile(id, ProfileUpdate{Username: "Bob"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = creds.UpdateProfile(id, ProfileUpdate{Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = creds.UpdateProfile(id, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrValidation)

	user, err = creds.UpdateProfile(id, ProfileUpdate{Username: "alice2"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", user.Username)
}

func TestChangePassword(t *testing.T) {
	creds, _ := newTestCredentials(t)
	id := register(t, creds, "alice", "alice@example.com")
	session, _, err := creds.Authenticate("alice", "Passw0rd1", "")
	require.NoError(t, err)

	assert.ErrorIs(t, creds.ChangePassword(id, "WrongPass1", "NewPassw0rd"), ErrValidation)
	require.NoError(t, creds.ChangePassword(id, "Passw0rd1", "NewPassw0rd"))

	_, err = creds.VerifyToken(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, _, err = creds.Authenticate("alice", "NewPassw0rd", "")
	assert.NoError(t, err)
}

func TestChangePasswordRevokesResetToken(t *testing.T) {
	creds, _ := newTestCredentials(t)
	id := register(t, creds, "alice", "alice@example.com")

	reset, err := creds.IssueResetToken("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, reset)

	require.NoError(t, creds.ChangePassword(id, "Passw0rd1", "NewPassw0rd"))
	assert.ErrorIs(t, creds.ConsumeResetToken(reset, "Attack3rPass"), ErrInvalidToken)

	// the changed password still stands
	_, _, err = creds.Authenticate("alice", "Attack3rPass", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = creds.Authenticate("alice", "NewPassw0rd", "")
	assert.NoError(t, err)
}

func TestProfileUnknown(t *testing.T) {
	creds, _ := newTestCredentials(t)

	_, err := creds.Profile(0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = creds.Profile(42)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, creds.DB.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
