package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-cal/internal/models"
	appErrors "github.com/noah-isme/campus-cal/pkg/errors"
)

type mockAuthRepo struct {
	user *models.User
	err  error
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.Username != username {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func storedUser(username, password string, admin bool) *models.User {
	salt := "fixed-salt"
	return &models.User{
		ID:           "u1",
		Username:     username,
		PasswordHash: HashPassword(password, salt),
		Salt:         salt,
		IsAdmin:      admin,
	}
}

func TestHashPasswordDeterministic(t *testing.T) {
	assert.Equal(t, HashPassword("pw", "salt"), HashPassword("pw", "salt"))
	assert.NotEqual(t, HashPassword("pw", "salt"), HashPassword("pw2", "salt"))
	assert.NotEqual(t, HashPassword("pw", "salt"), HashPassword("pw", "salt2"))
	assert.Len(t, HashPassword("pw", "salt"), 64)
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := &mockAuthRepo{user: storedUser("alice", "secret", true)}
	svc := NewAuthService(repo, zap.NewNop())

	user, err := svc.Authenticate(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsAdmin)
}

func TestAuthenticateFailsClosedWithOneMessage(t *testing.T) {
	repo := &mockAuthRepo{user: storedUser("alice", "secret", false)}
	svc := NewAuthService(repo, zap.NewNop())

	_, unknownErr := svc.Authenticate(context.Background(), "nobody", "secret")
	_, wrongPwErr := svc.Authenticate(context.Background(), "alice", "wrong")

	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	// An absent username and a bad password must be indistinguishable.
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
	assert.ErrorIs(t, unknownErr, appErrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, appErrors.ErrInvalidCredentials)
}

func TestAuthorizeAdmin(t *testing.T) {
	assert.False(t, AuthorizeAdmin(nil))
	assert.False(t, AuthorizeAdmin(&models.User{ID: "u1"}))
	assert.True(t, AuthorizeAdmin(&models.User{ID: "u1", IsAdmin: true}))
}

func TestAuthorizeEventDeletion(t *testing.T) {
	owner := "u1"
	event := &models.Event{ID: "e1", UserID: &owner}

	assert.False(t, AuthorizeEventDeletion(nil, event))
	assert.False(t, AuthorizeEventDeletion(&models.User{ID: "u2"}, event))
	assert.True(t, AuthorizeEventDeletion(&models.User{ID: "u1"}, event))
	assert.True(t, AuthorizeEventDeletion(&models.User{ID: "u2", IsAdmin: true}, event))

	ownerless := &models.Event{ID: "e2"}
	assert.False(t, AuthorizeEventDeletion(&models.User{ID: "u1"}, ownerless))
	assert.True(t, AuthorizeEventDeletion(&models.User{ID: "u1", IsAdmin: true}, ownerless))
}
