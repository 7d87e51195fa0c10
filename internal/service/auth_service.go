package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-cal/internal/models"
	appErrors "github.com/noah-isme/campus-cal/pkg/errors"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService authenticates operators and owns the authorization
// predicates used across the command surface.
type AuthService struct {
	repo   authUserRepository
	logger *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, logger: logger}
}

// HashPassword returns the hex SHA-256 digest of salt+password. The same
// (password, salt) pair always yields the same digest; it is computed
// identically at account creation and at verification.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// Authenticate resolves a username and verifies the password digest. An
// unknown username and a wrong password produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to look up user")
	}

	if HashPassword(password, user.Salt) != user.PasswordHash {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	s.logger.Info("user authenticated", zap.String("username", user.Username))
	return user, nil
}

// AuthorizeAdmin reports whether the actor may perform user-management
// mutations: present and flagged as admin.
func AuthorizeAdmin(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

// AuthorizeEventDeletion reports whether the actor may delete the event:
// admin, or owner of the event. Ownerless events are admin-only.
func AuthorizeEventDeletion(actor *models.User, event *models.Event) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin {
		return true
	}
	return event.UserID != nil && *event.UserID == actor.ID
}
