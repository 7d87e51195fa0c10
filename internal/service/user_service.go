package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-cal/internal/models"
	appErrors "github.com/noah-isme/campus-cal/pkg/errors"
)

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, upd models.UserUpdate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int, error)
}

// CreateUserRequest represents payload for creating users.
type CreateUserRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	IsAdmin  bool
}

// UpdateUserRequest carries optional user mutations; nil fields keep the
// current value. A password change rotates the salt.
type UpdateUserRequest struct {
	Username *string
	Password *string
	IsAdmin  *bool
}

// UserService handles account management. Every mutation takes the acting
// user explicitly so authorization is a pure function of its inputs.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Create adds a new account. Admin privileges are required except when the
// users table is empty, which bootstraps the first account.
func (s *UserService) Create(ctx context.Context, actor *models.User, req CreateUserRequest) (*models.User, error) {
	if !AuthorizeAdmin(actor) {
		total, err := s.repo.Count(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to count users")
		}
		if total > 0 {
			return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "admin privileges required")
		}
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid user payload")
	}

	salt := uuid.NewString()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: HashPassword(req.Password, salt),
		Salt:         salt,
		IsAdmin:      req.IsAdmin,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to create user")
	}

	s.logger.Info("user created", zap.String("username", user.Username), zap.Bool("is_admin", user.IsAdmin))
	return user, nil
}

// Delete removes an account by username. Owned events survive with their
// owner reference nulled by the schema.
func (s *UserService) Delete(ctx context.Context, actor *models.User, username string) error {
	if !AuthorizeAdmin(actor) {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "admin privileges required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to look up user")
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to delete user")
	}

	s.logger.Info("user deleted", zap.String("username", username))
	return nil
}

// Modify changes only the supplied fields of an account.
func (s *UserService) Modify(ctx context.Context, actor *models.User, username string, req UpdateUserRequest) error {
	if !AuthorizeAdmin(actor) {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "admin privileges required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to look up user")
	}

	upd := models.UserUpdate{Username: req.Username, IsAdmin: req.IsAdmin}
	if req.Password != nil {
		salt := uuid.NewString()
		hash := HashPassword(*req.Password, salt)
		upd.PasswordHash = &hash
		upd.Salt = &salt
	}

	if err := s.repo.Update(ctx, user.ID, upd); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to modify user")
	}

	s.logger.Info("user modified", zap.String("username", username))
	return nil
}

// List returns the account roster; admin surface only.
func (s *UserService) List(ctx context.Context, actor *models.User) ([]models.User, error) {
	if !AuthorizeAdmin(actor) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "admin privileges required")
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to list users")
	}
	return users, nil
}
