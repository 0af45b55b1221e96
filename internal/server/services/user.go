package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/keyspace"
	"github.com/vkarpenko/drivespace/internal/logging"
	"github.com/vkarpenko/drivespace/internal/server/auth"
	"github.com/vkarpenko/drivespace/internal/server/blobstore"
	"github.com/vkarpenko/drivespace/internal/server/metrics"
	"github.com/vkarpenko/drivespace/internal/server/models"
	"github.com/vkarpenko/drivespace/internal/server/repositories/users"
)

// UserService covers registration, login and user administration. It sits
// at the auth boundary: the namespace engine never sees a password or token,
// only the Principal this service mints into tokens.
type UserService struct {
	users         users.Repository
	store         blobstore.Store
	metrics       *metrics.NamespaceMetrics
	logger        logging.Logger
	secretKey     []byte
	tokenValidity time.Duration
}

func NewUserService(
	usersRepo users.Repository,
	store blobstore.Store,
	m *metrics.NamespaceMetrics,
	logger logging.Logger,
	secretKey []byte,
	tokenValidity time.Duration,
) *UserService {
	return &UserService{
		users:         usersRepo,
		store:         store,
		metrics:       m,
		logger:        logger.With("component", "users"),
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
	}
}

// RegisterRequest carries the fields a new user supplies.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	FullName string
}

func (r RegisterRequest) validate() error {
	if len(r.Username) < 3 || len(r.Username) > 30 {
		return fmt.Errorf("%w: username must be 3-30 characters", common.ErrInvalidInput)
	}
	if strings.Contains(r.Username, "/") {
		return fmt.Errorf("%w: username must not contain '/'", common.ErrInvalidInput)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: invalid email", common.ErrInvalidInput)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", common.ErrInvalidInput)
	}
	return nil
}

// Register creates the user record and then writes the bare owner-namespace
// placeholder to the object store. The placeholder write is best effort: a
// failure leaves the user without a namespace placeholder and is logged, not
// rolled back. The username is immutable afterwards since it prefixes every
// object key the user will own.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	prefix := keyspace.OwnerPrefix(user.Username)
	if err := s.store.Put(ctx, prefix, placeholderContentType); err != nil {
		s.metrics.OrphanWindows.WithLabelValues("register").Inc()
		s.logger.Warn(ctx, "namespace placeholder put failed after user insert",
			"key", prefix, "user_id", user.ID, "error", err)
	}

	s.logger.Info(ctx, "user registered", "username", user.Username)
	return user, nil
}

// Login verifies the password and mints an access token carrying the
// principal. An unknown email surfaces as ErrNotFound; a wrong password as
// ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: wrong password", common.ErrUnauthorized)
	}

	token, err := auth.GenerateToken(auth.Principal{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, s.secretKey, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrInvalidInput)
	}
	return s.users.GetByID(ctx, id)
}

// UpdateRequest carries the mutable profile fields. The username is not
// among them.
type UpdateRequest struct {
	Email    string
	FullName string
	Role     string
	IsActive *bool
}

// Update rewrites the user's mutable fields, leaving unset ones as stored.
func (s *UserService) Update(ctx context.Context, id string, req UpdateRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if !strings.Contains(req.Email, "@") {
			return nil, fmt.Errorf("%w: invalid email", common.ErrInvalidInput)
		}
		user.Email = req.Email
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user row; folder and file records cascade away. Objects
// under the owner's prefix are not removed.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: user id is required", common.ErrInvalidInput)
	}
	return s.users.Delete(ctx, id)
}
