package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// adminBlockWindow is how long an administrative block lasts before the
// account unlocks on its own.
const adminBlockWindow = 24 * time.Hour

type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListUsersByStatus(ctx context.Context, status string) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUserStatus(ctx context.Context, id uuid.UUID, status string) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	BlockUser(ctx context.Context, id uuid.UUID, until time.Time) error
	UnblockUser(ctx context.Context, id uuid.UUID) error
}

type UserService struct {
	repo     UserRepo
	hasher   *PasswordHasher
	notFound func(error) bool
	log      *zap.Logger
	now      func() time.Time
}

func NewUserService(repo UserRepo, hasher *PasswordHasher, notFound func(error) bool, log *zap.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, notFound: notFound, log: log, now: time.Now}
}

func (s *UserService) Create(ctx context.Context, req model.UserRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: username %s", ErrDuplicate, username)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
	}

	user, err := s.repo.CreateUser(ctx, &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		PersonID:     req.PersonID,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if s.notFound(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if s.notFound(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) ListByStatus(ctx context.Context, status string) ([]*model.User, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
	}
	return s.repo.ListUsersByStatus(ctx, status)
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req model.UserRequest) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if username != user.Username {
		exists, err := s.repo.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: username %s", ErrDuplicate, username)
		}
	}
	user.Username = username

	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.PersonID != nil {
		user.PersonID = req.PersonID
	}
	if req.Status != "" {
		if !validStatus(req.Status) {
			return nil, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, req.Status)
		}
		user.Status = req.Status
	}

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user updated", zap.String("username", updated.Username))
	return updated, nil
}

// Delete deactivates the account rather than dropping the row, so audit
// trails and assignments survive.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateUserStatus(ctx, id, model.StatusInactive); err != nil {
		return err
	}
	s.log.Info("user deactivated", zap.String("userId", id.String()))
	return nil
}

// Exists reports whether a username is taken.
func (s *UserService) Exists(ctx context.Context, username string) (bool, error) {
	return s.repo.UsernameExists(ctx, strings.TrimSpace(username))
}

// Restore reactivates a deactivated account.
func (s *UserService) Restore(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.setStatus(ctx, id, model.StatusActive, "user restored")
}

// Suspend takes an account out of service without a lockout window; it
// stays suspended until an administrator restores it.
func (s *UserService) Suspend(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.setStatus(ctx, id, model.StatusSuspended, "user suspended")
}

// Block suspends the account and stamps a lockout window, the same state
// the login throttle produces after too many failures.
func (s *UserService) Block(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	until := s.now().Add(adminBlockWindow)
	if err := s.repo.BlockUser(ctx, id, until); err != nil {
		return nil, err
	}
	user.Status = model.StatusSuspended
	user.BlockedUntil = &until
	s.log.Info("user blocked", zap.String("username", user.Username), zap.Time("until", until))
	return user, nil
}

// Unblock clears the lockout window, reactivates the account and zeroes
// the failure counter. Flipping the status alone is not enough: a stale
// counter would re-lock the account on the very next wrong password.
func (s *UserService) Unblock(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UnblockUser(ctx, id); err != nil {
		return nil, err
	}
	user.Status = model.StatusActive
	user.BlockedUntil = nil
	user.LoginAttempts = 0
	s.log.Info("user unblocked", zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) setStatus(ctx context.Context, id uuid.UUID, status, event string) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUserStatus(ctx, id, status); err != nil {
		return nil, err
	}
	user.Status = status
	s.log.Info(event, zap.String("username", user.Username))
	return user, nil
}

func validStatus(status string) bool {
	switch status {
	case model.StatusActive, model.StatusInactive, model.StatusSuspended:
		return true
	}
	return false
}
