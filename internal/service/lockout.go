package service

import (
	"context"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LockoutRepo is the slice of the user store the lockout policy mutates.
// IncrementLoginAttempts must be a relative SQL update so that concurrent
// failures against one account never lose counts.
type LockoutRepo interface {
	IncrementLoginAttempts(ctx context.Context, id uuid.UUID) (int, error)
	BlockUser(ctx context.Context, id uuid.UUID, until time.Time) error
	ResetLoginAttempts(ctx context.Context, id uuid.UUID, lastLogin time.Time) error
}

// LockoutPolicy counts consecutive failed logins per account and imposes a
// temporary lockout window once the threshold is crossed.
type LockoutPolicy struct {
	repo         LockoutRepo
	maxAttempts  int
	lockDuration time.Duration
	log          *zap.Logger
	now          func() time.Time
}

func NewLockoutPolicy(repo LockoutRepo, maxAttempts int, lockDuration time.Duration, log *zap.Logger) *LockoutPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockDuration <= 0 {
		lockDuration = 30 * time.Minute
	}
	return &LockoutPolicy{
		repo:         repo,
		maxAttempts:  maxAttempts,
		lockDuration: lockDuration,
		log:          log,
		now:          time.Now,
	}
}

// OnFailedAttempt records one more failure. When the post-increment counter
// reaches the threshold the account is blocked until now + lock duration;
// the returned time is zero otherwise.
func (p *LockoutPolicy) OnFailedAttempt(ctx context.Context, user *model.User) (time.Time, error) {
	attempts, err := p.repo.IncrementLoginAttempts(ctx, user.ID)
	if err != nil {
		return time.Time{}, err
	}
	if attempts < p.maxAttempts {
		return time.Time{}, nil
	}

	until := p.now().Add(p.lockDuration)
	if err := p.repo.BlockUser(ctx, user.ID, until); err != nil {
		return time.Time{}, err
	}
	p.log.Warn("account locked after repeated failed logins",
		zap.String("username", user.Username),
		zap.Time("blockedUntil", until))
	return until, nil
}

// OnSuccessfulAttempt zeroes the counter and stamps the login time.
func (p *LockoutPolicy) OnSuccessfulAttempt(ctx context.Context, user *model.User, at time.Time) error {
	return p.repo.ResetLoginAttempts(ctx, user.ID, at)
}

// IsLocked reports whether a lockout window is set and still open.
func (p *LockoutPolicy) IsLocked(user *model.User) bool {
	return user.BlockedUntil != nil && user.BlockedUntil.After(p.now())
}
