package service

import (
	"context"
	"testing"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeLockoutRepo struct {
	attempts     int
	blockedID    uuid.UUID
	blockedUntil time.Time
	resetID      uuid.UUID
	resetAt      time.Time
}

func (f *fakeLockoutRepo) IncrementLoginAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	f.attempts++
	return f.attempts, nil
}

func (f *fakeLockoutRepo) BlockUser(ctx context.Context, id uuid.UUID, until time.Time) error {
	f.blockedID = id
	f.blockedUntil = until
	return nil
}

func (f *fakeLockoutRepo) ResetLoginAttempts(ctx context.Context, id uuid.UUID, lastLogin time.Time) error {
	f.attempts = 0
	f.resetID = id
	f.resetAt = lastLogin
	return nil
}

func TestLockoutTriggersAtThreshold(t *testing.T) {
	repo := &fakeLockoutRepo{}
	policy := NewLockoutPolicy(repo, 5, 30*time.Minute, zap.NewNop())
	now := time.Now()
	policy.now = func() time.Time { return now }
	user := &model.User{ID: uuid.New(), Username: "alice"}

	for i := 1; i <= 4; i++ {
		until, err := policy.OnFailedAttempt(context.Background(), user)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if !until.IsZero() {
			t.Fatalf("attempt %d should not lock the account", i)
		}
	}
	if repo.blockedID != uuid.Nil {
		t.Fatal("BlockUser must not be called below the threshold")
	}

	until, err := policy.OnFailedAttempt(context.Background(), user)
	if err != nil {
		t.Fatalf("fifth attempt: %v", err)
	}
	want := now.Add(30 * time.Minute)
	if !until.Equal(want) {
		t.Errorf("blocked until %v, want %v", until, want)
	}
	if repo.blockedID != user.ID || !repo.blockedUntil.Equal(want) {
		t.Errorf("BlockUser recorded %v/%v", repo.blockedID, repo.blockedUntil)
	}
}

func TestSuccessfulAttemptResetsCounter(t *testing.T) {
	repo := &fakeLockoutRepo{attempts: 3}
	policy := NewLockoutPolicy(repo, 5, 30*time.Minute, zap.NewNop())
	user := &model.User{ID: uuid.New(), Username: "alice"}
	loginTime := time.Now()

	if err := policy.OnSuccessfulAttempt(context.Background(), user, loginTime); err != nil {
		t.Fatalf("OnSuccessfulAttempt: %v", err)
	}
	if repo.attempts != 0 {
		t.Errorf("attempts = %d, want 0", repo.attempts)
	}
	if repo.resetID != user.ID || !repo.resetAt.Equal(loginTime) {
		t.Errorf("reset recorded %v/%v", repo.resetID, repo.resetAt)
	}
}

func TestIsLocked(t *testing.T) {
	policy := NewLockoutPolicy(&fakeLockoutRepo{}, 5, 30*time.Minute, zap.NewNop())
	now := time.Now()
	policy.now = func() time.Time { return now }

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name string
		user *model.User
		want bool
	}{
		{"never blocked", &model.User{}, false},
		{"window elapsed", &model.User{BlockedUntil: &past}, false},
		{"window open", &model.User{BlockedUntil: &future}, true},
		{"boundary", &model.User{BlockedUntil: &now}, false},
	}
	for _, tc := range cases {
		if got := policy.IsLocked(tc.user); got != tc.want {
			t.Errorf("%s: IsLocked = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLockoutDefaults(t *testing.T) {
	policy := NewLockoutPolicy(&fakeLockoutRepo{}, 0, 0, zap.NewNop())
	if policy.maxAttempts != 5 {
		t.Errorf("maxAttempts = %d, want 5", policy.maxAttempts)
	}
	if policy.lockDuration != 30*time.Minute {
		t.Errorf("lockDuration = %v, want 30m", policy.lockDuration)
	}
}
