package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindforge/mindforge-api/internal/api/metrics"
	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
	"github.com/mindforge/mindforge-api/internal/core/service"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (r *recordingRepo) Insert(ctx context.Context, event ports.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingRepo) snapshot() []ports.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func TestDispatcher_PersistsEvents(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	d.Start()

	d.Record(ports.AuditEvent{Username: "alice", Action: ports.AuditLogin, Timestamp: time.Now()})
	d.Record(ports.AuditEvent{Username: "bob", Action: ports.AuditRegister, Timestamp: time.Now()})
	d.Stop(2 * time.Second)

	if got := len(repo.snapshot()); got != 2 {
		t.Fatalf("expected 2 events persisted, got %d", got)
	}
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(4, repo, zerolog.Nop())
	d.Start()

	actions := []string{ports.AuditLoginFailed, ports.AuditLoginFailed, ports.AuditAccountLocked}
	for _, a := range actions {
		d.Record(ports.AuditEvent{Username: "alice", Action: a, Timestamp: time.Now()})
	}
	d.Stop(2 * time.Second)

	got := repo.snapshot()
	if len(got) != len(actions) {
		t.Fatalf("expected %d events, got %d", len(actions), len(got))
	}
	for i, a := range actions {
		if got[i].Action != a {
			t.Fatalf("event %d: expected %s, got %s", i, a, got[i].Action)
		}
	}
}

func TestDispatcher_SameUserSameShard(t *testing.T) {
	d := NewAuditDispatcher(8, &recordingRepo{}, zerolog.Nop())
	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}

func TestDispatcher_StopDrainsBufferedEvents(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	d.Start()

	const total = 40
	for i := 0; i < total; i++ {
		d.Record(ports.AuditEvent{
			Username:  fmt.Sprintf("user%d", i),
			Action:    ports.AuditLogin,
			Timestamp: time.Now(),
		})
	}
	d.Stop(2 * time.Second)

	if got := len(repo.snapshot()); got != total {
		t.Fatalf("expected all %d buffered events persisted on stop, got %d", total, got)
	}

	// A late Record must be dropped quietly, not sent on a closed queue.
	d.Record(ports.AuditEvent{Username: "late", Action: ports.AuditLogin, Timestamp: time.Now()})
	if got := len(repo.snapshot()); got != total {
		t.Fatalf("event recorded after stop must be dropped, got %d", got)
	}
}

func TestDispatcher_CountsLockTransitions(t *testing.T) {
	d := NewAuditDispatcher(1, &recordingRepo{}, zerolog.Nop())
	d.Start()
	defer d.Stop(time.Second)

	before := testutil.ToFloat64(metrics.AccountLockoutsTotal)

	d.Record(ports.AuditEvent{Username: "alice", Action: ports.AuditAccountLocked, Timestamp: time.Now()})
	d.Record(ports.AuditEvent{Username: "bob", Action: ports.AuditAdminLock, Timestamp: time.Now()})
	d.Record(ports.AuditEvent{Username: "carol", Action: ports.AuditLogin, Timestamp: time.Now()})

	if got := testutil.ToFloat64(metrics.AccountLockoutsTotal) - before; got != 2 {
		t.Fatalf("expected lockout counter to move by 2, got %v", got)
	}
}

// lockoutRepo is the minimal user store needed to drive login failures:
// one account, an atomic failed-attempt counter, threshold lock.
type lockoutRepo struct {
	mu   sync.Mutex
	user domain.User
}

func (r *lockoutRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if username != r.user.Username {
		return nil, domain.ErrUserNotFound
	}
	u := r.user
	return &u, nil
}

func (r *lockoutRepo) RecordFailedLogin(ctx context.Context, username string, threshold int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if username != r.user.Username {
		return nil, domain.ErrUserNotFound
	}
	r.user.FailedLoginAttempts++
	if r.user.FailedLoginAttempts >= threshold {
		r.user.AccountLocked = true
	}
	u := r.user
	return &u, nil
}

func (r *lockoutRepo) ResetFailedLogins(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user.FailedLoginAttempts = 0
	return nil
}

func (r *lockoutRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (r *lockoutRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *lockoutRepo) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return nil, nil
}

func (r *lockoutRepo) UpdateProfile(ctx context.Context, username string, update ports.ProfileUpdate) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *lockoutRepo) SetLocked(ctx context.Context, id string, locked bool) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *lockoutRepo) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *lockoutRepo) Delete(ctx context.Context, id string) error {
	return domain.ErrUserNotFound
}

func (r *lockoutRepo) DeleteByUsername(ctx context.Context, username string) error {
	return domain.ErrUserNotFound
}

type noopRefreshStore struct{}

func (noopRefreshStore) Save(ctx context.Context, token, username string, ttl time.Duration) error {
	return nil
}

func (noopRefreshStore) Consume(ctx context.Context, token string) (string, error) {
	return "", domain.ErrInvalidRefreshToken
}

func TestDispatcher_ThresholdLockoutMovesCounter(t *testing.T) {
	d := NewAuditDispatcher(2, &recordingRepo{}, zerolog.Nop())
	d.Start()
	defer d.Stop(time.Second)

	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &lockoutRepo{user: domain.User{
		ID:           "u1",
		Username:     "alice",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}}
	auth := service.NewAuthService(repo, service.NewTokenService("secret", time.Hour),
		noopRefreshStore{}, d, zerolog.Nop(), 5, time.Hour)

	before := testutil.ToFloat64(metrics.AccountLockoutsTotal)

	for i := 0; i < 5; i++ {
		if _, _, err := auth.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	if got := testutil.ToFloat64(metrics.AccountLockoutsTotal) - before; got != 1 {
		t.Fatalf("expected lockout counter to move by 1 after threshold, got %v", got)
	}

	// Further attempts against the locked account are rejected outright and
	// must not count additional lockouts.
	if _, _, err := auth.Login(context.Background(), "alice", "Str0ng-pass"); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.AccountLockoutsTotal) - before; got != 1 {
		t.Fatalf("counter must not move for an already-locked rejection, got %v", got)
	}
}
