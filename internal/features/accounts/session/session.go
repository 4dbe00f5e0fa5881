package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"uza-logistics/internal/core/storage"
	accounts "uza-logistics/internal/features/accounts/domain"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
)

// ErrInactiveUser is returned when a deactivated user tries to log in.
var ErrInactiveUser = errors.New("user is inactive")

// Session is the cached login persisted under a fixed storage key.
// Notification targeting consumes only Role from this; nothing else.
type Session struct {
	Token         string        `json:"token"`
	UserID        string        `json:"userId"`
	Role          accounts.Role `json:"role"`
	Name          string        `json:"name"`
	LoggedInAtIso time.Time     `json:"loggedInAtIso"`
}

// Manager is a simple login/logout cache. No cryptography or authorization
// logic lives here; it remembers who is signed in across restarts.
type Manager struct {
	backend storage.Backend
	key     string
	clock   clockz.Clock
}

// NewManager creates a session Manager persisting under key.
func NewManager(backend storage.Backend, key string, clock clockz.Clock) *Manager {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Manager{
		backend: backend,
		key:     key,
		clock:   clock,
	}
}

// Login caches the given user as the current session and returns it.
func (m *Manager) Login(ctx context.Context, user accounts.User) (Session, error) {
	if !user.Active {
		return Session{}, ErrInactiveUser
	}

	sess := Session{
		Token:         uuid.NewString(),
		UserID:        user.ID,
		Role:          user.Role,
		Name:          user.Name,
		LoggedInAtIso: m.clock.Now().UTC(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.backend.Save(ctx, m.key, data); err != nil {
		return Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	return sess, nil
}

// Logout clears the cached session. Logging out with no session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.backend.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the cached session, or nil when nobody is logged in.
// A corrupt session document is treated the same as no session.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	data, err := m.backend.Load(ctx, m.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, nil
	}
	return &sess, nil
}
