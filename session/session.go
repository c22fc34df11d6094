// Package session owns the process-wide session lifecycle. Exactly one
// Coordinator exists per application; leaf views read from it and route
// profile changes through it, never mutating auth state directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/utils"

	"go.uber.org/zap"
)

// State is the lifecycle position of the session.
type State int

const (
	StateLoggedOut State = iota
	StateActive
)

// Coordinator is the single owner of the authenticated user. It signs in
// against the gateway's auth sub-API, loads the matching profile row and
// exposes it as a role-checked variant.
type Coordinator struct {
	auth   gateway.Auth
	store  gateway.Store
	logger *zap.Logger

	mu         sync.RWMutex
	state      State
	user       models.User
	hasProfile bool
	subs       []func(State)
}

// NewCoordinator wires the coordinator to the gateway's auth and table
// surfaces.
func NewCoordinator(auth gateway.Auth, store gateway.Store) *Coordinator {
	return &Coordinator{
		auth:   auth,
		store:  store,
		logger: utils.GetLogger(),
	}
}

// SignIn establishes a session and loads the user's profile row. A
// missing profile row is not an error: the account exists but onboarding
// was never completed, which the caller detects through Current.
func (c *Coordinator) SignIn(ctx context.Context, email, password string) error {
	session, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if err := c.loadProfile(ctx, session); err != nil {
		return err
	}
	c.notify(StateActive)
	return nil
}

// SignUp registers credentials and establishes a session. No profile row
// is created here; profile creation is deferred to the profile edit view.
func (c *Coordinator) SignUp(ctx context.Context, email, password string) error {
	session, err := c.auth.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.state = StateActive
	c.user = models.User{}
	c.hasProfile = false
	c.mu.Unlock()
	c.logger.Info("account registered", zap.String("subject", session.UserID))
	c.notify(StateActive)
	return nil
}

func (c *Coordinator) loadProfile(ctx context.Context, session *gateway.Session) error {
	var row models.Professional
	err := c.store.From("profiles").
		Select("*").
		Eq("auth_id", session.UserID).
		Single().
		Get(ctx, &row)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateActive

	switch {
	case errors.Is(err, gateway.ErrNotFound):
		c.user = models.User{}
		c.hasProfile = false
		return nil
	case err != nil:
		c.state = StateLoggedOut
		return fmt.Errorf("session: failed to load profile: %w", err)
	}

	c.setUserLocked(row)
	return nil
}

func (c *Coordinator) setUserLocked(row models.Professional) {
	if row.Role == models.RoleProfessional {
		c.user = models.NewProfessionalUser(row)
	} else {
		c.user = models.NewClientUser(row.UserProfile)
	}
	c.hasProfile = true
}

// SetProfile installs the profile row saved by the profile edit view.
func (c *Coordinator) SetProfile(row models.Professional) {
	c.mu.Lock()
	c.setUserLocked(row)
	c.mu.Unlock()
}

// SignOut drops the session and the loaded user.
func (c *Coordinator) SignOut() {
	c.auth.SignOut()
	c.mu.Lock()
	c.state = StateLoggedOut
	c.user = models.User{}
	c.hasProfile = false
	c.mu.Unlock()
	c.notify(StateLoggedOut)
}

// Current returns the loaded user. ok is false while signed out or when
// the account has no profile row yet.
func (c *Coordinator) Current() (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user, c.hasProfile && c.state == StateActive
}

// Professional returns the professional variant of the current user.
func (c *Coordinator) Professional() (*models.Professional, bool) {
	user, ok := c.Current()
	if !ok {
		return nil, false
	}
	return user.Professional()
}

// AuthSubject returns the auth-subject id of the signed-in session,
// needed when inserting a first profile row.
func (c *Coordinator) AuthSubject() string {
	if s := c.auth.Session(); s != nil {
		return s.UserID
	}
	return ""
}

// Email returns the signed-in credential email.
func (c *Coordinator) Email() string {
	if s := c.auth.Session(); s != nil {
		return s.Email
	}
	return ""
}

// State returns the lifecycle position.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe registers a lifecycle listener, used by the application
// shell to decide which view to show.
func (c *Coordinator) Subscribe(fn func(State)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *Coordinator) notify(s State) {
	c.mu.RLock()
	listeners := make([]func(State), len(c.subs))
	copy(listeners, c.subs)
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(s)
	}
}
