// Package views holds one component per application screen. Each view
// fetches the rows it needs on load, holds its own render state, issues
// its own mutations and merges mutation results back into local state
// without re-querying.
package views

import (
	"context"
	"errors"
	"sync"

	"resolveai/gateway"
)

// Screen identifiers used across navigation.
const (
	ScreenOnboarding          = "onboarding"
	ScreenClientHome          = "client-home"
	ScreenProfessionalProfile = "professional-profile"
	ScreenDashboard           = "dashboard"
	ScreenContractFlow        = "contract-flow"
	ScreenHistory             = "history"
	ScreenProfileEdit         = "profile-edit"
	ScreenNotifications       = "notifications"
)

// Navigator is the cross-view transition callback supplied by the
// application shell.
type Navigator func(screen string, params map[string]string)

// Component is the surface every screen component shares: render state
// plus teardown. The shell closes the active component before replacing
// it, which cancels any call still in flight.
type Component interface {
	Status() Status
	ErrorMessage() string
	Close()
}

// Status is the render state of a view.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

// lifetime ties a view's asynchronous work to its lifespan. Results that
// arrive after Close are discarded instead of mutating a dead view.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// Context is the context every remote call issued by the view uses.
func (l lifetime) Context() context.Context { return l.ctx }

// Alive reports whether the view has not been closed.
func (l lifetime) Alive() bool { return l.ctx.Err() == nil }

// Close tears the view down and cancels any pending call.
func (l lifetime) Close() { l.cancel() }

// errViewClosed is returned by loads and mutations racing a Close.
var errViewClosed = errors.New("view closed")

// viewState is the render state shared by every view. A read error is a
// dismissible terminal state for the whole view: no partial data is
// rendered alongside it.
type viewState struct {
	mu       sync.Mutex
	status   Status
	errMsg   string
	notFound bool
}

func (v *viewState) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// ErrorMessage is the human-readable message rendered in the error
// state.
func (v *viewState) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// NotFound reports a missing-precondition state (e.g. a detail view
// opened without its required parameter). The view renders a way back to
// a safe screen instead of data.
func (v *viewState) NotFound() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notFound
}

// DismissError clears the error state so the user can retry.
func (v *viewState) DismissError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == StatusError && !v.notFound {
		v.status = StatusReady
		v.errMsg = ""
	}
}

func (v *viewState) setReady() {
	v.mu.Lock()
	v.status = StatusReady
	v.errMsg = ""
	v.mu.Unlock()
}

func (v *viewState) fail(err error) {
	v.mu.Lock()
	v.status = StatusError
	v.errMsg = humanMessage(err)
	v.mu.Unlock()
}

func (v *viewState) failNotFound(msg string) {
	v.mu.Lock()
	v.status = StatusError
	v.errMsg = msg
	v.notFound = true
	v.mu.Unlock()
}

// humanMessage extracts the display message for an error. Remote
// failures are surfaced verbatim, as the backend's messages are already
// human-readable.
func humanMessage(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, gateway.ErrNotFound) {
		return "registro não encontrado"
	}
	return err.Error()
}
