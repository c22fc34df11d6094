package views

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"

	"github.com/stretchr/testify/require"
)

// fakeStore records every executed query and answers from a responder
// keyed on the inspected query.
type fakeStore struct {
	mu        sync.Mutex
	calls     []storeCall
	responder func(op gateway.Op, q *gateway.Query, body any) (any, error)
}

type storeCall struct {
	op    gateway.Op
	query *gateway.Query
	body  any
}

func (f *fakeStore) From(table string) *gateway.Query { return gateway.NewQuery(f, table) }

func (f *fakeStore) Execute(ctx context.Context, op gateway.Op, q *gateway.Query, body, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, storeCall{op: op, query: q, body: body})
	f.mu.Unlock()

	if f.responder == nil {
		return nil
	}
	out, err := f.responder(op, q, body)
	if err != nil {
		return err
	}
	if dest == nil || out == nil {
		return nil
	}
	return copyJSON(dest, out)
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeStore) lastCall() storeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// copyJSON moves a canned value into the caller's destination the same
// way the wire codec would.
func copyJSON(dest, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

type stubAuth struct {
	active *gateway.Session
	err    error
}

func (s *stubAuth) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.active, nil
}

func (s *stubAuth) SignUp(ctx context.Context, email, password string) (*gateway.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.active, nil
}

func (s *stubAuth) SignOut()                              {}
func (s *stubAuth) Session() *gateway.Session             { return s.active }
func (s *stubAuth) OnAuthChange(fn func(*gateway.Session)) {}

// signedInCoordinator builds a coordinator whose profile load answers
// with the given row.
func signedInCoordinator(t *testing.T, profileRow any) *session.Coordinator {
	t.Helper()
	auth := &stubAuth{active: &gateway.Session{
		AccessToken: "token",
		UserID:      "auth-1",
		Email:       "ana@example.com",
	}}
	store := &fakeStore{responder: func(op gateway.Op, q *gateway.Query, body any) (any, error) {
		return profileRow, nil
	}}
	c := session.NewCoordinator(auth, store)
	require.NoError(t, c.SignIn(context.Background(), "ana@example.com", "secret"))
	return c
}

func clientCoordinator(t *testing.T) *session.Coordinator {
	return signedInCoordinator(t, models.UserProfile{
		ID:        "u1",
		AuthID:    "auth-1",
		Name:      "Ana",
		AvatarURL: "https://cdn.example.com/ana.png",
		Role:      models.RoleClient,
	})
}

func professionalCoordinator(t *testing.T) *session.Coordinator {
	return signedInCoordinator(t, models.Professional{
		UserProfile: models.UserProfile{
			ID:     "p1",
			AuthID: "auth-1",
			Name:   "Carlos",
			Role:   models.RoleProfessional,
		},
		Specializations: []string{"eletricista"},
		Availability:    models.AvailabilityAvailable,
	})
}

// noNav fails the test if any navigation happens.
func noNav(t *testing.T) Navigator {
	return func(screen string, params map[string]string) {
		t.Fatalf("unexpected navigation to %s", screen)
	}
}

// recordNav captures navigations.
type navRecord struct {
	screen string
	params map[string]string
}

func recordNav(dest *[]navRecord) Navigator {
	return func(screen string, params map[string]string) {
		*dest = append(*dest, navRecord{screen: screen, params: params})
	}
}
