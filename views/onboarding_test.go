package views

import (
	"testing"

	"resolveai/gateway"
	"resolveai/models"
	"resolveai/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedOutCoordinator wires a coordinator whose sign-in will find the
// given profile row; a nil row means the profile does not exist yet.
func signedOutCoordinator(profileRow any, authErr error) *session.Coordinator {
	auth := &stubAuth{
		active: &gateway.Session{AccessToken: "token", UserID: "auth-1", Email: "ana@example.com"},
		err:    authErr,
	}
	store := &fakeStore{responder: func(op gateway.Op, q *gateway.Query, body any) (any, error) {
		if profileRow == nil {
			return nil, gateway.ErrNotFound
		}
		return profileRow, nil
	}}
	return session.NewCoordinator(auth, store)
}

func TestSubmitRequiresCredentials(t *testing.T) {
	o := NewOnboarding(signedOutCoordinator(nil, nil), noNav(t))

	require.Error(t, o.Submit("", "secret"))
	assert.Equal(t, StatusError, o.Status())
	assert.Equal(t, "informe e-mail e senha", o.ErrorMessage())

	require.Error(t, o.Submit("ana@example.com", ""))

	o.DismissError()
	assert.Equal(t, StatusReady, o.Status())
	assert.Empty(t, o.ErrorMessage())
}

func TestSubmitRoutesClientHome(t *testing.T) {
	sess := signedOutCoordinator(models.UserProfile{
		ID: "u1", AuthID: "auth-1", Name: "Ana", Role: models.RoleClient,
	}, nil)
	var navs []navRecord
	o := NewOnboarding(sess, recordNav(&navs))

	require.NoError(t, o.Submit("ana@example.com", "secret"))
	require.Len(t, navs, 1)
	assert.Equal(t, ScreenClientHome, navs[0].screen)
}

func TestSubmitRoutesProfessionalDashboard(t *testing.T) {
	sess := signedOutCoordinator(models.Professional{
		UserProfile: models.UserProfile{ID: "p1", AuthID: "auth-1", Name: "Carlos", Role: models.RoleProfessional},
	}, nil)
	var navs []navRecord
	o := NewOnboarding(sess, recordNav(&navs))

	require.NoError(t, o.Submit("carlos@example.com", "secret"))
	require.Len(t, navs, 1)
	assert.Equal(t, ScreenDashboard, navs[0].screen)
}

func TestSubmitWithoutProfileRoutesToCompletion(t *testing.T) {
	sess := signedOutCoordinator(nil, nil)
	var navs []navRecord
	o := NewOnboarding(sess, recordNav(&navs))
	o.SetMode(ModeSignUp)

	require.NoError(t, o.Submit("nova@example.com", "secret"))
	require.Len(t, navs, 1)
	assert.Equal(t, ScreenProfileEdit, navs[0].screen)
}

func TestSubmitSurfacesAuthFailure(t *testing.T) {
	sess := signedOutCoordinator(nil, &gateway.APIError{Status: 400, Message: "credenciais inválidas"})
	o := NewOnboarding(sess, noNav(t))

	err := o.Submit("ana@example.com", "errada")
	require.Error(t, err)
	assert.Equal(t, StatusError, o.Status())
	assert.Equal(t, "credenciais inválidas", o.ErrorMessage())
	assert.Equal(t, session.StateLoggedOut, sess.State())
}

func TestModeSwitchClearsError(t *testing.T) {
	o := NewOnboarding(signedOutCoordinator(nil, nil), noNav(t))
	require.Error(t, o.Submit("", ""))
	require.Equal(t, StatusError, o.Status())

	o.SetMode(ModeSignUp)
	assert.Equal(t, ModeSignUp, o.Mode())
	assert.Equal(t, StatusReady, o.Status())
}
