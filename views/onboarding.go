package views

import (
	"errors"

	"resolveai/models"
	"resolveai/session"
	"resolveai/utils"

	"go.uber.org/zap"
)

// OnboardingMode switches the form between its two modes.
type OnboardingMode int

const (
	ModeSignIn OnboardingMode = iota
	ModeSignUp
)

// Onboarding is the credential form shown while signed out. It never
// creates a profile row itself; an account without a profile is routed
// to the profile edit view.
type Onboarding struct {
	lifetime
	viewState

	sess   *session.Coordinator
	nav    Navigator
	logger *zap.Logger

	mode OnboardingMode
}

func NewOnboarding(sess *session.Coordinator, nav Navigator) *Onboarding {
	o := &Onboarding{
		lifetime: newLifetime(),
		sess:     sess,
		nav:      nav,
		logger:   utils.GetLogger(),
	}
	o.setReady()
	return o
}

func (o *Onboarding) Mode() OnboardingMode { return o.mode }

func (o *Onboarding) SetMode(m OnboardingMode) {
	o.mode = m
	o.DismissError()
}

// Submit runs the active mode against the auth sub-API and navigates on
// success: to the role's home screen when a profile exists, otherwise to
// profile completion.
func (o *Onboarding) Submit(email, password string) error {
	if email == "" || password == "" {
		err := errors.New("informe e-mail e senha")
		o.fail(err)
		return err
	}

	var err error
	if o.mode == ModeSignUp {
		err = o.sess.SignUp(o.Context(), email, password)
	} else {
		err = o.sess.SignIn(o.Context(), email, password)
	}
	if !o.Alive() {
		return errViewClosed
	}
	if err != nil {
		o.fail(err)
		return err
	}

	user, hasProfile := o.sess.Current()
	if !hasProfile {
		o.nav(ScreenProfileEdit, nil)
		return nil
	}
	o.logger.Info("signed in", zap.String("role", string(user.Role())))
	if user.Role() == models.RoleProfessional {
		o.nav(ScreenDashboard, nil)
	} else {
		o.nav(ScreenClientHome, nil)
	}
	return nil
}
