// File: resolveai/main.go
package main

import (
	"resolveai/ai"
	"resolveai/config"
	"resolveai/gateway"
	"resolveai/session"
	"resolveai/storage"
	"resolveai/utils"
	"resolveai/views"

	"go.uber.org/zap"
)

// App wires the gateway, session coordinator and services together and
// owns the navigator every view receives. The presentation layer on top
// of it is out of scope here: it consumes the constructed views and
// renders their state.
type App struct {
	gw     *gateway.Client
	sess   *session.Coordinator
	gen    ai.Generator
	images storage.Service
	logger *zap.Logger
	active views.Component
}

func NewApp() *App {
	logger := utils.GetLogger()

	gw := gateway.New(config.AppConfig.BackendURL, config.AppConfig.BackendAnonKey)
	sess := session.NewCoordinator(gw, gw)
	gen := ai.NewGenerator(config.AppConfig.GeminiAPIKey)

	images, err := storage.NewCloudinaryService(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		// Image upload stays disabled; the views degrade gracefully.
		logger.Warn("image storage unavailable", zap.Error(err))
	}

	app := &App{gw: gw, sess: sess, gen: gen, logger: logger}
	if images != nil {
		app.images = images
	}

	// The shell decides which view to show from the session lifecycle.
	sess.Subscribe(func(state session.State) {
		if state == session.StateLoggedOut {
			app.Navigate(views.ScreenOnboarding, nil)
		}
	})
	return app
}

// Navigate tears down the active view and constructs the target one.
// The presentation layer drives Load on the returned component and
// renders its state.
func (a *App) Navigate(screen string, params map[string]string) {
	if a.active != nil {
		a.active.Close()
	}
	a.logger.Debug("navigate", zap.String("screen", screen))

	switch screen {
	case views.ScreenOnboarding:
		a.active = views.NewOnboarding(a.sess, a.Navigate)
	case views.ScreenClientHome:
		a.active = views.NewClientHome(a.gw, a.Navigate,
			config.AppConfig.ProfessionalsPageSize,
			config.AppConfig.PopularServicesLimit,
		)
	case views.ScreenProfessionalProfile:
		a.active = views.NewProfessionalProfile(a.gw, a.sess, a.Navigate, params)
	case views.ScreenDashboard:
		a.active = views.NewDashboard(a.gw, a.sess, a.gen, a.images, a.Navigate)
	case views.ScreenContractFlow:
		a.active = views.NewContractFlow(a.gw, a.sess, a.Navigate, params)
	case views.ScreenHistory:
		a.active = views.NewHistory(a.gw, a.sess, a.Navigate)
	case views.ScreenProfileEdit:
		a.active = views.NewProfileEdit(a.gw, a.sess, a.images, a.Navigate)
	case views.ScreenNotifications:
		a.active = views.NewNotifications(a.gw, a.sess, a.Navigate)
	default:
		a.logger.Warn("unknown screen", zap.String("screen", screen))
	}
}

// Active returns the component currently on screen.
func (a *App) Active() views.Component { return a.active }

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	app := NewApp()
	app.Navigate(views.ScreenOnboarding, nil)
	logger.Info("resolveai client initialized",
		zap.String("backend", config.AppConfig.BackendURL),
		zap.String("env", config.GetEnv()),
	)
}
