package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/api"
	"github.com/alexisbeaulieu97/libaas/internal/config"
	"github.com/alexisbeaulieu97/libaas/internal/events"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
	"github.com/alexisbeaulieu97/libaas/internal/navbar"
	"github.com/alexisbeaulieu97/libaas/internal/profile"
	"github.com/alexisbeaulieu97/libaas/internal/session"
	"github.com/alexisbeaulieu97/libaas/internal/storage"
	"github.com/alexisbeaulieu97/libaas/internal/theme"
	"github.com/alexisbeaulieu97/libaas/internal/wardrobe"
)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Config   *config.Config
	Paths    config.Paths
	Log      *logger.Logger
	Bus      *events.Bus
	Remember *storage.Store
	Scoped   *storage.Store
	Prefs    *storage.Store
	Sessions *session.Repository
	Client   *api.Client
	Theme    *theme.Controller

	closers []io.Closer
}

// openApp loads configuration and wires every service. Interactive callers
// own the terminal, so their logs always go to the log file.
func openApp(flags *rootFlags, interactive bool) (*AppContext, error) {
	paths, err := config.ResolvePaths(os.Getenv)
	if err != nil {
		return nil, newCommandError("start", "locating the libaas home directory", err, "Set LIBAAS_HOME or make sure HOME is set.")
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = paths.ConfigFile()
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: configPath,
		EnvFiles:   []string{".env", paths.EnvFile()},
	})
	if err != nil {
		return nil, newCommandError("start", "loading configuration", err, "Fix "+configPath+" or the LIBAAS_* environment variables.")
	}
	if flags.apiURL != "" {
		cfg.APIURL = strings.TrimRight(strings.TrimSpace(flags.apiURL), "/")
		if err := config.Validate(cfg); err != nil {
			return nil, newCommandError("start", "validating --api-url", err, "Pass an absolute http(s) URL.")
		}
	}

	app := &AppContext{Config: cfg, Paths: paths, Bus: events.NewBus()}

	log, err := app.newLogger(flags, interactive)
	if err != nil {
		return nil, newCommandError("start", "creating logger", err, "Check log.level in your config and that the log file is writable.")
	}
	app.Log = log

	if app.Remember, err = storage.Open("remember", paths.RememberStore()); err != nil {
		return nil, app.closeWith(newCommandError("start", "opening the remembered session", err, "Delete "+paths.RememberStore()+" if it is corrupt."))
	}
	if app.Scoped, err = storage.Open("session", paths.SessionStore()); err != nil {
		return nil, app.closeWith(newCommandError("start", "opening the login session", err, "Delete "+paths.SessionStore()+" if it is corrupt."))
	}
	if app.Prefs, err = storage.Open("preferences", paths.PreferencesStore()); err != nil {
		return nil, app.closeWith(newCommandError("start", "opening preferences", err, "Delete "+paths.PreferencesStore()+" if it is corrupt."))
	}

	app.Sessions = session.NewRepository(app.Remember, app.Scoped, app.Bus, log)

	opts := []api.Option{api.WithLogger(log)}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.RequestTimeout))
	}
	app.Client = api.New(cfg.BaseURL(), opts...)

	systemDark := func() bool { return false }
	if interactive {
		systemDark = theme.DetectSystemDark
	}
	app.Theme = theme.New(theme.Options{
		Prefs:             app.Prefs,
		Sessions:          app.Sessions,
		Syncer:            app.Client,
		Document:          theme.LipglossDocument{},
		SystemPrefersDark: systemDark,
		SyncTimeout:       cfg.RequestTimeout,
		Logger:            log,
	})

	log.WithFields(map[string]any{
		"api_url":     cfg.BaseURL(),
		"interactive": interactive,
	}).Debug("application started")

	return app, nil
}

func (a *AppContext) newLogger(flags *rootFlags, interactive bool) (*logger.Logger, error) {
	if flags.verbose && !interactive {
		return logger.New(logger.Options{Level: "debug", HumanReadable: true, Writer: os.Stderr})
	}

	path := a.Config.Log.File
	if path == "" {
		path = a.Paths.LogFile()
	}
	file, err := logger.OpenFile(path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, file)

	level := a.Config.Log.Level
	if flags.verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, Writer: file})
}

// Close drains background theme syncs and releases open files.
func (a *AppContext) Close() error {
	if a.Theme != nil {
		a.Theme.Wait()
	}
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *AppContext) closeWith(err error) error {
	_ = a.Close()
	return err
}

// Navbar returns the signed-in indicator loader.
func (a *AppContext) Navbar() *navbar.Loader {
	return navbar.NewLoader(a.Sessions, a.Client, a.Log)
}

// Gallery returns a fresh wardrobe gallery for the signed-in user.
func (a *AppContext) Gallery() *wardrobe.Gallery {
	return wardrobe.NewGallery(a.Client, a.Sessions, a.Log)
}

// ProfilePage returns a fresh profile page. An empty userID means the
// signed-in user.
func (a *AppContext) ProfilePage(userID string) *profile.Page {
	return profile.NewPage(userID, a.Client, a.Sessions, a.Log)
}

// withApp opens the application for one non-interactive command and closes
// it afterwards.
func withApp(cmd *cobra.Command, flags *rootFlags, run func(ctx context.Context, app *AppContext) error) error {
	app, err := openApp(flags, false)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return run(ctx, app)
}
