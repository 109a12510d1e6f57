package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/events"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
	"github.com/alexisbeaulieu97/libaas/internal/storage"
	"github.com/alexisbeaulieu97/libaas/internal/tui"
)

func newTUICmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive interface",
		Long:  `Launch the interactive terminal interface: home, wardrobe, outfit generation and profile.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	return cmd
}

func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	app, err := openApp(flags, true)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app.Theme.Init()
	app.Log.WithFields(map[string]any{"theme": app.Theme.Theme().String()}).Info("launching interactive UI")

	// Other libaas processes are the equivalent of other tabs: theme and
	// sign-in changes they write are picked up here.
	if w, err := storage.Watch(app.Paths.PreferencesStore()); err != nil {
		app.Log.WarnErr(err, "preference watcher unavailable")
	} else {
		defer w.Close()
		go app.Theme.Watch(ctx, w.Changes())
		go drainWatchErrors(ctx, w, app.Log)
	}
	for _, path := range []string{app.Paths.RememberStore(), app.Paths.SessionStore()} {
		w, err := storage.Watch(path)
		if err != nil {
			app.Log.WarnErr(err, "session watcher unavailable")
			continue
		}
		defer w.Close()
		go watchSessions(ctx, w, app)
		go drainWatchErrors(ctx, w, app.Log)
	}

	authEvents, unsubscribe := app.Bus.Subscribe(events.TopicAuthChange)
	defer unsubscribe()

	m := tui.NewModel(tui.Deps{
		Theme:   app.Theme,
		Navbar:  app.Navbar(),
		Gallery: app.Gallery(),
		NewProfilePage: func() tui.ProfilePage {
			return app.ProfilePage("")
		},
		AuthEvents:     authEvents,
		ThemeEvents:    app.Theme.Subscribe(),
		RequestTimeout: app.Config.RequestTimeout,
		Logger:         app.Log,
	})

	// Create and run Bubble Tea program
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		app.Log.Error(err, "interactive UI failed")
		return fmt.Errorf("failed to run interactive UI: %w", err)
	}

	app.Log.Info("interactive UI closed")
	return nil
}

// watchSessions re-reads the session stores when another process signs in
// or out, then announces the change in this process.
func watchSessions(ctx context.Context, w *storage.Watcher, app *AppContext) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-w.Changes():
			if !ok {
				return
			}
			if change.Key != "userId" && change.Key != "user" {
				continue
			}
			app.Sessions.Reload()
			app.Bus.Publish(events.TopicAuthChange)
		}
	}
}

func drainWatchErrors(ctx context.Context, w *storage.Watcher, log *logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			log.WarnErr(err, "store watcher error")
		}
	}
}
