package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
)

func newThemeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the colour theme",
		Long: `Show or change the colour theme. The choice is saved locally and, when
you are signed in, on your LibaasAI account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeShow(cmd, flags)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeShow(cmd, flags)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				app.Theme.Init()
				next := app.Theme.Toggle()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme set to %s\n", next)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Choose a theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := domain.ParseTheme(args[0])
			if err != nil {
				return newCommandError("set theme", "parsing "+args[0], err, "Use 'light' or 'dark'.")
			}
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				if app.Theme.Init() == next {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme is already %s\n", next)
					return nil
				}
				app.Theme.Set(next)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme set to %s\n", next)
				return nil
			})
		},
	})

	return cmd
}

func runThemeShow(cmd *cobra.Command, flags *rootFlags) error {
	return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Init())
		return nil
	})
}
