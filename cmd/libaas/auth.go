package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/api"
	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/navbar"
)

type loginOptions struct {
	email    string
	password string
	remember bool
}

func newLoginCmd(flags *rootFlags) *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to LibaasAI",
		Long: `Sign in with your email and password.

Without --remember the sign-in lasts until you log out of your computer.
With --remember it is kept in ~/.libaas until you run 'libaas logout'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runLogin(ctx, cmd, app, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().BoolVarP(&opts.remember, "remember", "r", false, "Stay signed in across reboots")

	return cmd
}

func runLogin(ctx context.Context, cmd *cobra.Command, app *AppContext, opts *loginOptions) error {
	email := strings.TrimSpace(opts.email)
	if email == "" {
		return newCommandError("sign in", "validating email", errors.New("email is required"), "Pass --email you@example.com.")
	}

	password := opts.password
	if password == "" {
		var err error
		if password, err = readPassword(cmd, "sign in"); err != nil {
			return err
		}
	}

	resp, err := app.Client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return newCommandError("sign in", "contacting LibaasAI", err, backendSuggestion(err))
	}

	sess := resp.Session()
	if err := app.Sessions.SignIn(sess, opts.remember); err != nil {
		return newCommandError("sign in", "saving the session", err, "Check that ~/.libaas is writable.")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s\n", valueOrFallback(sess.CachedName, email))
	return nil
}

type signupOptions struct {
	name      string
	email     string
	password  string
	gender    string
	photoPath string
	remember  bool
}

func newSignupCmd(flags *rootFlags) *cobra.Command {
	opts := &signupOptions{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a LibaasAI account",
		Long: `Create an account. A full-length photo (--photo) lets LibaasAI analyse
your style straight away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runSignup(ctx, cmd, app, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&opts.email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().StringVarP(&opts.gender, "gender", "g", "", "Gender: male, female or other")
	cmd.Flags().StringVar(&opts.photoPath, "photo", "", "Photo used for style analysis")
	cmd.Flags().BoolVarP(&opts.remember, "remember", "r", false, "Stay signed in across reboots")

	return cmd
}

func runSignup(ctx context.Context, cmd *cobra.Command, app *AppContext, opts *signupOptions) error {
	req := api.SignupRequest{
		Name:   strings.TrimSpace(opts.name),
		Email:  strings.TrimSpace(opts.email),
		Gender: strings.ToLower(strings.TrimSpace(opts.gender)),
	}
	if req.Name == "" || req.Email == "" {
		return newCommandError("sign up", "validating account details", errors.New("name and email are required"), "Pass --name and --email.")
	}
	if req.Gender != "" {
		id, ok := optionID(domain.GenderOptions, req.Gender)
		if !ok {
			return newCommandError("sign up", "validating gender", fmt.Errorf("unknown gender %q", opts.gender), "Use male, female or other.")
		}
		req.Gender = id
	}

	if opts.photoPath != "" {
		photo, err := domain.ReadPhoto(opts.photoPath)
		if err != nil {
			return newCommandError("sign up", "reading photo "+opts.photoPath, err, "Use a JPG, PNG or GIF under 5MB.")
		}
		req.Photo = &photo
	}

	req.Password = opts.password
	if req.Password == "" {
		var err error
		if req.Password, err = readPassword(cmd, "sign up"); err != nil {
			return err
		}
	}

	resp, err := app.Client.Signup(ctx, req)
	if err != nil {
		return newCommandError("sign up", "creating the account", err, backendSuggestion(err))
	}

	sess := resp.Session()
	if sess.CachedName == "" {
		sess.CachedName = req.Name
	}
	if err := app.Sessions.SignIn(sess, opts.remember); err != nil {
		return newCommandError("sign up", "saving the session", err, "Check that ~/.libaas is writable.")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Welcome to LibaasAI, %s!\n", req.Name)
	return nil
}

type logoutOptions struct {
	force bool
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	opts := &logoutOptions{}

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runLogout(cmd, app, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Sign out without confirmation")

	return cmd
}

func runLogout(cmd *cobra.Command, app *AppContext, opts *logoutOptions) error {
	if _, ok := app.Sessions.Current(); !ok {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}

	if !opts.force {
		confirmed, err := confirm(cmd, "sign out", "Are you sure you want to sign out?", "Use --force when running in non-interactive environments.")
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if err := app.Sessions.SignOut(); err != nil {
		return newCommandError("sign out", "clearing the session", err, "Delete the session files under ~/.libaas manually.")
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
	return nil
}

type whoamiOptions struct {
	jsonOutput bool
	offline    bool
}

func newWhoamiCmd(flags *rootFlags) *cobra.Command {
	opts := &whoamiOptions{}

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show who is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runWhoami(ctx, cmd, app, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Use the cached name without asking the backend")

	return cmd
}

type whoamiPayload struct {
	SignedIn bool   `json:"signed_in"`
	Verified bool   `json:"verified"`
	UserID   string `json:"user_id,omitempty"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

func runWhoami(ctx context.Context, cmd *cobra.Command, app *AppContext, opts *whoamiOptions) error {
	loader := app.Navbar()
	state := loader.Resolve()
	if !opts.offline {
		state = loader.Refresh(ctx, state)
	}

	if opts.jsonOutput {
		payload := whoamiPayload{
			SignedIn: state.SignedIn(),
			Verified: state.Phase == navbar.Fresh,
			UserID:   state.UserID,
			Name:     state.Name,
			ImageURL: state.ImageURL,
		}
		if state.RefreshErr != nil {
			payload.Error = state.RefreshErr.Error()
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	out := cmd.OutOrStdout()
	if !state.SignedIn() {
		_, _ = fmt.Fprintln(out, "Not signed in.")
		_, _ = fmt.Fprintln(out, "\nRun 'libaas login' to sign in.")
		return nil
	}

	_, _ = fmt.Fprintf(out, "%s (%s)\n", valueOrFallback(state.Name, "Unknown"), state.UserID)
	if state.RefreshErr != nil {
		_, _ = fmt.Fprintf(out, "Showing cached details: %v\n", state.RefreshErr)
	}
	return nil
}
