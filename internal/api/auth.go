package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
)

// Credentials identify an existing account.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest creates an account. The optional photo seeds the style
// analysis.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Gender   string
	Photo    *domain.Photo
}

// AuthUser is the user summary returned by login and signup.
type AuthUser struct {
	ID       domain.FlexString `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	ImageURL string            `json:"image_url,omitempty"`
}

// AuthResponse is the body of a successful login or signup.
type AuthResponse struct {
	UserID  domain.FlexString `json:"user_id"`
	User    *AuthUser         `json:"user,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Session converts the response into the locally persisted sign-in state.
func (r AuthResponse) Session() domain.Session {
	sess := domain.Session{UserID: r.UserID.String()}
	if r.User != nil {
		if sess.UserID == "" {
			sess.UserID = r.User.ID.String()
		}
		sess.CachedName = r.User.Name
		sess.CachedImageURL = r.User.ImageURL
	}
	return sess
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	fields := []formField{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
	}
	if req.Gender != "" {
		fields = append(fields, formField{"gender", req.Gender})
	}

	body, err := multipartPayload(fields, "file", req.Photo)
	if err != nil {
		return AuthResponse{}, err
	}

	var resp AuthResponse
	err = c.do(ctx, http.MethodPost, "/auth/signup", &body, &resp)
	return resp, err
}

// Login exchanges credentials for the user's id.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	body, err := jsonPayload(creds)
	if err != nil {
		return AuthResponse{}, err
	}

	var resp AuthResponse
	err = c.do(ctx, http.MethodPost, "/auth/login", &body, &resp)
	return resp, err
}

// Profile fetches the full profile of userID.
func (c *Client) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile/"+url.PathEscape(userID), nil, &profile); err != nil {
		return domain.Profile{}, err
	}
	profile.ApplyDefaults()
	return profile, nil
}

// UpdateTheme records the user's theme preference.
func (c *Client) UpdateTheme(ctx context.Context, userID string, theme domain.Theme) error {
	body, err := jsonPayload(map[string]string{"theme": theme.String()})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, "/auth/update-theme/"+url.PathEscape(userID), &body, nil)
}

// UpdateProfile submits the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) error {
	body, err := multipartPayload([]formField{
		{"user_id", update.UserID},
		{"name", strings.TrimSpace(update.Name)},
		{"gender", update.Gender},
		{"country", update.Country},
		{"height", update.Height},
		{"body_shape", update.BodyShape},
		{"skin_tone", update.SkinTone},
	}, "", nil)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/auth/update-profile", &body, nil)
}

// UpdateProfilePhoto uploads a new profile photo and returns its URL.
func (c *Client) UpdateProfilePhoto(ctx context.Context, userID string, photo domain.Photo) (string, error) {
	body, err := multipartPayload([]formField{{"user_id", userID}}, "file", &photo)
	if err != nil {
		return "", err
	}

	var resp struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/update-profile-photo", &body, &resp); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}

// ErrInsightsUnavailable is returned when the backend declines to generate insights.
var ErrInsightsUnavailable = errors.New("style insights unavailable")

type insightsFailure struct {
	message string
}

func (e *insightsFailure) Error() string {
	return e.message
}

func (e *insightsFailure) Unwrap() error {
	return ErrInsightsUnavailable
}

// StyleInsights asks the backend to generate a style report for userID.
func (c *Client) StyleInsights(ctx context.Context, userID string) (*domain.StyleInsights, error) {
	var resp struct {
		Success  bool                  `json:"success"`
		Insights *domain.StyleInsights `json:"insights"`
		Message  string                `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/style-insights/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Insights == nil {
		message := resp.Message
		if message == "" {
			message = "Failed to generate insights"
		}
		return nil, &insightsFailure{message: message}
	}
	return resp.Insights, nil
}
