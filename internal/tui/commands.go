package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/marketing"
	"github.com/alexisbeaulieu97/libaas/internal/navbar"
	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

// waitForAuthCmd turns the next auth-change notification into a message.
// It must be re-issued after every AuthChangedMsg.
func waitForAuthCmd(events <-chan struct{}) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return AuthChangedMsg{}
	}
}

// waitForThemeCmd turns the next applied theme into a message.
func waitForThemeCmd(events <-chan domain.Theme) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		theme, ok := <-events
		if !ok {
			return nil
		}
		return ThemeChangedMsg{Theme: theme}
	}
}

// refreshNavbarCmd confirms the navbar identity against the backend.
func refreshNavbarCmd(loader NavbarLoader, state navbar.State, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return NavbarMsg{State: loader.Refresh(ctx, state)}
	}
}

// requestContext bounds a backend call by timeout. Zero leaves it unbounded.
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// successBannerDuration is how long a wardrobe success banner stays up.
const successBannerDuration = 3 * time.Second

func expireSuccessCmd(seq int) tea.Cmd {
	return tea.Tick(successBannerDuration, func(time.Time) tea.Msg {
		return SuccessExpiredMsg{Seq: seq}
	})
}

func marqueeTickCmd() tea.Cmd {
	return tea.Tick(marketing.TickInterval, func(time.Time) tea.Msg {
		return MarqueeTickMsg{}
	})
}

func loadGalleryCmd(g Gallery, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return GalleryLoadedMsg{Err: g.Load(ctx)}
	}
}

func uploadCmd(g Gallery, paths []string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return UploadCompleteMsg{Count: len(paths), Err: g.UploadFiles(ctx, paths)}
	}
}

func deleteCmd(g Gallery, itemID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return DeleteCompleteMsg{ItemID: itemID, Err: g.Delete(ctx, itemID, true)}
	}
}

func recommendCmd(g Gallery, occasion string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		outfits, err := g.Recommend(ctx, occasion)
		return OutfitsCompleteMsg{Outfits: outfits, Err: err}
	}
}

func loadProfileCmd(p ProfilePage, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return ProfileLoadedMsg{Err: p.Load(ctx)}
	}
}

func saveProfileCmd(p ProfilePage, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return ProfileSavedMsg{Err: p.Save(ctx)}
	}
}

func stagePhotoCmd(p ProfilePage, path string) tea.Cmd {
	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return PhotoStagedMsg{Err: err}
		}
		if info.Size() > domain.MaxPhotoBytes {
			return PhotoStagedMsg{Err: liberrors.NewValidationError("photo", "Image must be smaller than 5MB", nil)}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return PhotoStagedMsg{Err: err}
		}
		preview, err := p.StagePhoto(filepath.Base(path), data)
		return PhotoStagedMsg{Preview: preview, Err: err}
	}
}

func uploadPhotoCmd(p ProfilePage, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return PhotoUploadedMsg{Err: p.UploadPhoto(ctx)}
	}
}

func insightsCmd(p ProfilePage, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return InsightsCompleteMsg{Err: p.GenerateInsights(ctx)}
	}
}

func signOutCmd(p ProfilePage) tea.Cmd {
	return func() tea.Msg {
		return SignedOutMsg{Err: p.SignOut()}
	}
}

// describeError picks the text shown in the error banner.
func describeError(err error) string {
	var apiErr *liberrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	var vErr *liberrors.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	if errors.Is(err, os.ErrNotExist) {
		return "File not found"
	}
	return err.Error()
}
