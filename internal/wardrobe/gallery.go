// Package wardrobe is the state behind the wardrobe screen.
package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/libaas/internal/api"
	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

// MsgSignIn is shown when the gallery is opened without a session.
const MsgSignIn = "Please sign in to view your wardrobe"

// ErrNoSession is returned when no user is signed in.
var ErrNoSession = errors.New(MsgSignIn)

// ErrBusy is returned while an upload batch is still in flight.
var ErrBusy = errors.New("upload already in progress")

// Backend is the slice of the API client the gallery uses.
type Backend interface {
	WardrobeItems(ctx context.Context, userID string) ([]domain.WardrobeItem, error)
	UploadWardrobeItem(ctx context.Context, userID string, photo domain.Photo) (domain.WardrobeItem, error)
	DeleteWardrobeItem(ctx context.Context, userID, itemID string) error
	GenerateOutfits(ctx context.Context, req api.OutfitRequest) ([]domain.OutfitRecommendation, error)
}

// Sessions resolves the signed-in user.
type Sessions interface {
	UserID() string
}

// Snapshot is a copy of everything the screen renders.
type Snapshot struct {
	Items     []domain.WardrobeItem
	Visible   []domain.WardrobeItem
	Groups    []domain.CategoryGroup
	Filter    domain.Filter
	Loading   bool
	Uploading bool
	Error     string
	Success   string

	Recommending    bool
	Recommendations []domain.OutfitRecommendation
}

// Gallery holds the wardrobe listing. It is safe for concurrent use.
type Gallery struct {
	backend  Backend
	sessions Sessions
	log      *logger.Logger

	mu           sync.Mutex
	items        []domain.WardrobeItem
	filter       domain.Filter
	loading      bool
	uploading    bool
	recommending bool
	errMsg       string
	success      string
	outfits      []domain.OutfitRecommendation
}

// NewGallery returns an empty gallery with the default filter.
func NewGallery(backend Backend, sessions Sessions, log *logger.Logger) *Gallery {
	return &Gallery{
		backend:  backend,
		sessions: sessions,
		log:      log.Component("wardrobe"),
		filter:   domain.DefaultFilter(),
	}
}

func (g *Gallery) userID() (string, error) {
	id := ""
	if g.sessions != nil {
		id = g.sessions.UserID()
	}
	if !domain.UsableUserID(id) {
		return "", ErrNoSession
	}
	return id, nil
}

// Load fetches every item for the signed-in user. Whatever was listed
// before is dropped first, so a failed or signed-out load never shows
// another account's items.
func (g *Gallery) Load(ctx context.Context) error {
	g.mu.Lock()
	g.dropListingLocked()
	g.mu.Unlock()

	userID, err := g.userID()
	if err != nil {
		g.setError(MsgSignIn)
		return err
	}

	g.mu.Lock()
	g.loading = true
	g.errMsg = ""
	g.mu.Unlock()

	items, err := g.backend.WardrobeItems(ctx, userID)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.loading = false
	if err != nil {
		g.errMsg = "Failed to load wardrobe items"
		g.log.Error(err, "failed to load wardrobe")
		return err
	}
	g.items = items
	return nil
}

// Upload posts every photo concurrently and waits for all of them. If any
// upload fails the listing is left untouched and one error message is
// recorded; otherwise the new items are prepended in photo order.
func (g *Gallery) Upload(ctx context.Context, photos []domain.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	userID, err := g.userID()
	if err != nil {
		g.setError(MsgSignIn)
		return err
	}

	g.mu.Lock()
	if g.uploading {
		g.mu.Unlock()
		return ErrBusy
	}
	g.uploading = true
	g.errMsg = ""
	g.success = ""
	g.mu.Unlock()

	uploaded := make([]domain.WardrobeItem, len(photos))
	var group errgroup.Group
	for i, photo := range photos {
		group.Go(func() error {
			item, err := g.backend.UploadWardrobeItem(ctx, userID, photo)
			if err != nil {
				return &uploadError{name: photo.Name, err: err}
			}
			uploaded[i] = item
			return nil
		})
	}
	err = group.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.uploading = false
	if err != nil {
		g.errMsg = uploadMessage(err)
		g.log.Error(err, "wardrobe upload failed")
		return err
	}

	g.items = append(uploaded, g.items...)
	g.success = fmt.Sprintf("Successfully uploaded %d item(s) and auto-categorized!", len(uploaded))
	g.log.WithFields(map[string]any{"count": len(uploaded)}).Info("wardrobe items uploaded")
	return nil
}

// UploadFiles reads and validates each path before uploading. A file that
// fails validation aborts the batch before anything is sent.
func (g *Gallery) UploadFiles(ctx context.Context, paths []string) error {
	photos := make([]domain.Photo, 0, len(paths))
	for _, path := range paths {
		photo, err := domain.ReadPhoto(path)
		if err != nil {
			g.setError(uploadMessage(err))
			return err
		}
		photos = append(photos, photo)
	}
	return g.Upload(ctx, photos)
}

// Delete removes itemID once the user has confirmed. Unconfirmed calls do
// nothing.
func (g *Gallery) Delete(ctx context.Context, itemID string, confirmed bool) error {
	if !confirmed {
		return nil
	}
	userID, err := g.userID()
	if err != nil {
		g.setError(MsgSignIn)
		return err
	}

	err = g.backend.DeleteWardrobeItem(ctx, userID, itemID)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.errMsg = "Failed to delete item"
		g.success = ""
		g.log.WithFields(map[string]any{"item_id": itemID}).Error(err, "failed to delete wardrobe item")
		return err
	}

	kept := g.items[:0:0]
	for _, item := range g.items {
		if item.ID.String() != itemID {
			kept = append(kept, item)
		}
	}
	g.items = kept
	g.errMsg = ""
	g.success = "Item deleted successfully!"
	return nil
}

// SetFilter replaces the active filter.
func (g *Gallery) SetFilter(f domain.Filter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter = f
}

// Filter returns the active filter.
func (g *Gallery) Filter() domain.Filter {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter
}

// Visible returns the items passing the active filter.
func (g *Gallery) Visible() []domain.WardrobeItem {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter.Apply(g.items)
}

// Grouped returns the visible items bucketed by category.
func (g *Gallery) Grouped() []domain.CategoryGroup {
	return domain.GroupByCategory(g.Visible())
}

// Recommend asks the backend for outfits built from the wardrobe.
func (g *Gallery) Recommend(ctx context.Context, occasion string) ([]domain.OutfitRecommendation, error) {
	userID, err := g.userID()
	if err != nil {
		g.setError(MsgSignIn)
		return nil, err
	}

	g.mu.Lock()
	if g.recommending {
		g.mu.Unlock()
		return nil, ErrBusy
	}
	g.recommending = true
	g.mu.Unlock()

	outfits, err := g.backend.GenerateOutfits(ctx, api.OutfitRequest{UserID: userID, Occasion: occasion})

	g.mu.Lock()
	defer g.mu.Unlock()
	g.recommending = false
	if err != nil {
		g.errMsg = "Failed to generate outfits"
		g.log.Error(err, "failed to generate outfits")
		return nil, err
	}
	g.outfits = outfits
	return outfits, nil
}

// Reset returns the gallery to the state of a freshly opened screen. It is
// called when the signed-in user changes.
func (g *Gallery) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dropListingLocked()
	g.filter = domain.DefaultFilter()
	g.errMsg = ""
	g.success = ""
}

func (g *Gallery) dropListingLocked() {
	g.items = nil
	g.outfits = nil
}

// ClearSuccess dismisses the success banner only.
func (g *Gallery) ClearSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.success = ""
}

// ClearMessages dismisses the error and success banners.
func (g *Gallery) ClearMessages() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errMsg = ""
	g.success = ""
}

// Snapshot returns a copy of the current state.
func (g *Gallery) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	visible := g.filter.Apply(g.items)
	return Snapshot{
		Items:           append([]domain.WardrobeItem(nil), g.items...),
		Visible:         visible,
		Groups:          domain.GroupByCategory(visible),
		Filter:          g.filter,
		Loading:         g.loading,
		Uploading:       g.uploading,
		Error:           g.errMsg,
		Success:         g.success,
		Recommending:    g.recommending,
		Recommendations: append([]domain.OutfitRecommendation(nil), g.outfits...),
	}
}

func (g *Gallery) setError(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errMsg = msg
	g.success = ""
}

// uploadError names the file whose upload failed.
type uploadError struct {
	name string
	err  error
}

func (e *uploadError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.name, e.err)
}

func (e *uploadError) Unwrap() error {
	return e.err
}

func uploadMessage(err error) string {
	var upErr *uploadError
	if errors.As(err, &upErr) {
		return "Failed to upload " + upErr.name
	}
	var vErr *liberrors.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return err.Error()
}
