package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

const (
	waitFor   = 2 * time.Second
	pollEvery = 10 * time.Millisecond
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeBackend struct {
	mu sync.Mutex

	profile    domain.Profile
	profileErr error
	updateErr  error
	photoURL   string
	photoErr   error
	insights   *domain.StyleInsights
	insightErr error

	updateGate  chan struct{}
	insightGate chan struct{}
	updates     []domain.ProfileUpdate
}

func (f *fakeBackend) Profile(context.Context, string) (domain.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeBackend) UpdateProfile(_ context.Context, update domain.ProfileUpdate) error {
	if f.updateGate != nil {
		<-f.updateGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return f.updateErr
}

func (f *fakeBackend) UpdateProfilePhoto(context.Context, string, domain.Photo) (string, error) {
	return f.photoURL, f.photoErr
}

func (f *fakeBackend) StyleInsights(context.Context, string) (*domain.StyleInsights, error) {
	if f.insightGate != nil {
		<-f.insightGate
	}
	return f.insights, f.insightErr
}

type fakeSessions struct {
	id        string
	cached    []string
	signedOut bool
}

func (f *fakeSessions) UserID() string { return f.id }

func (f *fakeSessions) UpdateCache(name, imageURL string) error {
	f.cached = []string{name, imageURL}
	return nil
}

func (f *fakeSessions) SignOut() error {
	f.signedOut = true
	return nil
}

func loadedPage(t *testing.T, backend *fakeBackend, sessions *fakeSessions) *Page {
	t.Helper()
	page := NewPage("", backend, sessions, nil)
	require.NoError(t, page.Load(context.Background()))
	return page
}

func TestLoadWithoutUserRedirects(t *testing.T) {
	t.Parallel()

	page := NewPage("", &fakeBackend{}, &fakeSessions{id: "undefined"}, nil)
	require.Error(t, page.Load(context.Background()))

	snap := page.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, MsgNoUser, snap.Error)
	assert.Equal(t, RedirectSignIn, snap.RedirectTo)
}

func TestExplicitUserIDTakesPrecedence(t *testing.T) {
	t.Parallel()

	page := NewPage("from-url", &fakeBackend{profile: domain.Profile{Name: "A"}}, &fakeSessions{id: "from-session"}, nil)
	require.NoError(t, page.Load(context.Background()))
	assert.Equal(t, "from-url", page.Snapshot().UserID)
}

func TestLoadFailureIsTerminal(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profileErr: liberrors.NewAPIError("GET", "/auth/profile/1", 404, "")}
	page := NewPage("", backend, &fakeSessions{id: "1"}, nil)

	require.Error(t, page.Load(context.Background()))
	snap := page.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Server error (404)", snap.Error)

	backend.profileErr = nil
	require.ErrorIs(t, page.Load(context.Background()), ErrTerminal)
	assert.Equal(t, StatusError, page.Snapshot().Status)
}

func TestLoadPopulatesInsights(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{
		Name:         "Noor",
		ClipInsights: &domain.ClipInsights{TopLabel: "lehenga", AllPredictions: []domain.Prediction{{Label: "red", Score: 0.8}}, PersistedStyleInsights: &domain.StyleInsights{Summary: "Jewel tones"}},
	}}
	page := loadedPage(t, backend, &fakeSessions{id: "1"})

	snap := page.Snapshot()
	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, "lehenga", snap.AI.TopLabel)
	require.NotNil(t, snap.Insights)
	assert.Equal(t, "Jewel tones", snap.Insights.Summary)
}

func TestSaveSuccessClosesEditing(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{Name: "Old", Gender: "female"}}
	sessions := &fakeSessions{id: "1"}
	page := loadedPage(t, backend, sessions)

	require.NoError(t, page.BeginEdit())
	draft := page.Snapshot().Draft
	draft.Name = "New"
	draft.BodyShape = "pear"
	require.NoError(t, page.SetDraft(draft))
	require.NoError(t, page.Save(context.Background()))

	snap := page.Snapshot()
	assert.False(t, snap.Editing)
	assert.Equal(t, "New", snap.Profile.Name)
	assert.Equal(t, "pear", snap.Profile.BodyShape)
	assert.Equal(t, "1", backend.updates[0].UserID)
	assert.Equal(t, "New", sessions.cached[0])
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{Name: "Old", Gender: "male"}, updateErr: errors.New("server down")}
	page := loadedPage(t, backend, &fakeSessions{id: "1"})

	require.NoError(t, page.BeginEdit())
	draft := page.Snapshot().Draft
	draft.Name = "Changed"
	require.NoError(t, page.SetDraft(draft))

	require.Error(t, page.Save(context.Background()))
	snap := page.Snapshot()
	assert.True(t, snap.Editing)
	assert.False(t, snap.Saving)
	assert.Equal(t, "Changed", snap.Draft.Name)
	assert.Equal(t, "Old", snap.Profile.Name)
}

func TestSaveRejectsInvalidDraft(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{Name: "A", Gender: "male"}}
	page := loadedPage(t, backend, &fakeSessions{id: "1"})

	require.NoError(t, page.BeginEdit())
	draft := page.Snapshot().Draft
	draft.SkinTone = "blue"
	require.NoError(t, page.SetDraft(draft))

	var vErr *liberrors.ValidationError
	require.ErrorAs(t, page.Save(context.Background()), &vErr)
	assert.Empty(t, backend.updates)
	assert.True(t, page.Snapshot().Editing)
}

func TestConcurrentSaveIsRejected(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{Name: "A", Gender: "male"}, updateGate: make(chan struct{})}
	page := loadedPage(t, backend, &fakeSessions{id: "1"})
	require.NoError(t, page.BeginEdit())

	done := make(chan error)
	go func() { done <- page.Save(context.Background()) }()

	require.Eventually(t, func() bool { return page.Snapshot().Saving }, waitFor, pollEvery)
	require.ErrorIs(t, page.Save(context.Background()), ErrBusy)

	close(backend.updateGate)
	require.NoError(t, <-done)
}

func TestInsightsDoNotBlockSaving(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		profile:     domain.Profile{Name: "A", Gender: "male"},
		insights:    &domain.StyleInsights{Summary: "Pastels"},
		insightGate: make(chan struct{}),
	}
	page := loadedPage(t, backend, &fakeSessions{id: "1"})

	done := make(chan error)
	go func() { done <- page.GenerateInsights(context.Background()) }()
	require.Eventually(t, func() bool { return page.Snapshot().InsightsLoading }, waitFor, pollEvery)

	require.NoError(t, page.BeginEdit())
	require.NoError(t, page.Save(context.Background()))
	require.ErrorIs(t, page.GenerateInsights(context.Background()), ErrBusy)

	close(backend.insightGate)
	require.NoError(t, <-done)
	snap := page.Snapshot()
	assert.False(t, snap.InsightsLoading)
	assert.Equal(t, "Pastels", snap.Insights.Summary)
}

func TestInsightsFailureSetsMessage(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{Name: "A"}, insightErr: errors.New("Add more wardrobe items")}
	page := loadedPage(t, backend, &fakeSessions{id: "1"})

	require.Error(t, page.GenerateInsights(context.Background()))
	assert.Equal(t, "Add more wardrobe items", page.Snapshot().InsightsError)
}

func TestPhotoStageCancelAndUpload(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{Name: "A", ImageURL: "old.png"}, photoURL: "new.png"}
	sessions := &fakeSessions{id: "1"}
	page := loadedPage(t, backend, sessions)

	_, err := page.StagePhoto("notes.txt", []byte("plain text"))
	require.Error(t, err)
	assert.Nil(t, page.Snapshot().Staged)

	preview, err := page.StagePhoto("me.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", preview.MIME)

	page.CancelPhoto()
	snap := page.Snapshot()
	assert.Nil(t, snap.Staged)
	assert.Equal(t, "old.png", snap.Profile.ImageURL)
	require.ErrorIs(t, page.UploadPhoto(context.Background()), ErrNoStagedPhoto)

	_, err = page.StagePhoto("me.png", pngHeader)
	require.NoError(t, err)
	require.NoError(t, page.UploadPhoto(context.Background()))

	snap = page.Snapshot()
	assert.Nil(t, snap.Staged)
	assert.Equal(t, "new.png", snap.Profile.ImageURL)
	assert.Equal(t, []string{"A", "new.png"}, sessions.cached)
}

func TestPhotoUploadFailureKeepsStaged(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{profile: domain.Profile{Name: "A", ImageURL: "old.png"}, photoErr: errors.New("too big")}
	page := loadedPage(t, backend, &fakeSessions{id: "1"})

	_, err := page.StagePhoto("me.png", pngHeader)
	require.NoError(t, err)
	require.Error(t, page.UploadPhoto(context.Background()))

	snap := page.Snapshot()
	assert.NotNil(t, snap.Staged)
	assert.False(t, snap.Uploading)
	assert.Equal(t, "old.png", snap.Profile.ImageURL)
}

func TestOperationsRequireLoadedProfile(t *testing.T) {
	t.Parallel()

	page := NewPage("", &fakeBackend{}, &fakeSessions{id: "1"}, nil)
	assert.ErrorIs(t, page.BeginEdit(), ErrNotReady)
	assert.ErrorIs(t, page.GenerateInsights(context.Background()), ErrNotReady)
	_, err := page.StagePhoto("me.png", pngHeader)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSignOutDelegates(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{id: "1"}
	page := NewPage("", &fakeBackend{}, sessions, nil)
	require.NoError(t, page.SignOut())
	assert.True(t, sessions.signedOut)
}
