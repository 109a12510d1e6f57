package tui

import (
	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/navbar"
	"github.com/alexisbeaulieu97/libaas/internal/profile"
)

// Screen is one of the top-level pages reachable from the navbar.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenWardrobe
	ScreenGenerate
	ScreenProfile
)

// Screens lists the navbar tabs in order; tab n is bound to key n+1.
var Screens = []Screen{ScreenHome, ScreenWardrobe, ScreenGenerate, ScreenProfile}

func (s Screen) String() string {
	switch s {
	case ScreenWardrobe:
		return "My Wardrobe"
	case ScreenGenerate:
		return "Generate Look"
	case ScreenProfile:
		return "Profile"
	default:
		return "Home"
	}
}

// ViewMode determines what is drawn over the active screen
type ViewMode int

const (
	ViewMain ViewMode = iota
	ViewHelp
	ViewConfirm
	ViewInput
)

// inputPurpose says what a submitted text input is for.
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputUpload
	inputSearch
	inputOccasion
	inputPhoto
	inputField
)

// Confirmation actions.
const (
	actionDelete  = "delete"
	actionSignOut = "signout"
)

// Bridge Messages

// AuthChangedMsg reports a sign-in or sign-out anywhere in the process.
type AuthChangedMsg struct{}

// ThemeChangedMsg reports that the controller applied a theme.
type ThemeChangedMsg struct {
	Theme domain.Theme
}

// NavbarMsg carries the navbar state after a backend refresh.
type NavbarMsg struct {
	State navbar.State
}

// MarqueeTickMsg advances the home screen marquee.
type MarqueeTickMsg struct{}

// Wardrobe Messages

// GalleryLoadedMsg reports the end of a wardrobe fetch.
type GalleryLoadedMsg struct {
	Err error
}

// UploadCompleteMsg reports the end of an upload batch.
type UploadCompleteMsg struct {
	Count int
	Err   error
}

// DeleteCompleteMsg reports the end of an item deletion.
type DeleteCompleteMsg struct {
	ItemID string
	Err    error
}

// SuccessExpiredMsg clears the wardrobe success banner it was armed for.
type SuccessExpiredMsg struct {
	Seq int
}

// OutfitsCompleteMsg reports the end of an outfit request.
type OutfitsCompleteMsg struct {
	Outfits []domain.OutfitRecommendation
	Err     error
}

// Profile Messages

// ProfileLoadedMsg reports the end of the profile fetch.
type ProfileLoadedMsg struct {
	Err error
}

// ProfileSavedMsg reports the end of a profile save.
type ProfileSavedMsg struct {
	Err error
}

// PhotoStagedMsg reports a photo read from disk and staged for upload.
type PhotoStagedMsg struct {
	Preview profile.Preview
	Err     error
}

// PhotoUploadedMsg reports the end of a profile photo upload.
type PhotoUploadedMsg struct {
	Err error
}

// InsightsCompleteMsg reports the end of a style insights request.
type InsightsCompleteMsg struct {
	Err error
}

// SignedOutMsg reports that the local session was cleared.
type SignedOutMsg struct {
	Err error
}

// Error Messages

// ErrorMsg indicates a general error occurred
type ErrorMsg struct {
	Message string
}

// ClearErrorMsg requests error banner dismissal
type ClearErrorMsg struct{}
