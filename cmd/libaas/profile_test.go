package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/libaas/internal/profile"
)

func TestProfileShowCommand(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)
	signIn(t, true)

	out, err := execute(t, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Ayesha Khan <ayesha@example.com>")
	assert.Contains(t, out, "Female")
	assert.Contains(t, out, "Pakistan")
	assert.Contains(t, out, "165")
	assert.Contains(t, out, "Warm")
	assert.Contains(t, out, "Top match: ethnic wear (82.0%)")
	assert.Contains(t, out, "maroon, emerald")
	assert.NotContains(t, out, "Style insights")
}

func TestProfileShowCommand_SignedOut(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)

	_, err := execute(t, "profile", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), profile.MsgNoUser)
	assert.Contains(t, err.Error(), "libaas login")
}

func TestProfileShowCommand_UnknownUser(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)

	_, err := execute(t, "profile", "show", "--user", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")
	assert.Contains(t, err.Error(), "Check the id")
}

func TestProfileUpdateCommand(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)
	signIn(t, true)

	out, err := execute(t, "profile", "update", "--country", "India", "--body-shape", "Inverted Triangle")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Profile updated successfully!")
	assert.Contains(t, out, "India")

	_, _, _, form := backend.recorded()
	require.NotNil(t, form)
	assert.Equal(t, "42", form["user_id"])
	assert.Equal(t, "Ayesha Khan", form["name"])
	assert.Equal(t, "female", form["gender"])
	assert.Equal(t, "India", form["country"])
	assert.Equal(t, "inverted", form["body_shape"])
	assert.Equal(t, "warm", form["skin_tone"])
}

func TestProfileUpdateCommand_Validation(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)
	signIn(t, true)

	_, err := execute(t, "profile", "update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")

	_, err = execute(t, "profile", "update", "--skin-tone", "purple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown value "purple"`)

	_, err = execute(t, "profile", "update", "--name", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to update profile")

	_, _, _, form := backend.recorded()
	assert.Nil(t, form)
}

func TestProfileInsightsCommand(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)
	signIn(t, true)

	out, err := execute(t, "profile", "insights")
	require.NoError(t, err)
	assert.Contains(t, out, "Jewel tones suit you.")
	assert.Contains(t, out, "Palette: emerald, maroon")
	assert.Contains(t, out, "• Pair kurtas with straight trousers")
}

func TestProfilePhotoCommand_MissingFile(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)
	signIn(t, true)

	_, err := execute(t, "profile", "photo", "missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to update photo")
}

func TestProfilePhotoCommand_RejectsNonImageBeforeFetching(t *testing.T) {
	backend := newFakeBackend(t)
	setupHome(t, backend)
	signIn(t, true)

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("not a picture"), 0o600))
	before := backend.profileFetches()

	_, err := execute(t, "profile", "photo", notes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to update photo: validating")
	assert.Contains(t, err.Error(), "is not an image file")
	assert.Equal(t, before, backend.profileFetches())
}
