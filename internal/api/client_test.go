package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://api.test", New("http://api.test//").BaseURL())
}

func TestProfileDecodesAndDefaults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/profile/u1", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		writeJSON(w, http.StatusOK, map[string]any{"name": "Mahnoor", "email": "m@example.com", "height": 160})
	})

	profile, err := client.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mahnoor", profile.Name)
	assert.Equal(t, "male", profile.Gender)
	assert.Equal(t, "160", profile.Height.String())
}

func TestNotFoundBecomesAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
	})

	_, err := client.Profile(context.Background(), "missing")
	var apiErr *liberrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "User not found", apiErr.Message())
}

func TestValidationDetailListIsJoined(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "field required"}, {"msg": "invalid email"}},
		})
	})

	err := client.UpdateProfile(context.Background(), domain.ProfileUpdate{UserID: "1", Name: "A", Gender: "male"})
	var apiErr *liberrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "field required; invalid email", apiErr.Detail)
}

func TestUpdateProfileSendsMultipartFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "/auth/update-profile", r.URL.Path)
		assert.Equal(t, "9", r.FormValue("user_id"))
		assert.Equal(t, "Iqra", r.FormValue("name"))
		assert.Equal(t, "female", r.FormValue("gender"))
		assert.Equal(t, "olive", r.FormValue("skin_tone"))
		assert.Equal(t, "", r.FormValue("body_shape"))
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	err := client.UpdateProfile(context.Background(), domain.ProfileUpdate{
		UserID: "9", Name: " Iqra ", Gender: "female", SkinTone: "olive",
	})
	require.NoError(t, err)
}

func TestUpdateProfilePhotoUploadsFile(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "3", r.FormValue("user_id"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, pngHeader, data)
		writeJSON(w, http.StatusOK, map[string]string{"image_url": "https://cdn/me.png"})
	})

	url, err := client.UpdateProfilePhoto(context.Background(), "3", domain.Photo{Name: "me.png", MIME: "image/png", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/me.png", url)
}

func TestUpdateThemePatchesJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/auth/update-theme/5", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dark", body["theme"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.UpdateTheme(context.Background(), "5", domain.ThemeDark))
}

func TestStyleInsightsFailureCarriesMessage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Add more items first"})
	})

	_, err := client.StyleInsights(context.Background(), "1")
	require.ErrorIs(t, err, ErrInsightsUnavailable)
	assert.Equal(t, "Add more items first", err.Error())
}

func TestStyleInsightsSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"insights": map[string]any{"summary": "Earthy tones", "fashion_dos": []string{"Layer dupattas"}},
		})
	})

	insights, err := client.StyleInsights(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Earthy tones", insights.Summary)
	assert.Equal(t, []string{"Layer dupattas"}, insights.FashionDos)
}

func TestWardrobeRoundTrip(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wardrobe/items/u":
			writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{{"id": 1, "name": "Kurta", "category": "Tops & Kurtas"}}})
		case r.Method == http.MethodPost && r.URL.Path == "/wardrobe/upload":
			writeJSON(w, http.StatusOK, map[string]any{"item": map[string]any{"id": "new", "name": "Khussa"}})
		case r.Method == http.MethodDelete && r.URL.Path == "/wardrobe/items/1":
			assert.Equal(t, "u", r.URL.Query().Get("user_id"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	items, err := client.WardrobeItems(ctx, "u")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID.String())

	item, err := client.UploadWardrobeItem(ctx, "u", domain.Photo{Name: "k.png", MIME: "image/png", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "Khussa", item.Name)

	require.NoError(t, client.DeleteWardrobeItem(ctx, "u", "1"))
}

func TestGenerateOutfitsAcceptsEitherKey(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req OutfitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eid", req.Occasion)
		writeJSON(w, http.StatusOK, map[string]any{"outfits": []map[string]any{{"name": "Festive"}}})
	})

	outfits, err := client.GenerateOutfits(context.Background(), OutfitRequest{UserID: "1", Occasion: "eid"})
	require.NoError(t, err)
	require.Len(t, outfits, 1)
	assert.Equal(t, "Festive", outfits[0].Name)
}

func TestLoginSessionFallsBackToUserID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 77, "name": "Rida"}})
	})

	resp, err := client.Login(context.Background(), Credentials{Email: "r@example.com", Password: "pw"})
	require.NoError(t, err)
	sess := resp.Session()
	assert.Equal(t, "77", sess.UserID)
	assert.Equal(t, "Rida", sess.CachedName)
}

func TestTransportErrorWhenUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	client := New(base, WithTimeout(time.Second))
	_, err := client.WardrobeItems(context.Background(), "u")
	var apiErr *liberrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
}
