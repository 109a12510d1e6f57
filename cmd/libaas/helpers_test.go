package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBackend records what the commands sent and answers with canned data.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu           sync.Mutex
	themes       []string
	deleted      []string
	occasions    []string
	profileForm  map[string]string
	failProfile  bool
	profileLoads int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{t: t}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user_id": 42,
			"user":    map[string]any{"id": 42, "name": "Ayesha Khan", "email": creds.Email},
		})
	})

	mux.HandleFunc("GET /auth/profile/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		fail := b.failProfile
		b.profileLoads++
		b.mu.Unlock()
		if fail || r.PathValue("id") != "42" {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":        42,
			"name":      "Ayesha Khan",
			"email":     "ayesha@example.com",
			"gender":    "female",
			"country":   "Pakistan",
			"height":    165,
			"skin_tone": "warm",
			"clip_insights": map[string]any{
				"top_label":      "ethnic wear",
				"top_confidence": 0.82,
				"all_predictions": []map[string]any{
					{"label": "maroon", "score": 0.5},
					{"label": "emerald", "score": 0.2},
				},
			},
		})
	})

	mux.HandleFunc("POST /auth/update-profile", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": err.Error()})
			return
		}
		form := make(map[string]string)
		for key, values := range r.MultipartForm.Value {
			form[key] = strings.Join(values, ",")
		}
		b.mu.Lock()
		b.profileForm = form
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated"})
	})

	mux.HandleFunc("PATCH /auth/update-theme/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Theme string `json:"theme"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.themes = append(b.themes, r.PathValue("id")+"="+body.Theme)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})

	mux.HandleFunc("GET /auth/style-insights/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"insights": map[string]any{
				"summary":       "Jewel tones suit you.",
				"color_palette": []string{"emerald", "maroon"},
				"fashion_dos":   []string{"Pair kurtas with straight trousers"},
			},
		})
	})

	mux.HandleFunc("GET /wardrobe/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{
			{"id": 1, "name": "Lawn Kurta", "category": "Tops & Kurtas", "tags": []string{"ethnic", "lawn"}},
			{"id": 2, "name": "Khussa", "category": "Shoes & Sandals", "tags": []string{"ethnic"}},
			{"id": 3, "name": "Denim", "category": "Bottoms & Shalwar", "tags": []string{"western"}},
		}})
	})

	mux.HandleFunc("DELETE /wardrobe/items/{item}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.deleted = append(b.deleted, r.PathValue("item")+"@"+r.URL.Query().Get("user_id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /wardrobe/generate-outfit-recommendations", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string `json:"user_id"`
			Occasion string `json:"occasion"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.occasions = append(b.occasions, req.Occasion)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"recommendations": []map[string]any{
			{"name": "Eid Brunch", "occasion": req.Occasion, "item_ids": []any{1, "2"}},
		}})
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (b *fakeBackend) profileFetches() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profileLoads
}

func (b *fakeBackend) recorded() (themes, deleted, occasions []string, form map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.themes...), append([]string(nil), b.deleted...),
		append([]string(nil), b.occasions...), b.profileForm
}

// setupHome points every libaas path at temporary directories and the
// backend at b.
func setupHome(t *testing.T, b *fakeBackend) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("LIBAAS_HOME", home)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("LIBAAS_API_URL", b.srv.URL)
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	t.Setenv("LIBAAS_USE_GATEWAY", "false")
	t.Setenv("LIBAAS_LOG_FILE", "")
	t.Setenv("LIBAAS_REQUEST_TIMEOUT", "")
	return home
}

// execute runs the root command with args and returns combined output.
// Stdin is never a terminal.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func signIn(t *testing.T, remember bool) {
	t.Helper()

	args := []string{"login", "--email", "ayesha@example.com", "--password", "secret"}
	if remember {
		args = append(args, "--remember")
	}
	out, err := execute(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as Ayesha Khan")
}
