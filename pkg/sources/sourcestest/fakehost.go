// Package sourcestest provides an in-process fake SillyTavern server for tests.
package sourcestest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Upload is a character import the fake host received.
type Upload struct {
	FileName      string
	FileType      string
	ContentType   string
	PreservedName string
	Content       []byte
}

// Host is a fake SillyTavern server. Fields may be changed between requests;
// use the accessor methods to read what was recorded.
type Host struct {
	Server *httptest.Server

	mu sync.Mutex
	// Token is the CSRF token handed out; empty disables CSRF (404 on /csrf-token).
	Token string
	// Static maps absolute URL paths to file contents.
	Static map[string][]byte
	// CharacterError, when set, is returned as {"error": ...} by character imports.
	CharacterError any
	// FailStatus forces every /api/ POST to fail with this status when non-zero.
	FailStatus int
	// FailSettings makes /api/settings/get fail with 500.
	FailSettings bool

	themes    []string
	saved     []map[string]any
	uploads   []Upload
	requests  []string
	settingsN int
}

func New(t testing.TB) *Host {
	h := &Host{
		Token:  "test-token",
		Static: map[string][]byte{},
	}
	h.Server = httptest.NewServer(http.HandlerFunc(h.serve))
	t.Cleanup(h.Server.Close)
	return h
}

func (h *Host) URL() string {
	return h.Server.URL
}

// SetToken rotates the CSRF token, as a restarted host would.
func (h *Host) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Token = token
}

// SetThemes replaces the host's theme list.
func (h *Host) SetThemes(names ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.themes = append([]string{}, names...)
}

func (h *Host) Themes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.themes...)
}

func (h *Host) SavedThemes() []map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]map[string]any{}, h.saved...)
}

func (h *Host) Uploads() []Upload {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Upload{}, h.uploads...)
}

// Requests returns "METHOD /path" for every request served.
func (h *Host) Requests() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.requests...)
}

// SettingsCalls counts /api/settings/get requests.
func (h *Host) SettingsCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settingsN
}

func (h *Host) serve(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requests = append(h.requests, r.Method+" "+r.URL.Path)

	if r.Method == http.MethodGet {
		if r.URL.Path == "/csrf-token" {
			if h.Token == "" {
				http.NotFound(w, r)
				return
			}
			writeJSON(w, map[string]string{"token": h.Token})
			return
		}
		content, ok := h.Static[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(content)
		return
	}

	if h.Token != "" && r.Header.Get("X-CSRF-Token") != h.Token {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}
	if h.FailStatus != 0 && strings.HasPrefix(r.URL.Path, "/api/") {
		http.Error(w, "forced failure", h.FailStatus)
		return
	}

	switch r.URL.Path {
	case "/api/settings/get":
		h.settingsN++
		if h.FailSettings {
			http.Error(w, "settings unavailable", http.StatusInternalServerError)
			return
		}
		themes := make([]map[string]string, 0, len(h.themes))
		for _, name := range h.themes {
			themes = append(themes, map[string]string{"name": name})
		}
		writeJSON(w, map[string]any{"settings": "{}", "themes": themes})

	case "/api/themes/save":
		var theme map[string]any
		if err := json.NewDecoder(r.Body).Decode(&theme); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		name, _ := theme["name"].(string)
		if name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}
		h.saved = append(h.saved, theme)
		if !contains(h.themes, name) {
			h.themes = append(h.themes, name)
		}
		w.WriteHeader(http.StatusOK)

	case "/api/characters/import":
		file, header, err := r.FormFile("avatar")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		h.uploads = append(h.uploads, Upload{
			FileName:      header.Filename,
			FileType:      r.FormValue("file_type"),
			ContentType:   header.Header.Get("Content-Type"),
			PreservedName: r.FormValue("preserved_name"),
			Content:       content,
		})
		if h.CharacterError != nil {
			writeJSON(w, map[string]any{"error": h.CharacterError})
			return
		}
		writeJSON(w, map[string]string{"file_name": strings.TrimSuffix(header.Filename, ".png")})

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
