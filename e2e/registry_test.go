//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type fakeCrate struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Downloads     uint64 `json:"downloads"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	MaxVersion    string `json:"max_version"`
	Homepage      string `json:"homepage,omitempty"`
	Repository    string `json:"repository,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

var fixtureCrates = []fakeCrate{
	{Name: "serde", Description: "A generic serialization/deserialization framework", Downloads: 512000000, MaxVersion: "1.0.210", Repository: "https://github.com/serde-rs/serde"},
	{Name: "serde_json", Description: "A JSON serialization file format", Downloads: 430000000, MaxVersion: "1.0.128"},
	{Name: "serde_derive", Description: "Macros 1.1 implementation of #[derive(Serialize, Deserialize)]", Downloads: 400000000, MaxVersion: "1.0.210"},
	{Name: "tokio", Description: "An event-driven, non-blocking I/O platform", Downloads: 300000000, MaxVersion: "1.40.0", Homepage: "https://tokio.rs"},
	{Name: "rand", Description: "Random number generators and other randomness functionality", Downloads: 450000000, MaxVersion: "0.8.5"},
}

// FakeRegistry serves the registry endpoints cratetui calls from a fixed
// set of crates. A search for "boom" fails.
type FakeRegistry struct {
	srv *httptest.Server

	mu       sync.Mutex
	searches []string
}

// NewFakeRegistry starts a registry that is closed with the test
func NewFakeRegistry(t *testing.T) *FakeRegistry {
	t.Helper()
	r := &FakeRegistry{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/crates", r.search)
	mux.HandleFunc("GET /api/v1/crates/{name}", r.crate)
	mux.HandleFunc("GET /api/v1/crates/{name}/owners", r.owners)
	mux.HandleFunc("GET /api/v1/summary", r.summary)

	r.srv = httptest.NewServer(mux)
	t.Cleanup(r.srv.Close)
	return r
}

// URL is the API root to put in the config
func (r *FakeRegistry) URL() string {
	return r.srv.URL + "/api/v1"
}

// Searches returns the query text of every search received so far
func (r *FakeRegistry) Searches() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.searches...)
}

func (r *FakeRegistry) search(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	text := q.Get("q")

	r.mu.Lock()
	r.searches = append(r.searches, text)
	r.mu.Unlock()

	if text == "boom" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"errors": []map[string]string{{"detail": "registry exploded"}},
		})
		return
	}

	var matched []fakeCrate
	for _, c := range fixtureCrates {
		if strings.Contains(c.Name, text) {
			matched = append(matched, withDates(c))
		}
	}
	if q.Get("sort") == "alpha" {
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	page = max(page, 1)
	if perPage <= 0 {
		perPage = 10
	}
	start := min((page-1)*perPage, len(matched))
	end := min(start+perPage, len(matched))

	writeJSON(w, http.StatusOK, map[string]any{
		"crates": matched[start:end],
		"meta":   map[string]any{"total": len(matched)},
	})
}

func (r *FakeRegistry) crate(w http.ResponseWriter, req *http.Request) {
	c, ok := lookupCrate(req.PathValue("name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"errors": []map[string]string{{"detail": "crate not found"}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"crate": c})
}

func (r *FakeRegistry) owners(w http.ResponseWriter, req *http.Request) {
	if _, ok := lookupCrate(req.PathValue("name")); !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"errors": []map[string]string{{"detail": "crate not found"}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": []map[string]string{{"login": "dtolnay", "name": "David Tolnay", "kind": "user"}},
	})
}

func (r *FakeRegistry) summary(w http.ResponseWriter, _ *http.Request) {
	crates := make([]fakeCrate, 0, len(fixtureCrates))
	for _, c := range fixtureCrates {
		crates = append(crates, withDates(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"num_downloads":            2092000000,
		"num_crates":               len(fixtureCrates),
		"new_crates":               crates[3:],
		"most_downloaded":          crates,
		"most_recently_downloaded": crates[:2],
		"just_updated":             crates[1:3],
		"popular_keywords":         []map[string]any{{"id": "serde", "crates_cnt": 3}},
		"popular_categories":       []map[string]any{{"category": "Encoding", "slug": "encoding", "crates_cnt": 3}},
	})
}

func lookupCrate(name string) (fakeCrate, bool) {
	for _, c := range fixtureCrates {
		if c.Name == name {
			return withDates(c), true
		}
	}
	return fakeCrate{}, false
}

func withDates(c fakeCrate) fakeCrate {
	c.CreatedAt = "2015-03-01T10:00:00Z"
	c.UpdatedAt = "2024-09-01T12:00:00Z"
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
