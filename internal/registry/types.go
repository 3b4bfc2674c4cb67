package registry

import (
	"context"
	"time"
)

// Crate is a package record as returned by the registry. Search results
// carry the summary fields; a detail fetch fills the rest.
type Crate struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Downloads        uint64    `json:"downloads"`
	RecentDownloads  *uint64   `json:"recent_downloads"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	MaxVersion       string    `json:"max_version"`
	MaxStableVersion string    `json:"max_stable_version"`
	Homepage         string    `json:"homepage"`
	Repository       string    `json:"repository"`
	Documentation    string    `json:"documentation"`
	Owners           []Owner   `json:"-"`
}

// Owner is a user or team that can publish a crate
type Owner struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
}

// Keyword is a popular keyword entry from the registry summary
type Keyword struct {
	ID        string `json:"id"`
	CratesCnt uint64 `json:"crates_cnt"`
}

// Category is a popular category entry from the registry summary
type Category struct {
	Category  string `json:"category"`
	Slug      string `json:"slug"`
	CratesCnt uint64 `json:"crates_cnt"`
}

// Summary is the registry front page
type Summary struct {
	NumDownloads           uint64     `json:"num_downloads"`
	NumCrates              uint64     `json:"num_crates"`
	NewCrates              []Crate    `json:"new_crates"`
	MostDownloaded         []Crate    `json:"most_downloaded"`
	MostRecentlyDownloaded []Crate    `json:"most_recently_downloaded"`
	JustUpdated            []Crate    `json:"just_updated"`
	PopularKeywords        []Keyword  `json:"popular_keywords"`
	PopularCategories      []Category `json:"popular_categories"`
}

// SearchQuery describes one page of a search
type SearchQuery struct {
	Text    string
	Page    int
	PerPage int
	Sort    Sort
}

// SearchPage is one page of search results plus the total match count
type SearchPage struct {
	Crates []Crate
	Total  uint64
}

// Client is the registry collaborator used by the controller
type Client interface {
	Search(ctx context.Context, q SearchQuery) (SearchPage, error)
	Crate(ctx context.Context, name string) (Crate, error)
	Summary(ctx context.Context) (Summary, error)
}
