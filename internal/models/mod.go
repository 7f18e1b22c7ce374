package models

import "time"

// ModSummary is the short form returned by /api/mods/{name} and by each
// entry of a page listing. LatestRelease is only set on listings.
type ModSummary struct {
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Owner          string    `json:"owner"`
	Summary        string    `json:"summary"`
	DownloadsCount int       `json:"downloads_count"`
	Category       Category  `json:"category,omitempty"`
	Score          float64   `json:"score,omitempty"`
	Thumbnail      string    `json:"thumbnail,omitempty"`
	LatestRelease  *Release  `json:"latest_release,omitempty"`
	Releases       []Release `json:"releases,omitempty"`
}

// ModDetail is the full form returned by /api/mods/{name}/full.
type ModDetail struct {
	ModSummary

	Changelog   string    `json:"changelog,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	GithubPath  string    `json:"github_path,omitempty"`
	Homepage    string    `json:"homepage,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	License     *License  `json:"license,omitempty"`
	Deprecated  bool      `json:"deprecated,omitempty"`
}

type License struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
