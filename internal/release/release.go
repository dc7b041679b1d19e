package release

import "time"

// Release is the subset of a GitHub-style release object the monitor uses.
// Unknown fields in the feed response are ignored.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	Body        string    `json:"body"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a downloadable artifact attached to a release.
type Asset struct {
	Name string `json:"name"`
}
