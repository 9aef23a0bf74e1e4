package contextcache

import "time"

// Kind identifies the content kind of a cached entry
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindWeb      Kind = "web"
	KindVideo    Kind = "video"
	KindFile     Kind = "file"
)

// DependentKinds are the kinds derived from references found in markdown.
// Invalidating markdown with forceDependentReload cascades to these.
var DependentKinds = []Kind{KindWeb, KindVideo}

// Entry is one piece of cached derived content for a project
type Entry struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Kind      Kind      `json:"kind"`
	Source    string    `json:"source"` // vault-relative path or URL
	Content   string    `json:"content"`
	Stale     bool      `json:"stale"`
	FetchedAt time.Time `json:"fetched_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// key uniquely identifies an entry within a project.
func (e *Entry) key() string {
	return string(e.Kind) + "\x00" + e.Source
}
