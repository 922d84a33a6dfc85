package postsearch

// Platform tags for the supported content sources. A Document's ID is
// qualified with its platform tag by construction, which keeps IDs globally
// unique across platforms.
const (
	PlatformNotion  = "notion"
	PlatformTistory = "tistory"
)

// Document represents a single piece of published content harvested from a
// platform. Documents are immutable values: source-side edits produce a new
// Document with the same ID that supersedes the old one, they never mutate
// an existing value.
type Document struct {
	ID       string `json:"id"`       // platform-qualified, e.g. "tistory_42"
	Title    string `json:"title"`
	Content  string `json:"content"`  // full extracted text
	URL      string `json:"url"`
	Platform string `json:"platform"`
	Date     string `json:"date"` // opaque display string, never parsed
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.Platform == "" {
		return Errorf(EINVALID, "document platform required")
	}
	return nil
}
