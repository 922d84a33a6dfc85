package postsearch

// IndexState describes where an indexing pass is in its lifecycle.
type IndexState string

// Indexing pass states. Done and Error are terminal for a pass; a new pass
// may start from Idle, Done or Error but never while another is Running.
const (
	IndexIdle    IndexState = "idle"
	IndexRunning IndexState = "running"
	IndexDone    IndexState = "done"
	IndexError   IndexState = "error"
)

// IndexStatus is the externally observable state of the indexing
// orchestrator. It is mutated exclusively by the orchestrator; readers
// always receive a consistent copy.
type IndexStatus struct {
	PassID        string     `json:"passId"` // identifies the current or most recent pass
	State         IndexState `json:"state"`
	Message       string     `json:"message"`
	Progress      float64    `json:"progress"` // 0..1
	TotalDocs     int        `json:"totalDocs"`
	ProcessedDocs int        `json:"processedDocs"`
}

// SearchOutcome is the transient result of one dynamic search: where the
// results came from, the formatted result text, and how many documents were
// newly scheduled for background ingestion.
type SearchOutcome struct {
	Source  string `json:"source"` // SourceLocal or SourceWeb
	Results string `json:"results"`
	NewDocs int    `json:"newDocs"`
}

// SearchOutcome sources.
const (
	SourceLocal = "local"
	SourceWeb   = "web"
)
