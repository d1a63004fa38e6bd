package journal

import "time"

// Status records the outcome of one pipeline run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is one processed creation event, persisted for the history views.
type Record struct {
	ID           int64
	EventID      string
	SourcePath   string
	FinalPath    string
	Extension    string
	ResolvedDate string
	DateSource   string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
}

// Summary aggregates journal counts for status reporting.
type Summary struct {
	Total     int
	Completed int
	Failed    int
}
