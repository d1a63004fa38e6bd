package ipc

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	PID int `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool   `json:"running"`
	WatchRoot    string `json:"watch_root"`
	JournalPath  string `json:"journal_path"`
	LockFilePath string `json:"lock_file_path"`
	PID          int    `json:"pid"`
	Total        int    `json:"total"`
	Completed    int    `json:"completed"`
	Failed       int    `json:"failed"`
}

// HistoryRequest fetches recent journal records.
type HistoryRequest struct {
	Limit int `json:"limit"`
}

// HistoryRecord mirrors a journal record for IPC callers.
type HistoryRecord struct {
	ID           int64  `json:"id"`
	SourcePath   string `json:"source_path"`
	FinalPath    string `json:"final_path"`
	ResolvedDate string `json:"resolved_date"`
	DateSource   string `json:"date_source"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	CreatedAt    string `json:"created_at"`
}

// HistoryResponse contains recent journal records, newest first.
type HistoryResponse struct {
	Records []HistoryRecord `json:"records"`
}
