package model

import "time"

// RunStatus represents the current state of an extraction run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records a single extraction invocation for history and auditing.
type Run struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final counters of a run.
type RunResult struct {
	Discovered   int    `json:"discovered"`
	Deduplicated int    `json:"deduplicated"`
	Qualified    int    `json:"qualified"`
	Exported     int    `json:"exported"`
	Error        string `json:"error,omitempty"`
}
