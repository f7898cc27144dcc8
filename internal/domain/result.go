package domain

// LineError is a single parse error inside a spec file
type LineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// FileIssue groups the parse errors of one spec file
type FileIssue struct {
	FilePath string      `json:"file_path"`
	Errors   []LineError `json:"errors"`
	Resolved bool        `json:"resolved,omitempty"` // Marked as fixed in the errors viewer
}

// RunMeta contains metadata about a sync run
type RunMeta struct {
	Command         string  `json:"command"`
	TotalFiles      int     `json:"total_files"`
	FailedFiles     int     `json:"failed_files"`
	Exported        int     `json:"exported"`
	Created         int     `json:"created"`
	Updated         int     `json:"updated"`
	Skipped         int     `json:"skipped"`
	DryRun          bool    `json:"dry_run,omitempty"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// RunReport is the persisted outcome of the last run
type RunReport struct {
	Meta    RunMeta     `json:"meta"`
	Details []FileIssue `json:"details"`
}
