// Value types shared across the restore pipeline.
package shared

import "time"

// Summary collects the run counters reported when a restore finishes.
// Counters are orthogonal: a file lands in exactly one of updated, skipped,
// missing or errored, and ignored files never enter the scan at all.
type Summary struct {
	RunID string `json:"run_id"`

	TotalFiles   int `json:"total_files"`
	IgnoredFiles int `json:"ignored_files"`
	SkippedFiles int `json:"skipped_files"`
	UpdatedFiles int `json:"updated_files"`
	MissingFiles int `json:"missing_files"`
	ApplyErrors  int `json:"apply_errors"`
	UpdatedDirs  int `json:"updated_dirs"`

	Commits          int `json:"commits"`
	LogRecords       int `json:"log_records"`
	MalformedRecords int `json:"malformed_records"`

	DryRun  bool          `json:"dry_run"`
	Elapsed time.Duration `json:"elapsed"`
}

// Candidates returns how many files the scan actually had to answer for.
func (s Summary) Candidates() int {
	return s.TotalFiles - s.IgnoredFiles - s.SkippedFiles
}

// Clean reports whether every candidate file got a timestamp applied.
func (s Summary) Clean() bool {
	return s.MissingFiles == 0 && s.ApplyErrors == 0
}
