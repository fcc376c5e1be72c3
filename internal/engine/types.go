package engine

import (
	"time"
)

// Sink receives what a scan decides, the moment it is decided. Resolutions
// stream out one by one so timestamps can be applied while the subprocess
// is still producing history.
type Sink interface {
	// FileResolved fires exactly once per requested file, with the moment
	// history last touched it.
	FileResolved(path string, t time.Time)

	// PathDeleted fires for deletions of paths outside the pending set,
	// which matter only to directory timestamps.
	PathDeleted(path string, t time.Time)
}

// readdRecord holds a suspect add-from-nothing sighting until an older
// record for the same path settles what it meant.
type readdRecord struct {
	rev  string
	time time.Time
}

// Result is the outcome of one scan pass.
type Result struct {
	Resolved map[string]time.Time
	Pending  map[string]struct{}

	EntriesProcessed int
	RecordsEvaluated int
	ReaddsFinalized  int
}

// PendingCount reports how many requested files the pass left unanswered.
func (r *Result) PendingCount() int {
	return len(r.Pending)
}
