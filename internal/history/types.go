package history

import (
	"io"
	"time"
)

// Kind classifies what a change record did to its path.
type Kind string

const (
	KindAdded    Kind = "added"
	KindModified Kind = "modified"
	KindDeleted  Kind = "deleted"
)

// ChangeRecord is one file touched by one history entry.
//
// RevID identifies the content the record refers to: the post-change blob
// when one exists, otherwise the pre-change blob. SyntheticWholeTree marks
// the degenerate add-from-nothing records produced by grafted or rewritten
// root commits; their dates say nothing about when the file really changed.
type ChangeRecord struct {
	Path               string
	Kind               Kind
	RevID              string
	SyntheticWholeTree bool
}

// Entry is one commit worth of history: its timestamp plus every change
// record it carries. Streams yield entries newest first.
type Entry struct {
	Time    time.Time
	Records []ChangeRecord
}

// Source yields history entries newest first. Next returns io.EOF when the
// history is exhausted. Stop tears the source down before exhaustion and
// must be safe to call any number of times, including after Next saw EOF.
type Source interface {
	Next() (*Entry, error)
	Stop()
}

// SliceSource serves a fixed entry list, for tests and replays.
type SliceSource struct {
	entries []Entry
	pos     int
	stopped bool
}

func NewSliceSource(entries []Entry) *SliceSource {
	return &SliceSource{entries: entries}
}

func (s *SliceSource) Next() (*Entry, error) {
	if s.stopped || s.pos >= len(s.entries) {
		return nil, io.EOF
	}
	e := s.entries[s.pos]
	s.pos++
	return &e, nil
}

func (s *SliceSource) Stop() {
	s.stopped = true
}

// Served reports how many entries were consumed before the source stopped.
func (s *SliceSource) Served() int {
	return s.pos
}
