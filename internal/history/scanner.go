package history

import (
	"bufio"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// maxLineBytes bounds a single raw line. Paths are the only unbounded part
// and a megabyte covers anything a filesystem accepts.
const maxLineBytes = 1 << 20

// ScanStats counts what a Scanner consumed, whether or not the scan ran to
// the end of the stream.
type ScanStats struct {
	Lines     int
	Commits   int
	Malformed int
}

// Scanner turns the raw log byte stream into entries, lazily. It reads just
// far enough ahead to know an entry is complete: an entry is emitted when
// the next entry's timestamp line (or the end of the stream) is seen.
type Scanner struct {
	scanner *bufio.Scanner
	cur     *Entry
	stats   ScanStats
	done    bool
	log     *zap.Logger
}

func NewScanner(r io.Reader, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Scanner{scanner: s, log: log}
}

func (s *Scanner) Next() (*Entry, error) {
	if s.done {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		s.stats.Lines++

		if line == "" {
			continue
		}

		if line[0] == ':' {
			rec, err := ParseRecord(line)
			if err != nil || s.cur == nil {
				s.stats.Malformed++
				s.log.Debug("skipping malformed record line",
					zap.String("line", line),
					zap.Error(err))
				continue
			}
			s.cur.Records = append(s.cur.Records, rec)
			continue
		}

		epoch, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			s.stats.Malformed++
			s.log.Debug("skipping unrecognized log line", zap.String("line", line))
			continue
		}
		s.stats.Commits++

		next := &Entry{Time: time.Unix(epoch, 0)}
		if s.cur != nil {
			out := s.cur
			s.cur = next
			return out, nil
		}
		s.cur = next
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	if s.cur != nil {
		out := s.cur
		s.cur = nil
		return out, nil
	}
	return nil, io.EOF
}

// Stats reports consumption counters so far.
func (s *Scanner) Stats() ScanStats {
	return s.stats
}

// Stop satisfies Source for scanners over plain readers. Byte streams with
// a process behind them wrap this and kill it there.
func (s *Scanner) Stop() {
	s.done = true
}
