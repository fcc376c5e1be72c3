// internal/engine/engine.go
package engine

import (
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"restamp/internal/history"
)

// Engine walks a newest-first history stream and assigns each requested
// file the timestamp of the first record that touches it. Because newer
// entries always arrive first, the first touch is the last change, and the
// stream can be abandoned as soon as nothing is left to answer.
type Engine struct {
	pending  map[string]struct{}
	readds   map[string]readdRecord
	resolved map[string]time.Time
	sink     Sink
	log      *zap.Logger

	entries int
	records int
	readded int
}

// New builds an engine over its own copy of the requested set.
func New(requested map[string]struct{}, sink Sink, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	pending := make(map[string]struct{}, len(requested))
	for p := range requested {
		pending[p] = struct{}{}
	}
	return &Engine{
		pending:  pending,
		readds:   make(map[string]readdRecord),
		resolved: make(map[string]time.Time),
		sink:     sink,
		log:      log,
	}
}

// Run consumes src until every requested file is answered or the stream
// runs out, whichever is first. The source is always stopped before Run
// returns, so an early answer kills the producer instead of draining it.
func (e *Engine) Run(src history.Source) (*Result, error) {
	defer src.Stop()

	for {
		entry, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e.result(), err
		}

		e.entries++
		for _, rec := range entry.Records {
			e.records++
			e.consume(rec, entry.Time)
		}

		if len(e.pending) == 0 && len(e.readds) == 0 {
			e.log.Debug("all files answered, stopping history scan",
				zap.Int("entries", e.entries))
			break
		}
	}

	e.finalizeReadds()
	return e.result(), nil
}

// consume applies one change record to the scan state.
func (e *Engine) consume(rec history.ChangeRecord, t time.Time) {
	if rec.SyntheticWholeTree {
		e.consumeSynthetic(rec, t)
		return
	}

	if _, ok := e.pending[rec.Path]; ok {
		delete(e.pending, rec.Path)
		e.resolve(rec.Path, t)
		return
	}

	if rr, ok := e.readds[rec.Path]; ok {
		delete(e.readds, rec.Path)
		if rec.Kind == history.KindAdded && rec.RevID != "" && rec.RevID == rr.rev {
			// The suspect sighting re-added this exact content, so the
			// real change is this older introduction.
			e.log.Debug("re-add reconciled to its source",
				zap.String("path", rec.Path),
				zap.Time("time", t))
			e.resolve(rec.Path, t)
		} else {
			// Content differed before the suspect sighting, so that
			// sighting was a genuine change after all.
			e.resolve(rec.Path, rr.time)
		}
		return
	}

	if rec.Kind == history.KindDeleted {
		e.sink.PathDeleted(rec.Path, t)
	}
}

// consumeSynthetic handles add-from-nothing records. They never resolve a
// file on their own; they park it until older history confirms or denies
// that the date means anything.
func (e *Engine) consumeSynthetic(rec history.ChangeRecord, t time.Time) {
	if _, ok := e.pending[rec.Path]; ok {
		delete(e.pending, rec.Path)
		e.readds[rec.Path] = readdRecord{rev: rec.RevID, time: t}
		e.log.Debug("synthetic whole-tree record parked",
			zap.String("path", rec.Path),
			zap.String("rev", rec.RevID))
		return
	}

	rr, ok := e.readds[rec.Path]
	if !ok {
		// Already resolved, or never requested. Either way this record
		// has nothing left to say about the file or its directories.
		return
	}

	if rec.RevID != "" && rec.RevID == rr.rev {
		// Same content claimed again further back; keep the older date
		// as the candidate and stay parked.
		rr.time = t
		e.readds[rec.Path] = rr
		return
	}

	// Different content behind the older claim: the newer sighting was a
	// real change.
	delete(e.readds, rec.Path)
	e.resolve(rec.Path, rr.time)
}

// finalizeReadds trusts whatever suspect sightings survived the whole
// stream. Order does not matter: paths are distinct and directory
// aggregation takes maxima.
func (e *Engine) finalizeReadds() {
	for path, rr := range e.readds {
		e.log.Debug("trusting unreconciled re-add",
			zap.String("path", path),
			zap.Time("time", rr.time))
		e.resolve(path, rr.time)
		e.readded++
	}
	e.readds = make(map[string]readdRecord)
}

func (e *Engine) resolve(path string, t time.Time) {
	e.resolved[path] = t
	e.sink.FileResolved(path, t)
}

func (e *Engine) result() *Result {
	pending := make(map[string]struct{}, len(e.pending)+len(e.readds))
	for p := range e.pending {
		pending[p] = struct{}{}
	}
	// Parked paths only stay here when a stream error cut the scan short;
	// a finished scan finalizes them first.
	for p := range e.readds {
		pending[p] = struct{}{}
	}
	resolved := make(map[string]time.Time, len(e.resolved))
	for p, t := range e.resolved {
		resolved[p] = t
	}
	return &Result{
		Resolved:         resolved,
		Pending:          pending,
		EntriesProcessed: e.entries,
		RecordsEvaluated: e.records,
		ReaddsFinalized:  e.readded,
	}
}
