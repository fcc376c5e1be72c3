// internal/restore/restore.go
package restore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restamp/internal/apply"
	"restamp/internal/config"
	"restamp/internal/dirstamp"
	"restamp/internal/engine"
	"restamp/internal/errors"
	"restamp/internal/gitcmd"
	"restamp/internal/workspace"
	"restamp/shared/types"
	"restamp/shared/utils"
)

// Options is the effective settings of one run, config file and flags
// already merged by the caller.
type Options struct {
	Patterns []string
	WorkTree string
	GitDir   string

	Force  bool
	DryRun bool

	Merge       bool
	FirstParent bool
	CommitTime  bool
	SkipMissing bool
	Directories bool

	SkipOlderThan int64 // seconds; 0 disables the age guard
	BatchSize     int
}

// Restorer wires the pipeline together and runs it once: enumerate, scan,
// apply, retry, stamp directories, report.
type Restorer struct {
	opts    Options
	runID   string
	logger  *zap.Logger
	applier apply.Applier
	dirs    *dirstamp.Aggregator
	summary shared.Summary
}

func New(opts Options, logger *zap.Logger) *Restorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = config.DefaultBatchSize
	}

	runID := uuid.NewString()[:8]
	return &Restorer{
		opts:   opts,
		runID:  runID,
		logger: logger.With(zap.String("run_id", runID)),
	}
}

// Run executes the whole restore. The returned summary is valid whenever
// the error is nil; precondition failures return only the error.
func (r *Restorer) Run() (*shared.Summary, error) {
	start := time.Now()
	r.summary = shared.Summary{RunID: r.runID, DryRun: r.opts.DryRun}

	runner := gitcmd.New(r.opts.WorkTree, r.opts.GitDir, r.opts.WorkTree, r.logger)
	ws, err := workspace.NewLocal(runner, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("work tree located",
		zap.String("root", ws.Root),
		zap.String("git_dir", ws.GitDir))

	excluded, dirty, err := ws.StatusFilter()
	if err != nil {
		return nil, err
	}
	if len(dirty) > 0 && !r.opts.Force {
		return nil, errors.Precondition(
			"%d uncommitted changes in the way; commit or stash them, or use --force", len(dirty))
	}

	var cutoff time.Time
	if r.opts.SkipOlderThan > 0 {
		cutoff = time.Now().Add(-time.Duration(r.opts.SkipOlderThan) * time.Second)
	}
	found, skippedOld, err := ws.Enumerate(r.opts.Patterns, cutoff)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]struct{}, len(found))
	for p := range found {
		if excluded.Match(p) {
			r.summary.IgnoredFiles++
			continue
		}
		requested[p] = struct{}{}
	}
	r.summary.TotalFiles = len(found) + skippedOld
	r.summary.SkippedFiles = skippedOld

	r.dirs, err = dirstamp.New(dirstamp.Options{Root: ws.Root}, r.logger)
	if err != nil {
		return nil, err
	}
	if r.opts.DryRun {
		r.applier = apply.DryRun{}
	} else {
		r.applier = apply.NewLocal(ws.Root, r.logger)
	}

	if len(requested) == 0 {
		r.logger.Info("no files to restore")
		r.summary.Elapsed = time.Since(start)
		return &r.summary, nil
	}
	r.logger.Info("restoring timestamps",
		zap.Int("files", len(requested)),
		zap.Bool("dry_run", r.opts.DryRun))

	leftover, err := r.scan(ws, requested, gitcmd.LogView{
		Merge:       r.opts.Merge,
		FirstParent: r.opts.FirstParent,
		CommitTime:  r.opts.CommitTime,
		Paths:       r.opts.Patterns,
	})
	if err != nil {
		return nil, err
	}

	if len(leftover) > 0 && !r.opts.SkipMissing && !r.opts.Merge {
		leftover, err = r.retryMissing(ws, leftover)
		if err != nil {
			return nil, err
		}
	}

	if len(leftover) > 0 {
		r.summary.MissingFiles = len(leftover)
		for _, p := range utils.SortedKeys(leftover) {
			r.logger.Info("no history for file", zap.String("path", p))
		}
	}

	if r.opts.Directories {
		r.applyDirectories()
	}

	r.summary.Elapsed = time.Since(start)
	return &r.summary, nil
}

// scan runs one engine pass over one history view and folds the stream
// counters into the summary.
func (r *Restorer) scan(ws *workspace.Local, requested map[string]struct{}, view gitcmd.LogView) (map[string]struct{}, error) {
	stream, err := ws.Runner.StartLog(view)
	if err != nil {
		return nil, err
	}

	eng := engine.New(requested, r, r.logger)
	res, runErr := eng.Run(stream)

	stats := stream.Stats()
	r.summary.Commits += stats.Commits
	r.summary.LogRecords += stats.Lines
	r.summary.MalformedRecords += stats.Malformed

	if runErr != nil {
		return nil, fmt.Errorf("scanning history: %w", runErr)
	}
	r.logger.Debug("scan pass finished",
		zap.Int("entries", res.EntriesProcessed),
		zap.Int("resolved", len(res.Resolved)),
		zap.Int("pending", res.PendingCount()))

	return res.Pending, nil
}

// FileResolved applies a resolution the moment the scan produces it.
func (r *Restorer) FileResolved(path string, t time.Time) {
	r.dirs.ObserveFile(path, t)

	if err := r.applier.Apply(path, t); err != nil {
		r.summary.ApplyErrors++
		r.logger.Warn("failed to set file times",
			zap.String("path", path),
			zap.String("reason", apply.Reason(err)),
			zap.Error(err))
		return
	}

	r.summary.UpdatedFiles++
	if r.opts.DryRun {
		r.logger.Info("would set file times",
			zap.String("path", path),
			zap.Time("mtime", t))
	} else {
		r.logger.Debug("file times set",
			zap.String("path", path),
			zap.Time("mtime", t))
	}
}

// PathDeleted feeds deletions of unrequested paths to the directory map.
func (r *Restorer) PathDeleted(path string, t time.Time) {
	r.dirs.ObserveDeleted(path, t)
}

// applyDirectories stamps the accumulated directory times, deepest paths
// first. A directory gone by now is a skip, not a failure.
func (r *Restorer) applyDirectories() {
	snapshot := r.dirs.Snapshot()
	keys := utils.SortedKeys(snapshot)

	for i := len(keys) - 1; i >= 0; i-- {
		dir := keys[i]
		if err := r.applier.Apply(dir, snapshot[dir]); err != nil {
			if apply.IsNotExist(err) {
				r.logger.Debug("directory vanished before stamping",
					zap.String("path", dir))
				continue
			}
			r.summary.ApplyErrors++
			r.logger.Warn("failed to set directory times",
				zap.String("path", dir),
				zap.Error(err))
			continue
		}
		r.summary.UpdatedDirs++
	}
}
