// internal/workspace/local.go
package workspace

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"restamp/internal/errors"
	"restamp/internal/gitcmd"
	"restamp/shared/utils"
)

// Local is one discovered working tree: its root, its metadata directory,
// and a runner anchored at the root so every later git call and every
// relative path agree on what "relative" means.
type Local struct {
	Root   string
	GitDir string
	Runner *gitcmd.Runner
	Logger *zap.Logger
}

// NewLocal locates the working tree around the given runner and anchors a
// fresh runner at its root.
func NewLocal(runner *gitcmd.Runner, logger *zap.Logger) (*Local, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	root, gitDir, err := runner.Toplevel()
	if err != nil {
		return nil, err
	}

	return &Local{
		Root:   root,
		GitDir: gitDir,
		Runner: gitcmd.New(root, runner.GitDir, runner.WorkTree, logger),
		Logger: logger,
	}, nil
}

// shouldIgnore checks if a path belongs to repository metadata
func (w *Local) shouldIgnore(rel string) bool {
	if rel == "" || rel == "." {
		return true
	}
	if utils.HasComponent(rel, ".git") {
		return true
	}

	// A separate metadata directory placed inside the tree is metadata
	// all the same.
	if gitRel, err := filepath.Rel(w.Root, w.GitDir); err == nil {
		gitRel = filepath.ToSlash(gitRel)
		if gitRel != "" && !strings.HasPrefix(gitRel, "..") {
			if rel == gitRel || strings.HasPrefix(rel, gitRel+"/") {
				return true
			}
		}
	}

	return false
}

// Enumerate walks the tree and collects every file matching the patterns,
// as root-relative slash paths. Symlinks count as themselves and are never
// descended into. Files whose current mtime predates olderThan are dropped
// and counted instead.
func (w *Local) Enumerate(patterns []string, olderThan time.Time) (map[string]struct{}, int, error) {
	files := make(map[string]struct{})
	skipped := 0

	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		// Clean("") would turn an empty pathspec into ".", silently
		// selecting the whole tree; refuse it instead.
		if p == "" {
			return nil, 0, errors.Precondition("empty pathspec is not valid")
		}
		cleaned = append(cleaned, utils.NormalizePath(p))
	}

	err := filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.Logger.Warn("failed to walk path",
				zap.String("path", path),
				zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(w.Root, path)
		if err != nil {
			w.Logger.Warn("failed to get relative path",
				zap.String("path", path),
				zap.Error(err))
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if w.shouldIgnore(rel) {
				return fs.SkipDir
			}
			return nil
		}

		if w.shouldIgnore(rel) || !matches(cleaned, rel) {
			return nil
		}

		if !olderThan.IsZero() {
			info, err := d.Info()
			if err != nil {
				w.Logger.Warn("failed to get file info",
					zap.String("path", rel),
					zap.Error(err))
			} else if info.ModTime().Before(olderThan) {
				skipped++
				return nil
			}
		}

		files[rel] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking work tree: %w", err)
	}

	return files, skipped, nil
}

// matches decides whether rel is selected: a pattern names the file, a
// directory above it, or globs against the whole relative path.
func matches(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if p == "." || p == rel || strings.HasPrefix(rel, p+"/") {
			return true
		}
		if ok, err := filepath.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Exclusions is the set of paths the status provider ruled out. Untracked
// directories arrive as a single prefix entry covering everything below.
type Exclusions struct {
	exact    map[string]struct{}
	prefixes []string
}

func (e *Exclusions) Match(rel string) bool {
	if e == nil {
		return false
	}
	if _, ok := e.exact[rel]; ok {
		return true
	}
	for _, p := range e.prefixes {
		if strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

func (e *Exclusions) add(path string) {
	if strings.HasSuffix(path, "/") {
		e.prefixes = append(e.prefixes, path)
		return
	}
	e.exact[path] = struct{}{}
}

// StatusFilter asks git for the working tree state. Untracked and ignored
// paths come back as exclusions; anything else counts as a local
// modification the caller may refuse to run over.
func (w *Local) StatusFilter() (*Exclusions, []string, error) {
	entries, err := w.Runner.Status()
	if err != nil {
		return nil, nil, err
	}

	excl := &Exclusions{exact: make(map[string]struct{})}
	var dirty []string

	for _, e := range entries {
		switch {
		case e.Untracked() || e.Ignored():
			excl.add(e.Path)
		case e.Dirty():
			dirty = append(dirty, e.Path)
		}
	}

	w.Logger.Debug("status filter built",
		zap.Int("excluded", len(excl.exact)+len(excl.prefixes)),
		zap.Int("dirty", len(dirty)))

	return excl, dirty, nil
}
