package apply

import (
	"io/fs"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"restamp/internal/errors"
)

// Applier writes a timestamp onto a path. Implementations take tree-relative
// slash paths, same as every other part of the pipeline.
type Applier interface {
	Apply(rel string, t time.Time) error
}

// Local writes atime and mtime onto files under root, without following
// symlinks where the platform can avoid it.
type Local struct {
	root string
	log  *zap.Logger
}

func NewLocal(root string, log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{root: root, log: log}
}

func (l *Local) Apply(rel string, t time.Time) error {
	path := l.root
	if rel != "." {
		path = filepath.Join(l.root, filepath.FromSlash(rel))
	}
	if err := setTimes(path, t); err != nil {
		return errors.Apply(rel, err)
	}
	return nil
}

// DryRun satisfies Applier without touching anything.
type DryRun struct{}

func (DryRun) Apply(string, time.Time) error { return nil }

// Reason classifies an apply failure for logs and counters.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist):
		return "missing"
	case errors.Is(err, fs.ErrPermission):
		return "permission"
	default:
		return "error"
	}
}

// IsNotExist reports whether the failure means the path is gone, which a
// run treats as a skip rather than an error for directories.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
