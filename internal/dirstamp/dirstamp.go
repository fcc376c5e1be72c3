// internal/dirstamp/dirstamp.go
package dirstamp

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"restamp/shared/utils"
)

// Aggregator folds file observations into directory timestamps: every
// ancestor of an observed path, up to and including the tree root ".",
// carries the newest timestamp seen beneath it.
type Aggregator struct {
	root   string
	times  map[string]time.Time
	exists *lru.Cache[string, bool] // Stat results; ancestor walks repeat dirs constantly
	log    *zap.Logger
}

// Options configures Aggregator behavior
type Options struct {
	Root      string // Absolute work tree path, for existence checks
	CacheSize int    // Number of stat results to cache
}

// New creates a new Aggregator instance
func New(opts Options, log *zap.Logger) (*Aggregator, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if opts.CacheSize == 0 {
		opts.CacheSize = 1024
	}
	if log == nil {
		log = zap.NewNop()
	}

	cache, err := lru.New[string, bool](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating stat cache: %w", err)
	}

	return &Aggregator{
		root:   opts.Root,
		times:  make(map[string]time.Time),
		exists: cache,
		log:    log,
	}, nil
}

// ObserveFile records a resolved file. Its ancestors all exist, so entries
// are created freely.
func (a *Aggregator) ObserveFile(path string, t time.Time) {
	for _, dir := range utils.Ancestors(path) {
		if !a.touch(dir, t) {
			a.times[dir] = t
		}
	}
}

// ObserveDeleted records a path that history deleted. The deletion still
// dates the directories around it, but only directories that are present
// on disk right now get new entries; the rest would be timestamps for
// nothing.
func (a *Aggregator) ObserveDeleted(path string, t time.Time) {
	for _, dir := range utils.Ancestors(path) {
		if a.touch(dir, t) {
			continue
		}
		if a.dirExists(dir) {
			a.times[dir] = t
		}
	}
}

// touch raises an existing entry to t if t is newer, reporting whether the
// entry existed. Timestamps only ever move forward.
func (a *Aggregator) touch(dir string, t time.Time) bool {
	cur, ok := a.times[dir]
	if !ok {
		return false
	}
	if t.After(cur) {
		a.times[dir] = t
	}
	return true
}

func (a *Aggregator) dirExists(dir string) bool {
	if v, ok := a.exists.Get(dir); ok {
		return v
	}
	p := a.root
	if dir != "." {
		p = filepath.Join(a.root, filepath.FromSlash(dir))
	}
	info, err := os.Stat(p)
	present := err == nil && info.IsDir()
	a.exists.Add(dir, present)
	return present
}

// Len reports how many directories carry a timestamp.
func (a *Aggregator) Len() int {
	return len(a.times)
}

// Snapshot copies the accumulated directory timestamps.
func (a *Aggregator) Snapshot() map[string]time.Time {
	out := make(map[string]time.Time, len(a.times))
	for dir, t := range a.times {
		out[dir] = t
	}
	return out
}
