//go:build !unix

package apply

import (
	"os"
	"time"
)

// setTimes falls back to Chtimes, which follows symlinks. Close enough on
// platforms without lutimes.
func setTimes(path string, t time.Time) error {
	return os.Chtimes(path, t, t)
}
