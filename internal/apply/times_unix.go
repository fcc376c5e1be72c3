//go:build unix

package apply

import (
	"time"

	"golang.org/x/sys/unix"
)

// setTimes stamps atime and mtime without following symlinks, so a link's
// own times change rather than its target's.
func setTimes(path string, t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	return unix.Lutimes(path, []unix.Timeval{tv, tv})
}
