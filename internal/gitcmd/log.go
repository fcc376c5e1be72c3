package gitcmd

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"

	"restamp/internal/errors"
	"restamp/internal/history"
)

// LogView selects which history traversal feeds a scan.
type LogView struct {
	Merge       bool // include per-parent merge diffs (-m)
	FirstParent bool
	CommitTime  bool // committer date instead of author date
	Paths       []string
}

// LogArgs builds the argument list for a history scan, exported so tests
// can pin the wire contract without running git.
func LogArgs(view LogView) []string {
	format := "--pretty=%at"
	if view.CommitTime {
		format = "--pretty=%ct"
	}
	args := []string{"log", format, "--raw", "--no-renames", "--no-abbrev", "--no-color"}
	if view.Merge {
		args = append(args, "-m")
	}
	if view.FirstParent {
		args = append(args, "--first-parent")
	}
	if len(view.Paths) > 0 {
		args = append(args, "--")
		args = append(args, view.Paths...)
	}
	return args
}

// LogStream is a running history subprocess plus the scanner over its
// output. It satisfies history.Source; Stop kills the producer so an early
// answer never waits for the rest of a long history.
type LogStream struct {
	*history.Scanner

	cmd      *exec.Cmd
	stderr   *bytes.Buffer
	stopOnce sync.Once
	log      *zap.Logger
}

// StartLog launches the history subprocess for the given view. A launch
// failure means no scan can happen at all.
func (r *Runner) StartLog(view LogView) (*LogStream, error) {
	cmd := exec.Command("git", r.base(LogArgs(view)...)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Git("opening history pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Precondition("starting history scan: %v", err)
	}

	r.log.Debug("history subprocess started",
		zap.Strings("args", LogArgs(view)),
		zap.Int("pid", cmd.Process.Pid))

	return &LogStream{
		Scanner: history.NewScanner(pipe, r.log),
		cmd:     cmd,
		stderr:  &stderr,
		log:     r.log,
	}, nil
}

// Stop kills the subprocess if it is still running and reaps it. Safe to
// call any number of times; the usual caller is a deferred cleanup that
// fires whether the scan ended early or drained the stream.
func (ls *LogStream) Stop() {
	ls.stopOnce.Do(func() {
		ls.Scanner.Stop()

		if ls.cmd.Process != nil {
			if err := ls.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				ls.log.Debug("killing history subprocess", zap.Error(err))
			}
		}

		err := ls.cmd.Wait()
		if err == nil {
			return
		}

		// Exited on its own with a failure code: worth a warning. Died
		// from our kill: routine teardown.
		var exit *exec.ExitError
		if errors.As(err, &exit) && exit.ProcessState.Exited() {
			ls.log.Warn("history subprocess failed",
				zap.Int("code", exit.ProcessState.ExitCode()),
				zap.String("stderr", strings.TrimSpace(ls.stderr.String())))
			return
		}
		ls.log.Debug("history subprocess reaped", zap.Error(err))
	})
}
