// internal/gitcmd/gitcmd.go
package gitcmd

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"restamp/internal/errors"
)

// Runner executes git against one repository. Dir anchors relative paths;
// GitDir and WorkTree pass explicit locations through when the caller knows
// better than discovery.
type Runner struct {
	Dir      string
	GitDir   string
	WorkTree string

	log *zap.Logger
}

func New(dir, gitDir, workTree string, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Dir: dir, GitDir: gitDir, WorkTree: workTree, log: log}
}

// base prefixes every invocation. Quoting is disabled so paths arrive as
// raw bytes instead of escaped octal.
func (r *Runner) base(args ...string) []string {
	out := []string{"-c", "core.quotepath=false"}
	if r.Dir != "" {
		out = append(out, "-C", r.Dir)
	}
	if r.GitDir != "" {
		out = append(out, "--git-dir", r.GitDir)
	}
	if r.WorkTree != "" {
		out = append(out, "--work-tree", r.WorkTree)
	}
	return append(out, args...)
}

func (r *Runner) output(args ...string) (string, error) {
	cmd := exec.Command("git", r.base(args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Git(fmt.Sprintf("git %s: %s", args[0], msg), err)
	}
	return string(out), nil
}

// Toplevel locates the work tree root and the metadata directory.
func (r *Runner) Toplevel() (root string, gitDir string, err error) {
	out, err := r.output("rev-parse", "--show-toplevel", "--absolute-git-dir")
	if err != nil {
		return "", "", errors.Precondition("no version-controlled tree found: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 || lines[0] == "" {
		return "", "", errors.Precondition("repository has no work tree")
	}
	return strings.TrimSpace(lines[0]), strings.TrimSpace(lines[1]), nil
}
