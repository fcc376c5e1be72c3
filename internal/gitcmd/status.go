package gitcmd

import "strings"

// StatusEntry is one line of porcelain status: the two-character code and
// the path it applies to.
type StatusEntry struct {
	Code string
	Path string
}

// Untracked reports code ??, a file git does not know.
func (e StatusEntry) Untracked() bool { return e.Code == "??" }

// Ignored reports code !!, a file git was told to ignore.
func (e StatusEntry) Ignored() bool { return e.Code == "!!" }

// Dirty reports an uncommitted change to a tracked file.
func (e StatusEntry) Dirty() bool { return !e.Untracked() && !e.Ignored() }

// Status lists the working tree state, ignored files included. NUL
// termination keeps odd file names intact.
func (r *Runner) Status() ([]StatusEntry, error) {
	out, err := r.output("status", "--porcelain", "-z", "--ignored")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}

func parseStatus(out string) []StatusEntry {
	var entries []StatusEntry

	tokens := strings.Split(out, "\x00")
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if len(tok) < 4 || tok[2] != ' ' {
			continue
		}
		code := tok[:2]
		entries = append(entries, StatusEntry{Code: code, Path: tok[3:]})

		// Rename and copy entries carry the source path as an extra
		// NUL-separated token.
		if code[0] == 'R' || code[0] == 'C' || code[1] == 'R' || code[1] == 'C' {
			i++
		}
	}
	return entries
}
