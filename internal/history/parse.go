package history

import (
	"strconv"
	"strings"

	"restamp/internal/errors"
)

// voidMode is the mode git prints for a side of the change that has no
// content behind it.
const voidMode = "000000"

// ParseRecord parses one raw change line of the form
//
//	:100644 100644 OLDREV NEWREV K\tPATH
//
// Rename and copy records carry two path fields; the final one is the path
// that exists afterwards and is the one kept. Unparseable lines return an
// error and are counted by the caller, never fatal.
func ParseRecord(line string) (ChangeRecord, error) {
	var rec ChangeRecord

	tab := strings.IndexByte(line, '\t')
	if tab < 0 {
		return rec, errors.Parse("change record without path field")
	}

	head := strings.Fields(strings.TrimLeft(line[:tab], ":"))
	path := lastPathToken(line[tab+1:])
	if path == "" {
		return rec, errors.Parse("change record with empty path")
	}

	if len(head) < 5 {
		return rec, errors.Parse("change record with short header")
	}

	kind, ok := kindOf(head[len(head)-1])
	if !ok {
		return rec, errors.Parse("change record with unknown kind " + strconv.Quote(head[len(head)-1]))
	}

	rec = ChangeRecord{Path: path, Kind: kind}

	// Combined diffs for merges carry extra mode and rev columns; those
	// never mark synthetic records, so modes and revs are read only from
	// the plain five-field shape.
	if len(head) == 5 {
		newMode := head[1]
		oldRev, newRev := head[2], head[3]

		rec.SyntheticWholeTree = kind == KindAdded && newMode == voidMode && zeroRev(newRev)

		switch {
		case !zeroRev(newRev):
			rec.RevID = newRev
		case !zeroRev(oldRev):
			rec.RevID = oldRev
		}
	}

	return rec, nil
}

// lastPathToken takes the final tab-separated token and unquotes it when
// git quoted a name with special characters in it.
func lastPathToken(s string) string {
	if i := strings.LastIndexByte(s, '\t'); i >= 0 {
		s = s[i+1:]
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
	}
	return s
}

func kindOf(status string) (Kind, bool) {
	if status == "" {
		return "", false
	}
	switch status[0] {
	case 'A':
		return KindAdded, true
	case 'M', 'T':
		return KindModified, true
	case 'D':
		return KindDeleted, true
	case 'R', 'C':
		// Not produced under --no-renames but tolerated.
		return KindModified, true
	default:
		return "", false
	}
}

func zeroRev(rev string) bool {
	if rev == "" {
		return true
	}
	for i := 0; i < len(rev); i++ {
		if rev[i] != '0' {
			return false
		}
	}
	return true
}
