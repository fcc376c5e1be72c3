package gitcmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogArgs(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		assert.Equal(t,
			[]string{"log", "--pretty=%at", "--raw", "--no-renames", "--no-abbrev", "--no-color"},
			LogArgs(LogView{}))
	})

	t.Run("CommitTime", func(t *testing.T) {
		args := LogArgs(LogView{CommitTime: true})
		assert.Contains(t, args, "--pretty=%ct")
		assert.NotContains(t, args, "--pretty=%at")
	})

	t.Run("MergeView", func(t *testing.T) {
		assert.Contains(t, LogArgs(LogView{Merge: true}), "-m")
		assert.NotContains(t, LogArgs(LogView{}), "-m")
	})

	t.Run("FirstParent", func(t *testing.T) {
		assert.Contains(t, LogArgs(LogView{FirstParent: true}), "--first-parent")
	})

	t.Run("PathsAfterSeparator", func(t *testing.T) {
		args := LogArgs(LogView{Paths: []string{"a.txt", "sub/b.txt"}})
		assert.Equal(t, []string{"--", "a.txt", "sub/b.txt"}, args[len(args)-3:])
	})
}

// stubGit puts a fake git on PATH that streams history entries forever, so
// only a kill can end it.
func stubGit(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	script := `#!/bin/sh
i=1700000000
while :; do
	echo $i
	printf ':100644 100644 ab12cd ef34ab M\tfile.txt\n'
	echo
	i=$((i-100))
	sleep 0.01
done
`
	path := filepath.Join(dir, "git")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestLogStreamStopKillsProducer(t *testing.T) {
	stubGit(t)

	runner := New("", "", "", nil)
	stream, err := runner.StartLog(LogView{})
	require.NoError(t, err)

	first, err := stream.Next()
	require.NoError(t, err)
	assert.True(t, first.Time.Equal(time.Unix(1700000000, 0)))
	require.Len(t, first.Records, 1)
	assert.Equal(t, "file.txt", first.Records[0].Path)

	// Stop must kill and reap the endless producer; a hang here fails the
	// test by timeout. A second Stop is a no-op.
	stream.Stop()
	stream.Stop()

	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLogStreamDrainsShortHistory(t *testing.T) {
	dir := t.TempDir()
	script := `#!/bin/sh
printf '1700000300\n'
printf ':100644 100644 ab12cd ef34ab M\ta.txt\n'
printf '\n1700000200\n'
printf ':000000 100644 000000 cd56ef A\ta.txt\n'
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "git"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	runner := New("", "", "", nil)
	stream, err := runner.StartLog(LogView{})
	require.NoError(t, err)
	defer stream.Stop()

	var times []int64
	for {
		entry, err := stream.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		times = append(times, entry.Time.Unix())
	}

	assert.Equal(t, []int64{1700000300, 1700000200}, times)
	assert.Equal(t, 2, stream.Stats().Commits)
}
