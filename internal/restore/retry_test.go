package restore

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restamp/internal/gitcmd"
	"restamp/internal/workspace"
)

func TestBatchPaths(t *testing.T) {
	paths := make([]string, 7)
	for i := range paths {
		paths[i] = fmt.Sprintf("file-%d.txt", i)
	}

	t.Run("SizeOne", func(t *testing.T) {
		batches := batchPaths(paths, 1)
		require.Len(t, batches, 7)
		for i, b := range batches {
			assert.Equal(t, []string{paths[i]}, b)
		}
	})

	t.Run("SizeThree", func(t *testing.T) {
		batches := batchPaths(paths, 3)
		require.Len(t, batches, 3)
		assert.Len(t, batches[0], 3)
		assert.Len(t, batches[1], 3)
		assert.Len(t, batches[2], 1)
	})

	t.Run("SizeBeyondSet", func(t *testing.T) {
		batches := batchPaths(paths, 100)
		require.Len(t, batches, 1)
		assert.Equal(t, paths, batches[0])
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, batchPaths(nil, 3))
	})

	t.Run("DegenerateSize", func(t *testing.T) {
		batches := batchPaths(paths[:2], 0)
		require.Len(t, batches, 2)
	})

	t.Run("NoLossNoDuplication", func(t *testing.T) {
		for _, size := range []int{1, 2, 3, 7, 100} {
			seen := make(map[string]int)
			for _, b := range batchPaths(paths, size) {
				for _, p := range b {
					seen[p]++
				}
			}
			require.Len(t, seen, len(paths), "size %d", size)
			for p, n := range seen {
				assert.Equal(t, 1, n, "size %d path %s", size, p)
			}
		}
	})
}

// putStubGit places a fake git on PATH whose merge history adds b.txt at
// t=150 and c.txt at t=140, whatever it is asked.
func putStubGit(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	script := `#!/bin/sh
printf '150\n'
printf ':000000 100644 000000 bb11 A\tb.txt\n'
printf '\n140\n'
printf ':000000 100644 000000 cc22 A\tc.txt\n'
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "git"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRetryMissing(t *testing.T) {
	putStubGit(t)

	leftover := map[string]struct{}{
		"b.txt": {},
		"c.txt": {},
		"d.txt": {},
	}

	// One scan per file or one scan for all: the outcome must be the same.
	for _, size := range []int{1, 100} {
		t.Run(fmt.Sprintf("BatchSize%d", size), func(t *testing.T) {
			r, root := setupRestorer(t, Options{BatchSize: size})
			for _, f := range []string{"b.txt", "c.txt"} {
				require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte(f), 0o644))
			}
			ws := &workspace.Local{
				Root:   root,
				GitDir: filepath.Join(root, ".git"),
				Runner: gitcmd.New(root, "", "", nil),
				Logger: zap.NewNop(),
			}

			remaining, err := r.retryMissing(ws, leftover)
			require.NoError(t, err)

			// Resolved plus still-missing is exactly the original set.
			require.Len(t, remaining, 1)
			assert.Contains(t, remaining, "d.txt")
			assert.Equal(t, 2, r.summary.UpdatedFiles)
			assert.Equal(t, 0, r.summary.ApplyErrors)

			info, err := os.Stat(filepath.Join(root, "b.txt"))
			require.NoError(t, err)
			assert.True(t, info.ModTime().Equal(time.Unix(150, 0)))

			info, err = os.Stat(filepath.Join(root, "c.txt"))
			require.NoError(t, err)
			assert.True(t, info.ModTime().Equal(time.Unix(140, 0)))
		})
	}
}
