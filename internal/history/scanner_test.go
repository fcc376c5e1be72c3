package history

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `1700000300
:100644 100644 ab12cd ef34ab M	a.txt
:100644 000000 ab12cd 000000 D	b.txt

1700000200
:000000 100644 000000 cd56ef A	a.txt
`

func TestScanner(t *testing.T) {
	t.Run("TwoEntriesNewestFirst", func(t *testing.T) {
		s := NewScanner(strings.NewReader(sampleLog), nil)

		first, err := s.Next()
		require.NoError(t, err)
		assert.True(t, first.Time.Equal(time.Unix(1700000300, 0)))
		require.Len(t, first.Records, 2)
		assert.Equal(t, "a.txt", first.Records[0].Path)
		assert.Equal(t, KindDeleted, first.Records[1].Kind)

		second, err := s.Next()
		require.NoError(t, err)
		assert.True(t, second.Time.Equal(time.Unix(1700000200, 0)))
		require.Len(t, second.Records, 1)
		assert.Equal(t, KindAdded, second.Records[0].Kind)

		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)

		stats := s.Stats()
		assert.Equal(t, 2, stats.Commits)
		assert.Equal(t, 0, stats.Malformed)
	})

	t.Run("EntryWithoutRecords", func(t *testing.T) {
		s := NewScanner(strings.NewReader("1700000100\n\n1700000000\n"), nil)

		first, err := s.Next()
		require.NoError(t, err)
		assert.Empty(t, first.Records)

		second, err := s.Next()
		require.NoError(t, err)
		assert.True(t, second.Time.Equal(time.Unix(1700000000, 0)))

		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("MalformedLinesSkipped", func(t *testing.T) {
		in := strings.Join([]string{
			":100644 100644 aa bb M\torphan.txt", // record before any header
			"not a timestamp",
			"1700000100",
			":100644 100644 aa bb Z\tbadkind.txt",
			":100644 100644 aa bb M\tgood.txt",
			"",
		}, "\n")
		s := NewScanner(strings.NewReader(in), nil)

		entry, err := s.Next()
		require.NoError(t, err)
		require.Len(t, entry.Records, 1)
		assert.Equal(t, "good.txt", entry.Records[0].Path)

		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)

		stats := s.Stats()
		assert.Equal(t, 1, stats.Commits)
		assert.Equal(t, 3, stats.Malformed)
	})

	t.Run("Empty", func(t *testing.T) {
		s := NewScanner(strings.NewReader(""), nil)
		_, err := s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("StopEndsStream", func(t *testing.T) {
		s := NewScanner(strings.NewReader(sampleLog), nil)

		_, err := s.Next()
		require.NoError(t, err)

		s.Stop()
		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)

		s.Stop() // idempotent
	})
}
