package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	t.Run("Modified", func(t *testing.T) {
		rec, err := ParseRecord(":100644 100644 ab12cd ef34ab M\tpath/to/file.go")
		require.NoError(t, err)
		assert.Equal(t, "path/to/file.go", rec.Path)
		assert.Equal(t, KindModified, rec.Kind)
		assert.Equal(t, "ef34ab", rec.RevID)
		assert.False(t, rec.SyntheticWholeTree)
	})

	t.Run("Added", func(t *testing.T) {
		rec, err := ParseRecord(":000000 100644 000000 ef34ab A\tnew.txt")
		require.NoError(t, err)
		assert.Equal(t, KindAdded, rec.Kind)
		assert.Equal(t, "ef34ab", rec.RevID)
		assert.False(t, rec.SyntheticWholeTree)
	})

	t.Run("Deleted", func(t *testing.T) {
		rec, err := ParseRecord(":100644 000000 ab12cd 000000 D\tgone.txt")
		require.NoError(t, err)
		assert.Equal(t, KindDeleted, rec.Kind)
		assert.Equal(t, "ab12cd", rec.RevID)
		// Deletions share the void-new shape but are never synthetic.
		assert.False(t, rec.SyntheticWholeTree)
	})

	t.Run("SyntheticWholeTree", func(t *testing.T) {
		rec, err := ParseRecord(":100644 000000 ab12cd 000000 A\tgrafted.txt")
		require.NoError(t, err)
		assert.Equal(t, KindAdded, rec.Kind)
		assert.True(t, rec.SyntheticWholeTree)
		// The old rev carries the blob the record re-claims.
		assert.Equal(t, "ab12cd", rec.RevID)
	})

	t.Run("TypeChange", func(t *testing.T) {
		rec, err := ParseRecord(":100644 120000 ab12cd ef34ab T\tlinked")
		require.NoError(t, err)
		assert.Equal(t, KindModified, rec.Kind)
	})

	t.Run("RenameKeepsFinalPath", func(t *testing.T) {
		rec, err := ParseRecord(":100644 100644 ab12cd ef34ab R100\told.txt\tnew.txt")
		require.NoError(t, err)
		assert.Equal(t, "new.txt", rec.Path)
		assert.Equal(t, KindModified, rec.Kind)
	})

	t.Run("CombinedMergeDiff", func(t *testing.T) {
		rec, err := ParseRecord("::100644 100644 100644 aa bb cc MM\tboth.txt")
		require.NoError(t, err)
		assert.Equal(t, "both.txt", rec.Path)
		assert.Equal(t, KindModified, rec.Kind)
		// Extra columns never mark synthetic records.
		assert.False(t, rec.SyntheticWholeTree)
		assert.Empty(t, rec.RevID)
	})

	t.Run("QuotedPath", func(t *testing.T) {
		rec, err := ParseRecord(":100644 100644 ab12cd ef34ab M\t\"sp ace.txt\"")
		require.NoError(t, err)
		assert.Equal(t, "sp ace.txt", rec.Path)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, line := range []string{
			"no tab at all",
			":100644 M\tshort.txt",
			":100644 100644 ab12cd ef34ab Z\tunknown.txt",
			":100644 100644 ab12cd ef34ab M\t",
		} {
			_, err := ParseRecord(line)
			assert.Error(t, err, "line %q", line)
		}
	})
}
