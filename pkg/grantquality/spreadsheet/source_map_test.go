package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
)

const sourceMapJSON = `{
	"grants/0/title": [["grants", "C", 2, "Title"]],
	"grants/0/amountAwarded": [["grants", "F", 2, "Amount Awarded"], ["other", "A", 9, "Amount"]],
	"grants/0": [["grants", 2]],
	"grants/1/title": []
}`

func TestParseSourceMap(t *testing.T) {
	m, err := ParseSourceMap([]byte(sourceMapJSON))
	require.NoError(t, err)

	assert.Len(t, m["grants/0/amountAwarded"], 2)
	assert.Equal(t, SourceEntry{Sheet: "grants", Row: 2}, m["grants/0"][0])

	loc, ok := m.Resolve("grants/0/amountAwarded")
	require.True(t, ok)
	assert.Equal(t, models.SpreadsheetLocation{Sheet: "grants", Letter: "F", RowNumber: 2, Header: "Amount Awarded"}, loc)

	_, ok = m.Resolve("grants/1/title")
	assert.False(t, ok)
	_, ok = m.Resolve("grants/9/title")
	assert.False(t, ok)
}

func TestParseSourceMapErrors(t *testing.T) {
	_, err := ParseSourceMap([]byte(`[1, 2]`))
	assert.Error(t, err)

	_, err = ParseSourceMap([]byte(`{"a": `))
	assert.Error(t, err)
}

func TestResolveAll(t *testing.T) {
	m, err := ParseSourceMap([]byte(sourceMapJSON))
	require.NoError(t, err)

	locs, ok := m.ResolveAll([]string{"grants/0/title", "grants/0"})
	require.True(t, ok)
	assert.Equal(t, []models.SpreadsheetLocation{
		{Sheet: "grants", Letter: "C", RowNumber: 2, Header: "Title"},
		{Sheet: "grants", RowNumber: 2},
	}, locs)

	locs, ok = m.ResolveAll([]string{"grants/0/title", "grants/3/title"})
	assert.False(t, ok)
	assert.Nil(t, locs)

	var empty SourceMap
	locs, ok = empty.ResolveAll(nil)
	assert.True(t, ok)
	assert.Empty(t, locs)
}

func TestLoadSourceMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cell_source_map.json")
	require.NoError(t, os.WriteFile(path, []byte(sourceMapJSON), 0o600))

	m, err := LoadSourceMap(path)
	require.NoError(t, err)
	// Pointers without any origin are dropped.
	assert.Len(t, m, 3)

	_, err = LoadSourceMap(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
