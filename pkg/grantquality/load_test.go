package grantquality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset(t *testing.T) {
	path := writeFile(t, "grants.json", `{"grants": [{"id": "360G-a"}]}`)

	data, err := LoadDataset(path)
	require.NoError(t, err)
	id, err := data.LookupString("grants", 0, "id")
	require.NoError(t, err)
	assert.Equal(t, "360G-a", id)
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	notJSON := writeFile(t, "broken.json", `{"grants": [`)
	notObject := writeFile(t, "list.json", `[{"id": "360G-a"}]`)

	loaders := map[string]func(string) error{
		"grants": func(p string) error {
			_, err := LoadDataset(p)
			return err
		},
		"cell source map": func(p string) error {
			_, err := LoadSourceMap(p)
			return err
		},
		"validation errors": func(p string) error {
			_, err := LoadValidationErrors(p)
			return err
		},
		"codelists": func(p string) error {
			_, err := LoadCodelists(p)
			return err
		},
	}
	for kind, load := range loaders {
		t.Run(kind, func(t *testing.T) {
			err := load(missing)
			assert.ErrorIs(t, err, ErrFileNotFound)
			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, kind, inputErr.Kind)
			assert.Equal(t, missing, inputErr.Path)

			assert.ErrorIs(t, load(notJSON), ErrInvalidJSON)
		})
	}

	_, err := LoadDataset(notObject)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Contains(t, err.Error(), "expected an object")
}

func TestLoadValidationErrors(t *testing.T) {
	path := writeFile(t, "errors.json", `[["{\"validator\":\"required\"}", [{"path": "grants/0"}]]]`)

	list, err := LoadValidationErrors(path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, `{"validator":"required"}`, list[0].ErrorJSON)
}

func TestLoadCodelists(t *testing.T) {
	path := writeFile(t, "codelists.json", `{
		"grants/currency": {"path": "grants", "field": "currency", "codelist": "currency.csv",
			"codelist_url": "https://example.org/currency.csv", "isopen": false, "values": ["XXX"]}
	}`)

	codelists, err := LoadCodelists(path)
	require.NoError(t, err)
	require.Contains(t, codelists, "grants/currency")
	assert.Equal(t, []string{"XXX"}, codelists["grants/currency"].Values)
	assert.False(t, codelists["grants/currency"].IsOpen)
}

func TestOpenWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "grants"))
	require.NoError(t, f.SetCellValue("grants", "A1", "Identifier"))
	path := filepath.Join(t.TempDir(), "grants.xlsx")
	require.NoError(t, f.SaveAs(path))

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()
	v, ok := wb.CellValue("grants", "A1")
	assert.True(t, ok)
	assert.Equal(t, "Identifier", v)

	_, err = OpenWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = OpenWorkbook(writeFile(t, "not.xlsx", "plain text"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

func TestLoadSchema(t *testing.T) {
	path := writeFile(t, "schema.json", `{"type": "object", "required": ["grants"]}`)

	v, err := LoadSchema(path)
	require.NoError(t, err)
	assert.NotNil(t, v)

	_, err = LoadSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}
