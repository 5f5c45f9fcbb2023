package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestLoadCodeMap_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CRIME_CODES.csv")
	require.NoError(t, os.WriteFile(path, []byte(codesCSV), 0o644))

	codes, err := LoadCodeMap(context.Background(), path, "")
	require.NoError(t, err)

	assert.Len(t, codes, 3)
	assert.Equal(t, "ROBBERY - STREET", codes.Lookup("3B"))
	assert.Equal(t, "ROBBERY - STREET", codes.Lookup(" 3B "))
	assert.Equal(t, "BURGLARY - FORCIBLE ENTRY", codes.Lookup("5A"), "first label wins")
	assert.Equal(t, "", codes.Lookup("99"))
}

func TestLoadCodeMap_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("codes")
	require.NoError(t, err)
	for _, r := range [][]string{{"CODE", "NAME_COMBINE"}, {"4E", "COMMON ASSAULT"}, {"", "BLANK CODE"}} {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "CRIME_CODES.xlsx")
	require.NoError(t, f.Save(path))

	codes, err := LoadCodeMap(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, CodeMap{"4E": "COMMON ASSAULT"}, codes)
}

func TestLoadCodeMap_XLSXNamedSheet(t *testing.T) {
	f := xlsx.NewFile()
	for _, s := range []struct {
		name string
		rows [][]string
	}{
		{"notes", [][]string{{"exported from the records system"}}},
		{"codes", [][]string{{"CODE", "NAME_COMBINE"}, {"3B", "ROBBERY - STREET"}}},
	} {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, r := range s.rows {
			row := sheet.AddRow()
			for _, v := range r {
				row.AddCell().SetString(v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "CRIME_CODES.xlsx")
	require.NoError(t, f.Save(path))

	codes, err := LoadCodeMap(context.Background(), path, "codes")
	require.NoError(t, err)
	assert.Equal(t, CodeMap{"3B": "ROBBERY - STREET"}, codes)

	_, err = LoadCodeMap(context.Background(), path, "")
	require.Error(t, err, "first sheet has no CODE column")
	assert.Contains(t, err.Error(), "CODE")

	_, err = LoadCodeMap(context.Background(), path, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadCodeMap_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.csv")
	require.NoError(t, os.WriteFile(path, []byte("CODE,LABEL\n1A,X\n"), 0o644))

	_, err := LoadCodeMap(context.Background(), path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAME_COMBINE")
}

func TestLoadCodeMap_MissingFile(t *testing.T) {
	_, err := LoadCodeMap(context.Background(), filepath.Join(t.TempDir(), "CRIME_CODES.csv"), "")
	require.Error(t, err)
}
