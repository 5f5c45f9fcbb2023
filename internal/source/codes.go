package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/tabular"
)

// Crime-code lookup columns.
const (
	codeColumn  = "CODE"
	labelColumn = "NAME_COMBINE"
)

// CodeMap maps a Baltimore crime code (e.g. "3AF") to its descriptive label.
type CodeMap map[string]string

// Lookup returns the label for code, or "" if the code is unknown.
func (m CodeMap) Lookup(code string) string {
	return m[strings.TrimSpace(code)]
}

// LoadCodeMap reads the crime-code lookup from a CSV or XLSX file with CODE and
// NAME_COMBINE columns. sheet selects the workbook sheet for XLSX files (empty
// means the first) and is ignored for CSV. When a code repeats, the first
// label wins.
func LoadCodeMap(ctx context.Context, path, sheet string) (CodeMap, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadCodeMapXLSX(path, sheet)
	}

	f, err := openInput(ctx, "", path)
	if err != nil {
		return nil, eris.Wrap(err, "codes: open")
	}
	defer f.Close()

	codes := make(CodeMap)
	_, err = scanCSV(ctx, f, "", []string{codeColumn, labelColumn}, func(cols columns, row []string) {
		codes.add(cols.get(row, codeColumn), cols.get(row, labelColumn))
	})
	if err != nil {
		return nil, eris.Wrapf(err, "codes: read %s", path)
	}
	return codes, nil
}

func loadCodeMapXLSX(path, sheet string) (CodeMap, error) {
	rows, err := tabular.ReadXLSX(path, tabular.XLSXOptions{SheetName: sheet})
	if err != nil {
		return nil, eris.Wrapf(err, "codes: read %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("codes: %s: missing header row", path)
	}

	cols := mapColumns(rows[0])
	if err := cols.require(codeColumn, labelColumn); err != nil {
		return nil, eris.Wrapf(err, "codes: %s", path)
	}

	codes := make(CodeMap, len(rows)-1)
	for _, row := range rows[1:] {
		codes.add(cols.get(row, codeColumn), cols.get(row, labelColumn))
	}
	return codes, nil
}

// add keeps the first label seen for code. A pandas left merge against a
// lookup with repeated codes would instead emit one Baltimore row per label;
// here each raw row stays a single incident.
func (m CodeMap) add(code, label string) {
	if code == "" {
		return
	}
	if _, seen := m[code]; seen {
		return
	}
	m[code] = label
}
