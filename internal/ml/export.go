package ml

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
)

// WriteMatrix writes m as CSV, one row per matrix row, under a header naming
// its columns. Rows are read through mat.Row, so any mat.Matrix works.
func WriteMatrix(w io.Writer, header []string, m mat.Matrix) error {
	r, c := m.Dims()
	if len(header) != c {
		return eris.Errorf("ml: header has %d names for %d columns", len(header), c)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "ml: write matrix header")
	}

	row := make([]float64, c)
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrapf(err, "ml: write matrix row %d", i)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "ml: flush matrix")
	}
	return nil
}
