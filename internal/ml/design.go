package ml

import "gonum.org/v1/gonum/mat"

// unknown marks a categorical value outside the fitted vocabulary.
const unknown = -1

// Design is the encoded feature matrix. It stores the one-hot blocks as
// category indices, so memory grows with rows rather than vocabulary size.
// Column layout: city indicators, description indicators, then the numeric
// passthrough features.
type Design struct {
	rows   int
	nCity  int
	nDesc  int
	city   []int
	desc   []int
	values [][numNumeric]float64
}

var _ mat.Matrix = (*Design)(nil)

// Dims returns the number of rows and columns.
func (d *Design) Dims() (r, c int) {
	return d.rows, d.nCity + d.nDesc + numNumeric
}

// At returns the value at row i, column j.
func (d *Design) At(i, j int) float64 {
	r, c := d.Dims()
	if i < 0 || i >= r || j < 0 || j >= c {
		panic(mat.ErrIndexOutOfRange)
	}
	return d.value(i, j)
}

// T returns the transpose of the matrix.
func (d *Design) T() mat.Matrix {
	return mat.Transpose{Matrix: d}
}

// value is At without bounds checks.
func (d *Design) value(i, j int) float64 {
	switch {
	case j < d.nCity:
		return indicator(d.city[i] == j)
	case j < d.nCity+d.nDesc:
		return indicator(d.desc[i] == j-d.nCity)
	default:
		return d.values[i][j-d.nCity-d.nDesc]
	}
}

// categorical reports whether column j is a one-hot indicator.
func (d *Design) categorical(j int) bool {
	return j < d.nCity+d.nDesc
}

// hot returns the one-hot column set in row i for each categorical block,
// or unknown when the value was not seen during fitting.
func (d *Design) hot(i int) (city, desc int) {
	city, desc = unknown, unknown
	if d.city[i] != unknown {
		city = d.city[i]
	}
	if d.desc[i] != unknown {
		desc = d.nCity + d.desc[i]
	}
	return city, desc
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
