package source

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/tabular"
)

// scanCSV streams a headered CSV, verifies the required columns, and calls fn
// for each data row in file order. It returns the number of data rows read.
func scanCSV(ctx context.Context, r io.Reader, encoding string, required []string, fn func(cols columns, row []string)) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headerCh := make(chan []string, 1)
	rowCh, errCh := tabular.StreamCSV(ctx, r, tabular.CSVOptions{
		HasHeader:  true,
		HeaderCh:   headerCh,
		LazyQuotes: true,
		Encoding:   encoding,
	})

	var cols columns
	var n int
	for row := range rowCh {
		if cols == nil {
			// The header is always sent before the first data row.
			cols = mapColumns(<-headerCh)
			if err := cols.require(required...); err != nil {
				cancel()
				drain(rowCh, errCh)
				return 0, err
			}
		}
		n++
		fn(cols, row)
	}

	if err := <-errCh; err != nil {
		return n, err
	}

	if cols == nil {
		select {
		case header := <-headerCh:
			if err := mapColumns(header).require(required...); err != nil {
				return 0, err
			}
		default:
			return 0, eris.New("missing header row")
		}
	}

	return n, nil
}

func drain(rowCh <-chan []string, errCh <-chan error) {
	for range rowCh {
	}
	for range errCh {
	}
}
