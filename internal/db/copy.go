package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// DefaultBatchSize is the number of rows sent per COPY when the caller does
// not choose one.
const DefaultBatchSize = 5000

// CopyRows bulk-inserts rows using the COPY protocol, batchSize rows per COPY
// statement. It returns the total number of rows copied.
func CopyRows(ctx context.Context, c Copier, table pgx.Identifier, columns []string, rows [][]any, batchSize int) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var total int64
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		n, err := c.CopyFrom(ctx, table, columns, pgx.CopyFromRows(rows[start:end]))
		if err != nil {
			return total, eris.Wrapf(err, "db: COPY INTO %s", table.Sanitize())
		}
		total += n
	}
	return total, nil
}
