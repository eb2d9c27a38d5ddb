package domain

import "context"

// RowSource fetches the full contents of one tab of a tabular data source.
// The first returned row is the header row; all following rows are data rows.
// Rows may be ragged (shorter than the header row).
type RowSource interface {
	FetchRows(ctx context.Context, tab string) ([][]string, error)
}
