package operations

import (
	"fmt"
	"log/slog"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
)

// Join performs an INNER JOIN of left and right on column `on` using the
// nested-loop algorithm: O(|left| × |right|).
//
// A pair matches when both rows contain `on` with equal text values. The
// merged row is left's entries overlaid with right's, so the right value
// wins on a column collision. Output follows left row order, then right
// row order; duplicates are kept.
func Join(left, right []data.Row, on string) []data.Row {
	results := make([]data.Row, 0)

	for _, leftRow := range left {
		leftValue, ok := leftRow.Get(on)
		if !ok {
			continue // Skip rows without the join column
		}

		for _, rightRow := range right {
			rightValue, ok := rightRow.Get(on)
			if !ok || rightValue != leftValue {
				continue
			}
			results = append(results, leftRow.Merge(rightRow))
		}
	}

	return results
}

// JoinTables loads both tables' persisted rows and joins them on `on`
func JoinTables(leftTable, rightTable *schema.Table, on string) ([]data.Row, error) {
	if leftTable == nil || rightTable == nil {
		return nil, fmt.Errorf("join requires two tables")
	}

	leftRows, err := leftTable.LoadRows()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", leftTable.Name, err)
	}
	rightRows, err := rightTable.LoadRows()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", rightTable.Name, err)
	}

	slog.Debug("Starting INNER JOIN",
		slog.String("left_table", leftTable.Name),
		slog.String("right_table", rightTable.Name),
		slog.String("on", on),
		slog.Int("left_rows", len(leftRows)),
		slog.Int("right_rows", len(rightRows)),
	)

	results := Join(leftRows, rightRows, on)

	slog.Debug("INNER JOIN completed",
		slog.String("left_table", leftTable.Name),
		slog.String("right_table", rightTable.Name),
		slog.Int("result_rows", len(results)),
	)
	return results, nil
}
