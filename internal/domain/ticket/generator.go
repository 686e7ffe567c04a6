package ticket

import (
	"fmt"
	"slices"

	"github.com/riskibarqy/housie/internal/platform/random"
)

var columnIndexes = []int{0, 1, 2, 3, 4, 5, 6, 7, 8}

// Generate builds one ticket. Rows 0 and 1 pick their five columns
// independently, columns left untouched by both are forced into row 2, and
// row 2 is topped up to five from the remaining columns.
func Generate(src random.Source) (Ticket, error) {
	if src == nil {
		return Ticket{}, fmt.Errorf("random source is required")
	}

	firstRow, err := sortedSample(src, columnIndexes, FilledPerRow)
	if err != nil {
		return Ticket{}, fmt.Errorf("pick first row columns: %w", err)
	}
	secondRow, err := sortedSample(src, columnIndexes, FilledPerRow)
	if err != nil {
		return Ticket{}, fmt.Errorf("pick second row columns: %w", err)
	}

	emptyColumns := make([]int, 0, Columns)
	remaining := make([]int, 0, Columns)
	for _, col := range columnIndexes {
		if slices.Contains(firstRow, col) || slices.Contains(secondRow, col) {
			remaining = append(remaining, col)
			continue
		}
		emptyColumns = append(emptyColumns, col)
	}

	extra, err := random.Sample(src, remaining, FilledPerRow-len(emptyColumns))
	if err != nil {
		return Ticket{}, fmt.Errorf("pick third row columns: %w", err)
	}
	thirdRow := append(emptyColumns, extra...)
	slices.Sort(thirdRow)

	var marked [Rows][Columns]bool
	for r, cols := range [Rows][]int{firstRow, secondRow, thirdRow} {
		for _, col := range cols {
			marked[r][col] = true
		}
	}

	out := emptyTicket()
	for col := 0; col < Columns; col++ {
		rows := make([]int, 0, Rows)
		for r := 0; r < Rows; r++ {
			if marked[r][col] {
				rows = append(rows, r)
			}
		}

		values, err := sortedSample(src, Band(col), len(rows))
		if err != nil {
			return Ticket{}, fmt.Errorf("pick values for column %d: %w", col, err)
		}
		for i, r := range rows {
			out[r][col] = Cell(values[i])
		}
	}

	return out, nil
}

func sortedSample(src random.Source, items []int, k int) ([]int, error) {
	out, err := random.Sample(src, items, k)
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}
