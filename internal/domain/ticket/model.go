// Package ticket generates Tambola tickets: 3x9 grids where every row holds
// five numbers and every column holds one to three ascending numbers taken
// from the column's band.
package ticket

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	Rows         = 3
	Columns      = 9
	FilledPerRow = 5
	FilledTotal  = Rows * FilledPerRow
)

var ErrInvalidTicket = errors.New("invalid ticket")

// Blank marks an empty cell.
const Blank Cell = -1

// Cell is a ticket square. It holds a number or Blank.
type Cell int

func (c Cell) IsBlank() bool {
	return c == Blank
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.IsBlank() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(c), 10), nil
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Blank
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("decode ticket cell: %w", err)
	}
	*c = Cell(v)
	return nil
}

// Ticket is indexed as [row][column].
type Ticket [Rows][Columns]Cell

func emptyTicket() Ticket {
	var t Ticket
	for r := range t {
		for c := range t[r] {
			t[r][c] = Blank
		}
	}
	return t
}

// Band returns the values column col may hold: 1..9, then tens, with 80..90 in the last column.
func Band(col int) []int {
	if col < 0 || col >= Columns {
		return nil
	}

	lo, hi := col*10, col*10+9
	switch col {
	case 0:
		lo = 1
	case Columns - 1:
		hi = 90
	}

	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

func bandContains(col, v int) bool {
	band := Band(col)
	return len(band) > 0 && v >= band[0] && v <= band[len(band)-1]
}

// Numbers returns the filled values in row-major order.
func (t Ticket) Numbers() []int {
	out := make([]int, 0, FilledTotal)
	for r := range t {
		for _, cell := range t[r] {
			if !cell.IsBlank() {
				out = append(out, int(cell))
			}
		}
	}
	return out
}

// Validate checks the row quota, column population, band and ordering rules.
func Validate(t Ticket) error {
	total := 0
	for r := 0; r < Rows; r++ {
		filled := 0
		for c := 0; c < Columns; c++ {
			if !t[r][c].IsBlank() {
				filled++
			}
		}
		if filled != FilledPerRow {
			return fmt.Errorf("%w: row %d has %d numbers, want %d", ErrInvalidTicket, r, filled, FilledPerRow)
		}
		total += filled
	}
	if total != FilledTotal {
		return fmt.Errorf("%w: %d numbers, want %d", ErrInvalidTicket, total, FilledTotal)
	}

	for c := 0; c < Columns; c++ {
		prev, filled := 0, 0
		for r := 0; r < Rows; r++ {
			cell := t[r][c]
			if cell.IsBlank() {
				continue
			}
			v := int(cell)
			if !bandContains(c, v) {
				return fmt.Errorf("%w: value %d outside band of column %d", ErrInvalidTicket, v, c)
			}
			if filled > 0 && v <= prev {
				return fmt.Errorf("%w: column %d is not ascending at row %d", ErrInvalidTicket, c, r)
			}
			prev = v
			filled++
		}
		if filled == 0 {
			return fmt.Errorf("%w: column %d is empty", ErrInvalidTicket, c)
		}
	}

	return nil
}
