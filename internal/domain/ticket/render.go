package ticket

import (
	"fmt"
	"strings"

	"github.com/valyala/bytebufferpool"
)

const cellWidth = 4

// Render draws the ticket as a fixed-width text grid.
func Render(t Ticket) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	border := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", Columns) + "\n"

	_, _ = buf.WriteString(border)
	for r := 0; r < Rows; r++ {
		_ = buf.WriteByte('|')
		for c := 0; c < Columns; c++ {
			if t[r][c].IsBlank() {
				_, _ = buf.WriteString(strings.Repeat(" ", cellWidth))
			} else {
				_, _ = fmt.Fprintf(buf, "%*d", cellWidth-1, int(t[r][c]))
				_ = buf.WriteByte(' ')
			}
			_ = buf.WriteByte('|')
		}
		_ = buf.WriteByte('\n')
		_, _ = buf.WriteString(border)
	}

	return buf.String()
}
