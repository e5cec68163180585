// Package render prints bounded tabular previews of warehouse results.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"semql/internal/warehouse"
)

// DefaultMaxRows bounds the preview size when the caller does not say.
const DefaultMaxRows = 10

// Preview writes a tabular preview of result to w, showing at most maxRows
// rows plus a total-row count line.
func Preview(w io.Writer, result *warehouse.Result, maxRows int) error {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	fmt.Fprintf(w, "Total Rows: %d\n", result.RowCount)
	if result.RowCount == 0 {
		return nil
	}
	if result.RowCount > maxRows {
		fmt.Fprintf(w, "First %d Rows:\n", maxRows)
	}

	data := pterm.TableData{result.Columns}
	for i, row := range result.Rows {
		if i >= maxRows {
			break
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatValue(v)
		}
		data = append(data, cells)
	}

	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

// FormatValue renders a single cell for display. Monetary-looking floats are
// compacted (millions get an M suffix), timestamps keep just the date part.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return formatAmount(val)
	case float32:
		return formatAmount(float64(val))
	case time.Time:
		return val.Format("2006-01-02")
	case string:
		// Timestamp strings keep just the date part.
		if strings.Contains(val, "+00:00") {
			return strings.Fields(val)[0]
		}
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatAmount(v float64) string {
	if v > 1_000_000 {
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}
