package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semql/internal/warehouse"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "$1,234.50", FormatValue(1234.50))
	assert.Equal(t, "$2.50M", FormatValue(2_500_000.0))
	assert.Equal(t, "Complete", FormatValue("Complete"))
	assert.Equal(t, "2024-01-15", FormatValue("2024-01-15 00:00:00+00:00"))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "2024-03-01", FormatValue(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestPreview_BoundsRows(t *testing.T) {
	result := &warehouse.Result{
		Columns: []string{"status", "order_count"},
		Rows: [][]interface{}{
			{"Complete", int64(10)},
			{"Returned", int64(3)},
			{"Shipped", int64(7)},
		},
		RowCount: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, result, 2))

	out := buf.String()
	assert.Contains(t, out, "Total Rows: 3")
	assert.Contains(t, out, "First 2 Rows:")
	assert.Contains(t, out, "Complete")
	assert.Contains(t, out, "Returned")
	assert.NotContains(t, out, "Shipped")
}

func TestPreview_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, &warehouse.Result{Columns: []string{"a"}, RowCount: 0}, 10))
	assert.Contains(t, buf.String(), "Total Rows: 0")
}
