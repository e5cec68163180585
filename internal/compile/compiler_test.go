package compile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semql/internal/domain"
)

func ordersLayer() *domain.SemanticLayer {
	return &domain.SemanticLayer{
		Metrics: []domain.Metric{
			{Name: "order_count", SQL: "COUNT(*)", Table: "orders"},
			{Name: "total_revenue", SQL: "SUM(sale_price)", Table: "order_items"},
		},
		Dimensions: []domain.Dimension{
			{Name: "status", SQL: "status", Table: "order_items"},
			{Name: "ordered_date", SQL: "created_at", Table: "orders"},
		},
		Joins: []domain.Join{
			{One: "orders", Many: "order_items", Join: "order_items.order_id = orders.order_id"},
		},
	}
}

func TestCompile_SingleMetricNoDimensions(t *testing.T) {
	layer := &domain.SemanticLayer{
		Metrics: []domain.Metric{{Name: "order_count", SQL: "COUNT(*)", Table: "orders"}},
	}

	result, err := Compile(layer, &domain.Query{Metrics: []string{"order_count"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS order_count\nFROM orders", result.SQL)
	assert.Equal(t, []string{"orders"}, result.Tables)
}

func TestCompile_MetricGroupedByDimension(t *testing.T) {
	layer := &domain.SemanticLayer{
		Metrics:    []domain.Metric{{Name: "total_revenue", SQL: "SUM(sale_price)", Table: "order_items"}},
		Dimensions: []domain.Dimension{{Name: "status", SQL: "status", Table: "order_items"}},
	}

	result, err := Compile(layer, &domain.Query{
		Metrics:    []string{"total_revenue"},
		Dimensions: []string{"status"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT order_items.status AS status, SUM(sale_price) AS total_revenue\n"+
			"FROM order_items\n"+
			"GROUP BY order_items.status",
		result.SQL)
}

func TestCompile_MetricFilterRoutedToHaving(t *testing.T) {
	layer := &domain.SemanticLayer{
		Metrics: []domain.Metric{{Name: "total_revenue", SQL: "SUM(sale_price)", Table: "order_items"}},
	}

	result, err := Compile(layer, &domain.Query{
		Metrics: []string{"total_revenue"},
		Filters: []domain.Filter{{Field: "total_revenue", Operator: ">", Value: 1000}},
	}, Options{})
	require.NoError(t, err)
	assert.Contains(t, result.SQL, "HAVING total_revenue > 1000")
	assert.NotContains(t, result.SQL, "WHERE")
}

func TestCompile_JoinAcrossTwoTables(t *testing.T) {
	result, err := Compile(ordersLayer(), &domain.Query{
		Metrics:    []string{"order_count", "total_revenue"},
		Dimensions: []string{"status"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT order_items.status AS status, COUNT(*) AS order_count, SUM(sale_price) AS total_revenue\n"+
			"FROM orders\n"+
			"JOIN order_items ON order_items.order_id = orders.order_id\n"+
			"GROUP BY order_items.status",
		result.SQL)
}

func TestCompile_WeeklyGrain(t *testing.T) {
	result, err := Compile(ordersLayer(), &domain.Query{
		Metrics:    []string{"order_count"},
		Dimensions: []string{"ordered_date__week"},
	}, Options{})
	require.NoError(t, err)
	assert.Contains(t, result.SQL, "DATE_TRUNC(orders.created_at, WEEK) AS ordered_date__week")
	assert.Contains(t, result.SQL, "GROUP BY DATE_TRUNC(orders.created_at, WEEK)")
}

func TestCompile_MetricNotFoundAbortsCompilation(t *testing.T) {
	result, err := Compile(ordersLayer(), &domain.Query{Metrics: []string{"nonexistent"}}, Options{})
	require.Error(t, err)
	assert.Nil(t, result)

	var notFound *domain.MetricNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "nonexistent", notFound.Metric)
}

func TestCompile_UnknownDimensionSilentlyOmitted(t *testing.T) {
	result, err := Compile(ordersLayer(), &domain.Query{
		Metrics:    []string{"order_count"},
		Dimensions: []string{"no_such_dimension"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS order_count\nFROM orders", result.SQL)
	assert.NotContains(t, result.SQL, "GROUP BY")
}

func TestCompile_UnknownWeekBaseSilentlyOmitted(t *testing.T) {
	result, err := Compile(ordersLayer(), &domain.Query{
		Metrics:    []string{"order_count"},
		Dimensions: []string{"no_such_dimension__week"},
	}, Options{})
	require.NoError(t, err)
	assert.NotContains(t, result.SQL, "DATE_TRUNC")
	assert.NotContains(t, result.SQL, "GROUP BY")
}

func TestCompile_StrictModeRejectsUnknownDimension(t *testing.T) {
	_, err := Compile(ordersLayer(), &domain.Query{
		Metrics:    []string{"order_count"},
		Dimensions: []string{"no_such_dimension"},
	}, Options{OnUnresolvedDimension: ErrorUnresolved})
	require.Error(t, err)

	var validation *domain.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestCompile_Idempotent(t *testing.T) {
	query := &domain.Query{
		Metrics:    []string{"order_count", "total_revenue"},
		Dimensions: []string{"status", "ordered_date__week"},
		Filters: []domain.Filter{
			{Field: "ordered_date", Operator: ">=", Value: "2024-01-01"},
			{Field: "total_revenue", Operator: ">", Value: 500},
		},
	}

	first, err := Compile(ordersLayer(), query, Options{})
	require.NoError(t, err)
	second, err := Compile(ordersLayer(), query, Options{})
	require.NoError(t, err)
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.Tables, second.Tables)
}

func TestCompile_SelectOrderFollowsQueryNotSchema(t *testing.T) {
	// Schema declares total_revenue before order_count; the query asks for
	// the opposite order and dimensions reversed too.
	layer := &domain.SemanticLayer{
		Metrics: []domain.Metric{
			{Name: "total_revenue", SQL: "SUM(sale_price)", Table: "order_items"},
			{Name: "order_count", SQL: "COUNT(*)", Table: "order_items"},
		},
		Dimensions: []domain.Dimension{
			{Name: "status", SQL: "status", Table: "order_items"},
			{Name: "country", SQL: "country", Table: "order_items"},
		},
	}

	result, err := Compile(layer, &domain.Query{
		Metrics:    []string{"order_count", "total_revenue"},
		Dimensions: []string{"country", "status"},
	}, Options{})
	require.NoError(t, err)
	selectLine := strings.SplitN(result.SQL, "\n", 2)[0]
	assert.Equal(t,
		"SELECT order_items.country AS country, order_items.status AS status, "+
			"COUNT(*) AS order_count, SUM(sale_price) AS total_revenue",
		selectLine)
}

func TestCompile_DuplicateMetricFirstMatchWins(t *testing.T) {
	layer := &domain.SemanticLayer{
		Metrics: []domain.Metric{
			{Name: "order_count", SQL: "COUNT(*)", Table: "orders"},
			{Name: "order_count", SQL: "COUNT(id)", Table: "orders_v2"},
		},
	}

	result, err := Compile(layer, &domain.Query{Metrics: []string{"order_count"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS order_count\nFROM orders", result.SQL)
}

func TestCompile_EmptyMetricsRejected(t *testing.T) {
	_, err := Compile(ordersLayer(), &domain.Query{}, Options{})
	require.Error(t, err)

	var validation *domain.ValidationError
	assert.True(t, errors.As(err, &validation))
}
