package compile

import (
	"fmt"

	"semql/internal/domain"
)

// UnresolvedDimensionPolicy controls what happens when a requested dimension
// (or the base of a grain-suffixed dimension) is not declared in the layer.
type UnresolvedDimensionPolicy string

const (
	// OmitUnresolved silently drops the dimension from SELECT and GROUP BY.
	// This is the default.
	OmitUnresolved UnresolvedDimensionPolicy = "omit"
	// ErrorUnresolved turns an unresolved dimension into a compile error.
	ErrorUnresolved UnresolvedDimensionPolicy = "error"
)

// Options configures compilation.
type Options struct {
	OnUnresolvedDimension UnresolvedDimensionPolicy
}

// Compilation is the output of a successful compile.
type Compilation struct {
	// SQL is the generated query text, clauses newline-separated.
	SQL string
	// Tables lists the physical tables required by the query, in
	// first-reference order (metrics before dimensions).
	Tables []string
}

// Compile translates a query against a semantic layer into SQL text.
//
// A requested metric missing from the layer aborts compilation with a
// MetricNotFoundError. A requested dimension missing from the layer is
// silently omitted unless Options says otherwise. Identical inputs always
// yield byte-identical output.
func Compile(layer *domain.SemanticLayer, query *domain.Query, opts Options) (*Compilation, error) {
	if err := layer.Validate(); err != nil {
		return nil, err
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	schema := NewSchema(layer)
	required := newTableSet()

	metricItems := make([]string, 0, len(query.Metrics))
	for _, name := range query.Metrics {
		m, ok := schema.Metric(name)
		if !ok {
			return nil, domain.ErrMetricNotFound(name)
		}
		metricItems = append(metricItems, fmt.Sprintf("%s AS %s", m.SQL, m.Name))
		required.add(m.Table)
	}

	var c clauses
	for _, name := range query.Dimensions {
		selectExpr, groupExpr, table, ok := expandDimension(schema, name)
		if !ok {
			if opts.OnUnresolvedDimension == ErrorUnresolved {
				return nil, domain.ErrValidation("dimension %q not found in semantic layer", name)
			}
			continue
		}
		c.selectItems = append(c.selectItems, selectExpr)
		c.groupBy = append(c.groupBy, groupExpr)
		required.add(table)
	}
	c.selectItems = append(c.selectItems, metricItems...)

	c.fromJoin = planFromJoin(schema, required)

	for _, f := range query.Filters {
		c.routeFilter(schema, query, f)
	}

	return &Compilation{SQL: c.render(), Tables: required.names}, nil
}
