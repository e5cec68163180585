package domain

// Metric is a named aggregation expression bound to a source table.
type Metric struct {
	Name  string `json:"name" yaml:"name"`
	SQL   string `json:"sql" yaml:"sql"`
	Table string `json:"table" yaml:"table"`
}

// Validate checks that the metric definition is well-formed.
func (m *Metric) Validate() error {
	if m.Name == "" {
		return ErrValidation("metric name is required")
	}
	if m.SQL == "" {
		return ErrValidation("metric %q: sql is required", m.Name)
	}
	if m.Table == "" {
		return ErrValidation("metric %q: table is required", m.Name)
	}
	return nil
}

// Dimension is a named groupable column or expression bound to a source table.
type Dimension struct {
	Name  string `json:"name" yaml:"name"`
	SQL   string `json:"sql" yaml:"sql"`
	Table string `json:"table" yaml:"table"`
}

// Validate checks that the dimension definition is well-formed.
func (d *Dimension) Validate() error {
	if d.Name == "" {
		return ErrValidation("dimension name is required")
	}
	if d.SQL == "" {
		return ErrValidation("dimension %q: sql is required", d.Name)
	}
	if d.Table == "" {
		return ErrValidation("dimension %q: table is required", d.Name)
	}
	return nil
}

// Join declares a one-to-many relationship between two tables. One and Many
// are table identifiers, not metric or dimension names.
type Join struct {
	One  string `json:"one" yaml:"one"`
	Many string `json:"many" yaml:"many"`
	Join string `json:"join" yaml:"join"`
}

// Validate checks that the join definition is well-formed.
func (j *Join) Validate() error {
	if j.One == "" {
		return ErrValidation("join: one is required")
	}
	if j.Many == "" {
		return ErrValidation("join: many is required")
	}
	if j.Join == "" {
		return ErrValidation("join %s/%s: join condition is required", j.One, j.Many)
	}
	return nil
}

// Filter is a predicate applied to a query. Value is a string or a number;
// the clause builder decides rendering and WHERE/HAVING routing.
type Filter struct {
	Field    string      `json:"field" yaml:"field"`
	Operator string      `json:"operator" yaml:"operator"`
	Value    interface{} `json:"value" yaml:"value"`
}

// Validate checks that the filter is well-formed.
func (f *Filter) Validate() error {
	if f.Field == "" {
		return ErrValidation("filter: field is required")
	}
	if f.Operator == "" {
		return ErrValidation("filter %q: operator is required", f.Field)
	}
	if f.Value == nil {
		return ErrValidation("filter %q: value is required", f.Field)
	}
	switch f.Value.(type) {
	case string, int, int32, int64, float32, float64:
		return nil
	default:
		return ErrValidation("filter %q: value must be a string or a number", f.Field)
	}
}

// SemanticLayer maps business-facing metric and dimension names to physical
// table expressions and join relationships. Lookups are linear scans and the
// first match wins: name uniqueness is deliberately not enforced, a later
// duplicate is simply unreachable.
type SemanticLayer struct {
	Metrics    []Metric    `json:"metrics" yaml:"metrics"`
	Dimensions []Dimension `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Joins      []Join      `json:"joins,omitempty" yaml:"joins,omitempty"`
}

// Validate checks every definition in the layer.
func (l *SemanticLayer) Validate() error {
	if len(l.Metrics) == 0 {
		return ErrValidation("semantic layer must declare at least one metric")
	}
	for i := range l.Metrics {
		if err := l.Metrics[i].Validate(); err != nil {
			return err
		}
	}
	for i := range l.Dimensions {
		if err := l.Dimensions[i].Validate(); err != nil {
			return err
		}
	}
	for i := range l.Joins {
		if err := l.Joins[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Query is a per-request selection of metrics, dimensions, and filters,
// referencing semantic-layer definitions by name.
type Query struct {
	Metrics    []string `json:"metrics" yaml:"metrics"`
	Dimensions []string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Filters    []Filter `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// Validate checks that the query is well-formed.
func (q *Query) Validate() error {
	if len(q.Metrics) == 0 {
		return ErrValidation("at least one metric is required")
	}
	for i := range q.Filters {
		if err := q.Filters[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RequestsMetric reports whether name is in the query's requested metric list.
// Filter routing uses this membership test against the query, not the schema.
func (q *Query) RequestsMetric(name string) bool {
	for _, m := range q.Metrics {
		if m == name {
			return true
		}
	}
	return false
}
