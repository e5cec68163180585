// Package compile translates declarative metric queries against a semantic
// layer into SQL text. Compilation is a pure function of (layer, query): no
// component retains state across calls and nothing here performs I/O.
package compile

import "semql/internal/domain"

// Schema is the lookup surface over a parsed semantic layer. Lookups are
// linear scans and the first match wins; duplicate names are legal but the
// later definition is unreachable.
type Schema struct {
	layer *domain.SemanticLayer
}

// NewSchema wraps a semantic layer for lookups.
func NewSchema(layer *domain.SemanticLayer) *Schema {
	return &Schema{layer: layer}
}

// Metric returns the first metric with the given name.
func (s *Schema) Metric(name string) (*domain.Metric, bool) {
	for i := range s.layer.Metrics {
		if s.layer.Metrics[i].Name == name {
			return &s.layer.Metrics[i], true
		}
	}
	return nil, false
}

// Dimension returns the first dimension with the given name.
func (s *Schema) Dimension(name string) (*domain.Dimension, bool) {
	for i := range s.layer.Dimensions {
		if s.layer.Dimensions[i].Name == name {
			return &s.layer.Dimensions[i], true
		}
	}
	return nil, false
}

// Joins returns the declared join relationships in declaration order.
func (s *Schema) Joins() []domain.Join {
	return s.layer.Joins
}
