package compile

import (
	"bytes"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"semql/internal/domain"
)

// Parsing is strict at the boundary: unknown fields are rejected and every
// definition is validated for missing required fields before compilation can
// begin. Parsed documents are immutable thereafter.

// ParseLayerJSON parses a semantic layer from JSON.
func ParseLayerJSON(data []byte) (*domain.SemanticLayer, error) {
	var layer domain.SemanticLayer
	if err := decodeStrictJSON(data, &layer); err != nil {
		return nil, domain.ErrValidation("parse semantic layer: %v", err)
	}
	if err := layer.Validate(); err != nil {
		return nil, err
	}
	return &layer, nil
}

// ParseLayerYAML parses a semantic layer from YAML.
func ParseLayerYAML(data []byte) (*domain.SemanticLayer, error) {
	var layer domain.SemanticLayer
	if err := decodeStrictYAML(data, &layer); err != nil {
		return nil, domain.ErrValidation("parse semantic layer: %v", err)
	}
	if err := layer.Validate(); err != nil {
		return nil, err
	}
	return &layer, nil
}

// ParseQueryJSON parses a query from JSON.
func ParseQueryJSON(data []byte) (*domain.Query, error) {
	var query domain.Query
	if err := decodeStrictJSON(data, &query); err != nil {
		return nil, domain.ErrValidation("parse query: %v", err)
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return &query, nil
}

// ParseQueryYAML parses a query from YAML.
func ParseQueryYAML(data []byte) (*domain.Query, error) {
	var query domain.Query
	if err := decodeStrictYAML(data, &query); err != nil {
		return nil, domain.ErrValidation("parse query: %v", err)
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return &query, nil
}

func decodeStrictJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Reject trailing garbage after the document.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return domain.ErrValidation("unexpected trailing content")
	}
	return nil
}

func decodeStrictYAML(data []byte, v interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}
