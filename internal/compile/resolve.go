package compile

import "fmt"

// Resolve qualifies a bare field name to its "<table>.<sql>" form. Dimensions
// take precedence over metrics. ok is false when the field matches neither,
// letting callers decide whether an unresolved field is acceptable.
func (s *Schema) Resolve(field string) (qualified string, ok bool) {
	if d, found := s.Dimension(field); found {
		return fmt.Sprintf("%s.%s", d.Table, d.SQL), true
	}
	if m, found := s.Metric(field); found {
		return fmt.Sprintf("%s.%s", m.Table, m.SQL), true
	}
	return "", false
}

// Qualify resolves field, falling back to the bare name when no dimension or
// metric matches. The fallback is deliberate: filter fields that are already
// qualified or are literal expressions pass through untouched.
func (s *Schema) Qualify(field string) string {
	if qualified, ok := s.Resolve(field); ok {
		return qualified
	}
	return field
}
