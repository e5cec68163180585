package compile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"semql/internal/domain"
)

// clauses collects the resolved pieces of a query before final assembly.
type clauses struct {
	selectItems []string
	fromJoin    []string
	where       []string
	groupBy     []string
	having      []string
}

// render assembles the clauses in fixed order, one per line, and trims
// surrounding whitespace.
func (c *clauses) render() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(c.selectItems, ", "))
	b.WriteString("\n")
	b.WriteString(strings.Join(c.fromJoin, "\n"))
	b.WriteString("\n")
	if len(c.where) > 0 {
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(c.where, " AND "))
		b.WriteString("\n")
	}
	if len(c.groupBy) > 0 {
		b.WriteString("GROUP BY ")
		b.WriteString(strings.Join(c.groupBy, ", "))
		b.WriteString("\n")
	}
	if len(c.having) > 0 {
		b.WriteString("HAVING ")
		b.WriteString(strings.Join(c.having, " AND "))
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// routeFilter renders f into either the WHERE or HAVING clause list.
// A filter goes to HAVING iff its field exactly matches one of the query's
// requested metric names; the test is against the query, not the schema.
func (c *clauses) routeFilter(s *Schema, q *domain.Query, f domain.Filter) {
	if q.RequestsMetric(f.Field) {
		c.having = append(c.having, fmt.Sprintf("%s %s %s", f.Field, f.Operator, rawValue(f.Value)))
		return
	}
	c.where = append(c.where, renderWherePredicate(s, f))
}

// renderWherePredicate renders a WHERE predicate.
//
// A string value in YYYY-MM-DD form filtering on a declared dimension becomes
// a DATE(...) comparison so TIMESTAMP columns compare at day granularity.
// Numeric values render unquoted. Everything else renders single-quoted with
// no escaping of embedded quotes: filter values are trusted configuration,
// not end-user input.
func renderWherePredicate(s *Schema, f domain.Filter) string {
	if str, isString := f.Value.(string); isString {
		if _, isDim := s.Dimension(f.Field); isDim && isCalendarDate(str) {
			return fmt.Sprintf("DATE(%s) %s DATE('%s')", s.Qualify(f.Field), f.Operator, str)
		}
	}

	qualified := s.Qualify(f.Field)
	if n, isNumber := formatNumber(f.Value); isNumber {
		return fmt.Sprintf("%s %s %s", qualified, f.Operator, n)
	}
	return fmt.Sprintf("%s %s '%v'", qualified, f.Operator, f.Value)
}

// rawValue renders a filter value without quoting, as HAVING predicates
// compare against aggregated metric output.
func rawValue(v interface{}) string {
	if n, ok := formatNumber(v); ok {
		return n
	}
	return fmt.Sprintf("%v", v)
}

// formatNumber renders numeric filter values without an exponent, so a JSON
// 1000 comes out as "1000" rather than "1e+03".
func formatNumber(v interface{}) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

// isCalendarDate reports whether s parses as a YYYY-MM-DD calendar date.
func isCalendarDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
