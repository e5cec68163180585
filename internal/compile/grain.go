package compile

import (
	"fmt"
	"strings"
)

// weekSuffix marks a dimension reference carrying a weekly temporal grain.
// No other grain suffix is recognized.
const weekSuffix = "__week"

// expandDimension resolves a requested dimension name into its SELECT and
// GROUP BY expressions plus its source table.
//
// A name ending in "__week" is a temporal-grain reference: the suffix is
// stripped, the base dimension is resolved, and the expressions wrap the
// column in DATE_TRUNC. The SELECT expression is aliased to the original
// (suffixed) name; the GROUP BY expression carries no alias.
//
// ok is false when the dimension (or the base of a grain reference) is not
// declared in the layer.
func expandDimension(s *Schema, name string) (selectExpr, groupExpr, table string, ok bool) {
	if base, isWeek := strings.CutSuffix(name, weekSuffix); isWeek {
		d, found := s.Dimension(base)
		if !found {
			return "", "", "", false
		}
		groupExpr = fmt.Sprintf("DATE_TRUNC(%s.%s, WEEK)", d.Table, d.SQL)
		selectExpr = fmt.Sprintf("%s AS %s", groupExpr, name)
		return selectExpr, groupExpr, d.Table, true
	}

	d, found := s.Dimension(name)
	if !found {
		return "", "", "", false
	}
	groupExpr = fmt.Sprintf("%s.%s", d.Table, d.SQL)
	selectExpr = fmt.Sprintf("%s AS %s", groupExpr, name)
	return selectExpr, groupExpr, d.Table, true
}
