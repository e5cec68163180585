package compile

import "fmt"

// tableSet is an insertion-ordered set of table names. Order is the first
// reference made during compilation (metrics in query order, then
// dimensions in query order), which makes anchor selection deterministic.
type tableSet struct {
	names []string
	seen  map[string]bool
}

func newTableSet() *tableSet {
	return &tableSet{seen: make(map[string]bool)}
}

func (t *tableSet) add(name string) {
	if !t.seen[name] {
		t.seen[name] = true
		t.names = append(t.names, name)
	}
}

func (t *tableSet) contains(name string) bool { return t.seen[name] }

func (t *tableSet) len() int { return len(t.names) }

// planFromJoin emits the FROM line and any JOIN lines for the required
// tables.
//
// When the layer declares joins and more than one table is required, the
// anchor is the first required table (in first-reference order) that appears
// in any join endpoint. Each declared join is then emitted whenever either of
// its endpoints is required. The test is membership in the required set, not
// connectivity to the anchor, so a join whose unrelated endpoint happens to
// be required still produces a JOIN line.
//
// With a single required table, or no declared joins, only a FROM line for
// the first required table is emitted. Multiple tables without a covering
// join is an unguarded misconfiguration: the extra tables are silently left
// out of the FROM clause rather than raising an error.
func planFromJoin(s *Schema, required *tableSet) []string {
	joins := s.Joins()
	if len(joins) == 0 || required.len() <= 1 {
		return []string{fmt.Sprintf("FROM %s", required.names[0])}
	}

	joinTables := make(map[string]bool, 2*len(joins))
	for _, j := range joins {
		joinTables[j.One] = true
		joinTables[j.Many] = true
	}

	anchor := ""
	for _, name := range required.names {
		if joinTables[name] {
			anchor = name
			break
		}
	}
	if anchor == "" {
		// No required table participates in any join; degrade to a bare FROM.
		return []string{fmt.Sprintf("FROM %s", required.names[0])}
	}

	lines := []string{fmt.Sprintf("FROM %s", anchor)}
	for _, j := range joins {
		if !required.contains(j.One) && !required.contains(j.Many) {
			continue
		}
		if j.One == anchor {
			lines = append(lines, fmt.Sprintf("JOIN %s ON %s", j.Many, j.Join))
		} else {
			lines = append(lines, fmt.Sprintf("JOIN %s ON %s", j.One, j.Join))
		}
	}
	return lines
}
