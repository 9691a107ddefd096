package domain

import "strings"

// DropEmptyArea removes records whose area is empty or only whitespace. The
// slice is compacted in place and the surviving records keep their order.
func DropEmptyArea(records []Record) []Record {
	kept := records[:0]
	for _, r := range records {
		if strings.TrimSpace(r.Area) == "" {
			continue
		}
		kept = append(kept, r)
	}
	clear(records[len(kept):])
	return kept
}

// Selection is the set of areas a user picked. The zero value is the empty
// selection, which selects everything.
type Selection struct {
	areas map[string]struct{}
	order []string
}

// NewSelection builds a selection from the given areas, ignoring blanks and
// duplicates. Values keep their first-seen order.
func NewSelection(areas ...string) Selection {
	s := Selection{areas: make(map[string]struct{}, len(areas))}
	for _, a := range areas {
		if strings.TrimSpace(a) == "" {
			continue
		}
		if _, dup := s.areas[a]; dup {
			continue
		}
		s.areas[a] = struct{}{}
		s.order = append(s.order, a)
	}
	return s
}

// IsEmpty reports whether no area is selected.
func (s Selection) IsEmpty() bool { return len(s.order) == 0 }

// Contains reports whether area is selected.
func (s Selection) Contains(area string) bool {
	_, ok := s.areas[area]
	return ok
}

// Areas returns the selected areas in first-seen order.
func (s Selection) Areas() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Select returns the records whose area is in the selection, in their original
// order. An empty selection returns records unchanged: no selection means no
// filtering. Selected areas that appear in no record simply match nothing.
func Select(records []Record, sel Selection) []Record {
	if sel.IsEmpty() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if sel.Contains(r.Area) {
			out = append(out, r)
		}
	}
	return out
}
