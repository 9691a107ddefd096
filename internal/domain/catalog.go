package domain

import "slices"

// AreaCatalog returns the distinct areas of records in ascending order. It is
// meant to be computed over the full null-filtered set so the menu never
// shrinks with the current selection.
func AreaCatalog(records []Record) []string {
	areas := make([]string, 0, len(records))
	for _, r := range records {
		areas = append(areas, r.Area)
	}
	slices.Sort(areas)
	return slices.Compact(areas)
}
