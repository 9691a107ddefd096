package domain

import (
	"math"
	"strconv"
	"strings"
)

// Field names a column of the normalized Record schema.
type Field string

const (
	FieldCode         Field = "code"
	FieldBusinessName Field = "business_name"
	FieldAddress      Field = "address"
	FieldArea         Field = "area"
	FieldLatitude     Field = "latitude"
	FieldLongitude    Field = "longitude"
)

// Fields lists the Record schema in output order.
var Fields = []Field{FieldCode, FieldBusinessName, FieldAddress, FieldArea, FieldLatitude, FieldLongitude}

// ColumnMapping binds a source header to a Record field.
type ColumnMapping struct {
	Source string
	Field  Field
}

// DefaultColumns is the header mapping for the registry export. Three of the
// source headers are data values promoted to labels; see the package docs.
var DefaultColumns = []ColumnMapping{
	{Source: "CODIGO", Field: FieldCode},
	{Source: "NOMBRE FANTASIA", Field: FieldBusinessName},
	{Source: "CERRO BLANCO 625", Field: FieldAddress},
	{Source: "MAIPU", Field: FieldArea},
	{Source: "LATITUD", Field: FieldLatitude},
	{Source: "LONGITUD", Field: FieldLongitude},
}

// Project selects the mapped columns of a raw table and returns one Record per
// data row. Text cells pass through untouched; coordinate cells are parsed as
// float64 with NaN standing in for empty or non-numeric values.
//
// Every mapped source header must be present, otherwise a *SchemaError listing
// all missing headers is returned and no records are produced.
func Project(table RawTable, mapping []ColumnMapping) ([]Record, error) {
	index, err := resolveColumns(table, mapping)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, Record{
			Code:         cell(row, index[FieldCode]),
			BusinessName: cell(row, index[FieldBusinessName]),
			Address:      cell(row, index[FieldAddress]),
			Area:         cell(row, index[FieldArea]),
			Latitude:     parseCoordinate(cell(row, index[FieldLatitude])),
			Longitude:    parseCoordinate(cell(row, index[FieldLongitude])),
		})
	}
	return records, nil
}

// resolveColumns finds the position of each mapped header. The first column
// with a matching (whitespace-trimmed) header wins. Fields absent from the
// mapping resolve to -1 and project as empty values.
func resolveColumns(table RawTable, mapping []ColumnMapping) (map[Field]int, error) {
	positions := make(map[string]int, len(table.Header))
	for i, h := range table.Header {
		h = strings.TrimSpace(h)
		if _, seen := positions[h]; !seen {
			positions[h] = i
		}
	}

	index := make(map[Field]int, len(Fields))
	for _, f := range Fields {
		index[f] = -1
	}

	var missing []string
	for _, m := range mapping {
		pos, ok := positions[strings.TrimSpace(m.Source)]
		if !ok {
			missing = append(missing, m.Source)
			continue
		}
		index[m.Field] = pos
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: table.Source, Missing: missing}
	}
	return index, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseCoordinate parses a decimal degree value.
func parseCoordinate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
