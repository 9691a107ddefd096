package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = "carga-bip.xlsx"

var registryHeader = []string{
	"N°", "CODIGO", "RUT", "NOMBRE FANTASIA", "CERRO BLANCO 625", "MAIPU", "REGION", "LATITUD", "LONGITUD",
}

func registryTable(rows ...[]string) RawTable {
	return RawTable{Source: testSource, Sheet: "Sheet1", Header: registryHeader, Rows: rows}
}

func TestProject(t *testing.T) {
	t.Run("maps and renames the six fields", func(t *testing.T) {
		table := registryTable(
			[]string{"1", "B-001", "76.123.456-7", "Minimarket Don Lucho", "Av. Pajaritos 1234", "MAIPU", "RM", "-33.5101", "-70.7566"},
			[]string{"2", "B-002", "77.222.333-1", "Botillería El Sol", "Gran Avenida 5500", "SAN MIGUEL", "RM", "-33.4962", "-70.6510"},
		)

		records, err := Project(table, DefaultColumns)
		require.NoError(t, err)

		want := []Record{
			{Code: "B-001", BusinessName: "Minimarket Don Lucho", Address: "Av. Pajaritos 1234", Area: "MAIPU", Latitude: -33.5101, Longitude: -70.7566},
			{Code: "B-002", BusinessName: "Botillería El Sol", Address: "Gran Avenida 5500", Area: "SAN MIGUEL", Latitude: -33.4962, Longitude: -70.6510},
		}
		if diff := cmp.Diff(want, records); diff != "" {
			t.Fatalf("projection mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("text values are not altered", func(t *testing.T) {
		table := registryTable([]string{"1", " B-003 ", "", "  Kiosko  ", "Calle 1 ", " MAIPU", "", "-33.5", "-70.7"})

		records, err := Project(table, DefaultColumns)
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, " B-003 ", records[0].Code)
		assert.Equal(t, "  Kiosko  ", records[0].BusinessName)
		assert.Equal(t, "Calle 1 ", records[0].Address)
		assert.Equal(t, " MAIPU", records[0].Area)
	})

	t.Run("short rows project missing cells as empty", func(t *testing.T) {
		table := registryTable([]string{"1", "B-004", "", "Panadería"})

		records, err := Project(table, DefaultColumns)
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, "B-004", records[0].Code)
		assert.Empty(t, records[0].Area)
		assert.True(t, math.IsNaN(records[0].Latitude))
		assert.True(t, math.IsNaN(records[0].Longitude))
	})

	t.Run("invalid coordinates become NaN", func(t *testing.T) {
		table := registryTable([]string{"1", "B-005", "", "Ferretería", "Los Pajaritos 10", "MAIPU", "", "sin dato", "-70.7"})

		records, err := Project(table, DefaultColumns)
		require.NoError(t, err)

		assert.True(t, math.IsNaN(records[0].Latitude))
		assert.Equal(t, -70.7, records[0].Longitude)
	})

	t.Run("header whitespace is ignored and first match wins", func(t *testing.T) {
		table := RawTable{
			Source: testSource,
			Header: []string{" CODIGO ", "NOMBRE FANTASIA", "CERRO BLANCO 625", "MAIPU", "LATITUD", "LONGITUD", "MAIPU"},
			Rows:   [][]string{{"B-006", "Librería", "Pje. Uno 2", "PUDAHUEL", "-33.44", "-70.76", "OTRA"}},
		}

		records, err := Project(table, DefaultColumns)
		require.NoError(t, err)

		assert.Equal(t, "B-006", records[0].Code)
		assert.Equal(t, "PUDAHUEL", records[0].Area)
	})

	t.Run("no data rows", func(t *testing.T) {
		records, err := Project(registryTable(), DefaultColumns)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestProject_MissingColumns(t *testing.T) {
	table := RawTable{
		Source: testSource,
		Header: []string{"CODIGO", "NOMBRE FANTASIA", "LATITUD"},
		Rows:   [][]string{{"B-001", "Kiosko", "-33.5"}},
	}

	records, err := Project(table, DefaultColumns)
	require.Error(t, err)
	assert.Nil(t, records)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, testSource, schemaErr.Source)
	assert.Equal(t, []string{"CERRO BLANCO 625", "MAIPU", "LONGITUD"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "MAIPU")
}

func TestParseCoordinate(t *testing.T) {
	assert.Equal(t, -33.4489, parseCoordinate("-33.4489"))
	assert.Equal(t, -70.6693, parseCoordinate("  -70.6693 "))
	assert.True(t, math.IsNaN(parseCoordinate("")))
	assert.True(t, math.IsNaN(parseCoordinate("N/A")))
}
