// Package domain models the business location records shown on the area map.
//
// # Data Source
//
// Records come from a single-sheet Excel workbook ("carga-bip.xlsx") exported by
// the upstream registry. The first nine rows hold a report banner, so the header
// row sits at zero-based offset 9. Data rows follow immediately after it.
//
// # Source Header Conventions
//
// Several headers in the export are not column names at all: the sheet was
// generated with the first data row promoted to the header. The affected
// columns carry that row's values as their labels:
//
//	"NOMBRE FANTASIA"   →  business_name (the trade name of the business)
//	"CERRO BLANCO 625"  →  address       (street address)
//	"MAIPU"             →  area          (the comuna, the administrative area)
//
// The remaining columns keep their meaning:
//
//	"CODIGO"    →  code       (registry code, unique per row)
//	"LATITUD"   →  latitude   (WGS-84 decimal degrees)
//	"LONGITUD"  →  longitude  (WGS-84 decimal degrees)
//
// The mapping lives in [DefaultColumns]. When the export format changes, that
// table is the only place that needs editing.
//
// # Missing Values
//
// Empty cells are the sheet's missing value. A record with an empty area cannot
// be grouped, so [DropEmptyArea] removes it. Empty or non-numeric coordinate
// cells become NaN and are kept: they propagate into [ComputeCentroid] the same
// way a naive mean would propagate them.
//
// # Selection Semantics
//
// An empty [Selection] means "show every record", not "show nothing". See [Select].
package domain
