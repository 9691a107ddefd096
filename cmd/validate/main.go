// Command validate checks a business workbook offline, the same way the
// server loads it at startup. It reports row counts, the area catalog, and
// the overall centroid, and flags records whose coordinates are missing or
// out of range.
//
// Usage:
//
//	go run ./cmd/validate -path carga-bip.xlsx [-sheet Hoja1] [-header-row 9]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/Melanieheviap/DataViz-S5/internal/adapter/xlsx"
	"github.com/Melanieheviap/DataViz-S5/internal/domain"
)

// maxListed caps per-record findings printed for one phase.
const maxListed = 20

// phase tracks findings for a validation phase. Only fatal phases affect the
// exit code.
type phase struct {
	name   string
	fatal  bool
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "carga-bip.xlsx", "path to the .xlsx workbook")
	sheet := fs.String("sheet", "", "sheet name (default: first sheet)")
	headerRow := fs.Int("header-row", 9, "zero-based index of the header row")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	reader := xlsx.NewReader(*path, *sheet, *headerRow, logger)

	fmt.Fprintln(stdout, "=== Business Workbook Validation ===")
	fmt.Fprintln(stdout)

	table, err := reader.Load(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: load: %v\n", err)
		return 1
	}

	records, err := domain.Project(table, domain.DefaultColumns)
	if err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			fmt.Fprintf(stderr, "FATAL: missing columns %q in %s\n", schemaErr.Missing, schemaErr.Source)
		} else {
			fmt.Fprintf(stderr, "FATAL: project: %v\n", err)
		}
		return 1
	}
	total := len(records)
	records = domain.DropEmptyArea(records)
	areas := domain.AreaCatalog(records)
	centroid := domain.ComputeCentroid(records, domain.DefaultFallback)

	phases := []*phase{
		checkNotEmpty(records),
		checkCoordinates(records),
		checkDuplicateCodes(records),
	}

	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			kind := "WARN"
			if p.fatal {
				kind = "FAIL"
			}
			status = fmt.Sprintf("%s (%d findings)", kind, len(p.errors))
		}
		fmt.Fprintf(stdout, "  %-36s %s\n", p.name, status)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Source: %s (sheet %q)\n", table.Source, table.Sheet)
	fmt.Fprintf(stdout, "Rows: %d read, %d dropped for empty area, %d kept\n", total, total-len(records), len(records))
	fmt.Fprintf(stdout, "Areas (%d):\n", len(areas))
	for _, a := range areas {
		fmt.Fprintf(stdout, "  %s\n", a)
	}
	fmt.Fprintf(stdout, "Centroid: %s, %s", formatCoord(centroid.Geo.Lat), formatCoord(centroid.Geo.Lon))
	if centroid.Fallback {
		fmt.Fprint(stdout, " (fallback)")
	}
	fmt.Fprintln(stdout)

	failed := false
	for _, p := range phases {
		if p.passed() {
			continue
		}
		failed = failed || p.fatal
		fmt.Fprintf(stdout, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxListed {
				fmt.Fprintf(stdout, "  ... %d more\n", len(p.errors)-maxListed)
				break
			}
			fmt.Fprintf(stdout, "  [%d] %s\n", i+1, e)
		}
	}

	if failed {
		fmt.Fprintln(stdout, "\nValidation FAILED.")
		return 1
	}
	fmt.Fprintln(stdout, "\nValidation passed.")
	return 0
}

func checkNotEmpty(records []domain.Record) *phase {
	p := &phase{name: "Records with an area", fatal: true}
	if len(records) == 0 {
		p.errorf("no record has a non-empty area")
	}
	return p
}

func checkCoordinates(records []domain.Record) *phase {
	p := &phase{name: "Coordinates"}
	for _, r := range records {
		switch {
		case math.IsNaN(r.Latitude) || math.IsNaN(r.Longitude):
			p.errorf("code %q (%s): missing coordinate", r.Code, r.BusinessName)
		case r.Latitude < -90 || r.Latitude > 90 || r.Longitude < -180 || r.Longitude > 180:
			p.errorf("code %q (%s): coordinate out of range [%g, %g]", r.Code, r.BusinessName, r.Latitude, r.Longitude)
		}
	}
	return p
}

func checkDuplicateCodes(records []domain.Record) *phase {
	p := &phase{name: "Unique codes"}
	seen := make(map[string]int, len(records))
	for _, r := range records {
		seen[r.Code]++
		if seen[r.Code] == 2 {
			p.errorf("code %q appears more than once", r.Code)
		}
	}
	return p
}

func formatCoord(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}
