package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Melanieheviap/DataViz-S5/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Reader loads one sheet of an Excel workbook as a raw table.
// It implements pipeline.Source.
type Reader struct {
	path      string
	sheet     string
	headerRow int
	logger    *slog.Logger
}

// NewReader creates a Reader for the workbook at path. An empty sheet selects
// the first sheet. headerRow is the zero-based index of the header row; the
// rows above it are skipped.
func NewReader(path, sheet string, headerRow int, logger *slog.Logger) *Reader {
	return &Reader{
		path:      path,
		sheet:     sheet,
		headerRow: headerRow,
		logger:    logger,
	}
}

// Identity returns the workbook path.
func (r *Reader) Identity() string { return r.path }

// Load opens the workbook and returns the header row and the non-blank data
// rows below it. Cells are read unformatted so coordinates keep full precision.
// All failures are reported as *domain.LoadError.
func (r *Reader) Load(ctx context.Context) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, r.loadError(err)
	}
	if r.headerRow < 0 {
		return domain.RawTable{}, r.loadError(fmt.Errorf("invalid header row %d", r.headerRow))
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return domain.RawTable{}, r.loadError(fmt.Errorf("open workbook: %w", err))
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("close workbook failed", "path", r.path, "error", err)
		}
	}()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return domain.RawTable{}, r.loadError(errors.New("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawTable{}, r.loadError(fmt.Errorf("read sheet %q: %w", sheet, err))
	}
	if len(rows) <= r.headerRow {
		return domain.RawTable{}, r.loadError(fmt.Errorf("sheet %q has %d rows, header expected at row %d", sheet, len(rows), r.headerRow+1))
	}

	data := make([][]string, 0, len(rows)-r.headerRow-1)
	skipped := 0
	for _, row := range rows[r.headerRow+1:] {
		if isBlank(row) {
			skipped++
			continue
		}
		data = append(data, row)
	}

	r.logger.Debug("workbook read",
		"path", r.path,
		"sheet", sheet,
		"rows", len(data),
		"blank_rows", skipped,
	)

	return domain.RawTable{
		Source: r.path,
		Sheet:  sheet,
		Header: rows[r.headerRow],
		Rows:   data,
	}, nil
}

func (r *Reader) loadError(err error) *domain.LoadError {
	return &domain.LoadError{Source: r.path, Err: err}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
