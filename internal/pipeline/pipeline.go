package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Melanieheviap/DataViz-S5/internal/domain"
	"github.com/Melanieheviap/DataViz-S5/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Source reads the raw record table.
type Source interface {
	Load(ctx context.Context) (domain.RawTable, error)
}

// Pipeline owns the loaded dataset and renders filtered views from it.
// The source is read at most once per Pipeline; every render reuses the
// in-memory dataset.
type Pipeline struct {
	source   Source
	mapping  []domain.ColumnMapping
	fallback domain.Geo
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	once    sync.Once
	dataset *domain.Dataset
	loadErr error
	ready   atomic.Bool
}

// New creates a Pipeline over source using the default column mapping.
// fallback centers views that match no records.
func New(source Source, fallback domain.Geo, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:   source,
		mapping:  domain.DefaultColumns,
		fallback: fallback,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once the dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("source has not been loaded")
	}
	return nil
}

// Load reads, projects and null-filters the source the first time it is
// called and returns the cached result (or error) on every later call.
func (p *Pipeline) Load(ctx context.Context) (*domain.Dataset, error) {
	p.once.Do(func() {
		p.dataset, p.loadErr = p.load(ctx)
		if p.loadErr == nil {
			p.ready.Store(true)
		}
	})
	return p.dataset, p.loadErr
}

func (p *Pipeline) load(ctx context.Context) (*domain.Dataset, error) {
	start := p.clock.Now()

	table, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	records, err := domain.Project(table, p.mapping)
	if err != nil {
		return nil, err
	}
	total := len(records)
	records = domain.DropEmptyArea(records)

	ds := &domain.Dataset{
		Source:   table.Source,
		Records:  records,
		Areas:    domain.AreaCatalog(records),
		Dropped:  total - len(records),
		LoadedAt: p.clock.Now(),
	}

	p.metrics.SourceRecords.Set(float64(len(ds.Records)))
	p.metrics.RecordsDropped.Set(float64(ds.Dropped))
	p.metrics.CatalogSize.Set(float64(len(ds.Areas)))
	p.metrics.SourceLoadDuration.Observe(p.clock.Since(start).Seconds())

	p.logger.Info("source loaded",
		"source", ds.Source,
		"sheet", table.Sheet,
		"records", len(ds.Records),
		"dropped_empty_area", ds.Dropped,
		"areas", len(ds.Areas),
	)
	return ds, nil
}

// Areas returns a copy of the area catalog.
func (p *Pipeline) Areas(ctx context.Context) ([]string, error) {
	ds, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), ds.Areas...), nil
}

// Render filters the dataset by sel and computes the centroid of the result.
// A selection matching nothing is not an error: the returned view is marked
// Empty and centered on the fallback coordinate.
func (p *Pipeline) Render(ctx context.Context, sel domain.Selection) (domain.View, error) {
	ds, err := p.Load(ctx)
	if err != nil {
		return domain.View{}, fmt.Errorf("render: %w", err)
	}

	start := p.clock.Now()
	view, err := domain.BuildView(ds, sel, p.fallback)
	p.metrics.Renders.Inc()
	p.metrics.RenderDuration.Observe(p.clock.Since(start).Seconds())
	p.metrics.ViewSize.Observe(float64(len(view.Records)))

	if errors.Is(err, domain.ErrEmptyView) {
		p.metrics.EmptyViews.Inc()
		p.logger.Warn("empty view",
			"selection", view.Selection,
			"fallback_lat", view.Centroid.Geo.Lat,
			"fallback_lon", view.Centroid.Geo.Lon,
		)
		return view, nil
	}
	return view, err
}
