package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Melanieheviap/DataViz-S5/internal/domain"
	"github.com/Melanieheviap/DataViz-S5/internal/observability"
	"github.com/Melanieheviap/DataViz-S5/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	table domain.RawTable
	err   error
	calls atomic.Int64
}

func (m *mockSource) Load(_ context.Context) (domain.RawTable, error) {
	m.calls.Add(1)
	return m.table, m.err
}

// --- helpers ---

var loadTime = time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)

func registrySource() *mockSource {
	return &mockSource{table: domain.RawTable{
		Source: "carga-bip.xlsx",
		Sheet:  "Sheet1",
		Header: []string{"CODIGO", "NOMBRE FANTASIA", "CERRO BLANCO 625", "MAIPU", "LATITUD", "LONGITUD"},
		Rows: [][]string{
			{"a1", "Kiosko Uno", "Calle 1", "A", "-33.0", "-70.0"},
			{"b1", "Bazar Dos", "Calle 2", "B", "-34.0", "-71.0"},
			{"x1", "Sin Comuna", "Calle 3", "", "-35.0", "-72.0"},
			{"a2", "Kiosko Tres", "Calle 4", "A", "-33.5", "-70.5"},
		},
	}}
}

func newPipeline(src pipeline.Source) (*pipeline.Pipeline, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(src, domain.DefaultFallback, clockwork.NewFakeClockAt(loadTime), logger, metrics)
	return p, metrics
}

func codes(records []domain.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Code)
	}
	return out
}

// --- tests ---

func TestPipeline_Load(t *testing.T) {
	src := registrySource()
	p, metrics := newPipeline(src)

	require.Error(t, p.CheckReadiness(context.Background()))

	ds, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "carga-bip.xlsx", ds.Source)
	assert.Equal(t, []string{"a1", "b1", "a2"}, codes(ds.Records))
	assert.Equal(t, []string{"A", "B"}, ds.Areas)
	assert.Equal(t, 1, ds.Dropped)
	assert.Equal(t, loadTime, ds.LoadedAt)
	require.NoError(t, p.CheckReadiness(context.Background()))

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.SourceRecords), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsDropped), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CatalogSize), 0)
}

func TestPipeline_Load_ReadsSourceOnce(t *testing.T) {
	src := registrySource()
	p, _ := newPipeline(src)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Render(context.Background(), domain.NewSelection("A"))
		}()
	}
	wg.Wait()

	_, err := p.Areas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), src.calls.Load())
}

func TestPipeline_Load_SourceError(t *testing.T) {
	loadErr := &domain.LoadError{Source: "carga-bip.xlsx", Err: errors.New("no such file")}
	src := &mockSource{err: loadErr}
	p, _ := newPipeline(src)

	_, err := p.Load(context.Background())
	require.ErrorIs(t, err, loadErr)

	// The failure is cached, not retried.
	_, err = p.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(1), src.calls.Load())
	assert.Error(t, p.CheckReadiness(context.Background()))

	_, err = p.Render(context.Background(), domain.Selection{})
	var target *domain.LoadError
	assert.True(t, errors.As(err, &target))
}

func TestPipeline_Load_SchemaError(t *testing.T) {
	src := &mockSource{table: domain.RawTable{
		Source: "carga-bip.xlsx",
		Header: []string{"CODIGO", "NOMBRE FANTASIA"},
	}}
	p, _ := newPipeline(src)

	_, err := p.Load(context.Background())

	var schemaErr *domain.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, "MAIPU")
}

func TestPipeline_Areas_ReturnsCopy(t *testing.T) {
	p, _ := newPipeline(registrySource())

	areas, err := p.Areas(context.Background())
	require.NoError(t, err)
	areas[0] = "mutated"

	again, err := p.Areas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, again)
}

func TestPipeline_Render(t *testing.T) {
	p, metrics := newPipeline(registrySource())

	t.Run("empty selection shows everything", func(t *testing.T) {
		view, err := p.Render(context.Background(), domain.Selection{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "b1", "a2"}, codes(view.Records))
		assert.False(t, view.Empty)
		assert.InDelta(t, (-33.0+-34.0+-33.5)/3, view.Centroid.Geo.Lat, 1e-12)
		assert.InDelta(t, (-70.0+-71.0+-70.5)/3, view.Centroid.Geo.Lon, 1e-12)
	})

	t.Run("selection narrows", func(t *testing.T) {
		view, err := p.Render(context.Background(), domain.NewSelection("A"))
		require.NoError(t, err)
		want := domain.Geo{Lat: -33.25, Lon: -70.25}
		if diff := cmp.Diff(want, view.Centroid.Geo); diff != "" {
			t.Fatalf("centroid mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []string{"a1", "a2"}, codes(view.Records))
	})

	t.Run("unknown area yields empty view with fallback", func(t *testing.T) {
		view, err := p.Render(context.Background(), domain.NewSelection("Z"))
		require.NoError(t, err)
		assert.True(t, view.Empty)
		assert.Empty(t, view.Records)
		assert.True(t, view.Centroid.Fallback)
		assert.Equal(t, domain.DefaultFallback, view.Centroid.Geo)
	})

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.Renders), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.EmptyViews), 0)
}
