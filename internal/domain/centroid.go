package domain

// DefaultFallback centers the map on Santiago, Chile when a view is empty. The
// registry only covers Chilean comunas, so this keeps the camera near the data.
var DefaultFallback = Geo{Lat: -33.4489, Lon: -70.6693}

// ComputeCentroid returns the unweighted mean latitude and longitude of
// records. Values are summed as-is, so a single NaN coordinate makes that
// component of the mean NaN. An empty slice has no mean; the fallback is
// returned with Fallback set.
func ComputeCentroid(records []Record, fallback Geo) Centroid {
	if len(records) == 0 {
		return Centroid{Geo: fallback, Fallback: true}
	}

	var sumLat, sumLon float64
	for _, r := range records {
		sumLat += r.Latitude
		sumLon += r.Longitude
	}
	n := float64(len(records))
	return Centroid{Geo: Geo{Lat: sumLat / n, Lon: sumLon / n}}
}

// BuildView runs the selection filter and centroid calculator over a dataset.
// It returns ErrEmptyView alongside a usable view when nothing matched.
func BuildView(ds *Dataset, sel Selection, fallback Geo) (View, error) {
	records := Select(ds.Records, sel)
	view := View{
		Selection: sel.Areas(),
		Records:   records,
		Centroid:  ComputeCentroid(records, fallback),
		Empty:     len(records) == 0,
	}
	if view.Empty {
		return view, ErrEmptyView
	}
	return view, nil
}
