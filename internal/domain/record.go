package domain

import "time"

// RawTable is one sheet as read from the source, before projection.
// Rows may be shorter than Header when trailing cells are empty.
type RawTable struct {
	Source string
	Sheet  string
	Header []string
	Rows   [][]string
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Record is one business location after projection.
type Record struct {
	Code         string  `json:"code"`
	BusinessName string  `json:"business_name"`
	Address      string  `json:"address"`
	Area         string  `json:"area"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Centroid is the mean position of a view. Fallback is set when the view was
// empty and Geo holds the configured default instead of a mean.
type Centroid struct {
	Geo      Geo  `json:"geo"`
	Fallback bool `json:"fallback"`
}

// Dataset is the loaded, projected and null-filtered record set together with
// its area catalog. It is built once per process and never mutated afterwards.
type Dataset struct {
	Source   string
	Records  []Record
	Areas    []string
	Dropped  int
	LoadedAt time.Time
}

// View is the result of one render: the filtered records and their centroid.
type View struct {
	Selection []string
	Records   []Record
	Centroid  Centroid
	Empty     bool
}
