// Package deck describes the map for the browser-side deck.gl widget: the
// initial camera, a scatterplot layer over the filtered records, and the hover
// tooltip. It produces data only; drawing happens in the browser.
package deck

import (
	"strconv"
	"strings"

	"github.com/Melanieheviap/DataViz-S5/internal/domain"
)

// TooltipHTML is the hover template. Placeholders name Record JSON fields and
// are substituted by deck.gl on the client, or by RenderTooltip on the server.
const TooltipHTML = "<b>Negocio: </b> {business_name} <br /> " +
	"<b>Dirección: </b> {address} <br /> " +
	"<b>Comuna: </b> {area} <br /> " +
	"<b>Código: </b> {code} <br /> " +
	"<b>Georeferencia (Lat, Lng): </b>[{latitude}, {longitude}] <br /> "

// Settings holds the camera parameters that are not derived from the data.
type Settings struct {
	Zoom  float64
	Pitch float64
}

// DefaultSettings is the report's camera: zoom 10, pitch 10.
var DefaultSettings = Settings{Zoom: 10, Pitch: 10}

// ViewState is the initial camera.
type ViewState struct {
	Latitude  domain.Coordinate `json:"latitude"`
	Longitude domain.Coordinate `json:"longitude"`
	Zoom      float64           `json:"zoom"`
	Pitch     float64           `json:"pitch"`
}

// Layer is a deck.gl layer description.
type Layer struct {
	Type               string          `json:"@@type"`
	ID                 string          `json:"id"`
	Data               []domain.Record `json:"data"`
	Pickable           bool            `json:"pickable"`
	GetPosition        string          `json:"getPosition"`
	Opacity            float64         `json:"opacity"`
	Filled             bool            `json:"filled"`
	RadiusScale        float64         `json:"radiusScale"`
	RadiusMinPixels    float64         `json:"radiusMinPixels"`
	RadiusMaxPixels    float64         `json:"radiusMaxPixels"`
	LineWidthMinPixels float64         `json:"lineWidthMinPixels"`
}

// Tooltip configures the hover popup.
type Tooltip struct {
	HTML string `json:"html"`
}

// Deck is the complete map description.
type Deck struct {
	MapStyle         *string   `json:"mapStyle"`
	InitialViewState ViewState `json:"initialViewState"`
	Layers           []Layer   `json:"layers"`
	Tooltip          Tooltip   `json:"tooltip"`
}

// Build describes the map for a rendered view. The camera is centered on the
// view's centroid, which is the fallback coordinate when the view is empty.
func Build(view domain.View, settings Settings) Deck {
	records := view.Records
	if records == nil {
		records = []domain.Record{}
	}
	return Deck{
		InitialViewState: ViewState{
			Latitude:  domain.Coordinate(view.Centroid.Geo.Lat),
			Longitude: domain.Coordinate(view.Centroid.Geo.Lon),
			Zoom:      settings.Zoom,
			Pitch:     settings.Pitch,
		},
		Layers: []Layer{{
			Type:               "ScatterplotLayer",
			ID:                 "businesses",
			Data:               records,
			Pickable:           true,
			GetPosition:        "@@=[longitude, latitude]",
			Opacity:            0.8,
			Filled:             true,
			RadiusScale:        2,
			RadiusMinPixels:    5,
			RadiusMaxPixels:    50,
			LineWidthMinPixels: 0.01,
		}},
		Tooltip: Tooltip{HTML: TooltipHTML},
	}
}

// RenderTooltip expands TooltipHTML for one record. Values are inserted
// verbatim, as deck.gl does.
func RenderTooltip(r domain.Record) string {
	return strings.NewReplacer(
		"{business_name}", r.BusinessName,
		"{address}", r.Address,
		"{area}", r.Area,
		"{code}", r.Code,
		"{latitude}", formatCoordinate(r.Latitude),
		"{longitude}", formatCoordinate(r.Longitude),
	).Replace(TooltipHTML)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
