package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Coordinate is a float64 that encodes NaN and ±Inf as JSON null, and decodes
// null back to NaN. encoding/json rejects non-finite floats, and a record with
// an unreadable coordinate still has to reach the client.
type Coordinate float64

func (c Coordinate) MarshalJSON() ([]byte, error) {
	v := float64(c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = Coordinate(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Coordinate(v)
	return nil
}

type recordJSON struct {
	Code         string     `json:"code"`
	BusinessName string     `json:"business_name"`
	Address      string     `json:"address"`
	Area         string     `json:"area"`
	Latitude     Coordinate `json:"latitude"`
	Longitude    Coordinate `json:"longitude"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Code:         r.Code,
		BusinessName: r.BusinessName,
		Address:      r.Address,
		Area:         r.Area,
		Latitude:     Coordinate(r.Latitude),
		Longitude:    Coordinate(r.Longitude),
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	aux := recordJSON{Latitude: Coordinate(math.NaN()), Longitude: Coordinate(math.NaN())}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Record{
		Code:         aux.Code,
		BusinessName: aux.BusinessName,
		Address:      aux.Address,
		Area:         aux.Area,
		Latitude:     float64(aux.Latitude),
		Longitude:    float64(aux.Longitude),
	}
	return nil
}

type geoJSON struct {
	Lat Coordinate `json:"lat"`
	Lon Coordinate `json:"lon"`
}

func (g Geo) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSON{Lat: Coordinate(g.Lat), Lon: Coordinate(g.Lon)})
}

func (g *Geo) UnmarshalJSON(data []byte) error {
	aux := geoJSON{Lat: Coordinate(math.NaN()), Lon: Coordinate(math.NaN())}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*g = Geo{Lat: float64(aux.Lat), Lon: float64(aux.Lon)}
	return nil
}
