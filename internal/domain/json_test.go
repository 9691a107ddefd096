package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_JSON(t *testing.T) {
	r := Record{Code: "B-001", BusinessName: "Kiosko", Address: "Calle 1", Area: "MAIPU", Latitude: -33.5101, Longitude: -70.7566}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"B-001","business_name":"Kiosko","address":"Calle 1","area":"MAIPU","latitude":-33.5101,"longitude":-70.7566}`, string(data))

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestRecord_JSON_NaNIsNull(t *testing.T) {
	r := Record{Code: "B-002", Area: "MAIPU", Latitude: math.NaN(), Longitude: math.Inf(1)}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"latitude":null`)
	assert.Contains(t, string(data), `"longitude":null`)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.Latitude))
	assert.True(t, math.IsNaN(back.Longitude))
}

func TestGeo_JSON(t *testing.T) {
	data, err := json.Marshal(Centroid{Geo: Geo{Lat: math.NaN(), Lon: -70.5}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"geo":{"lat":null,"lon":-70.5},"fallback":false}`, string(data))

	var g Geo
	require.NoError(t, json.Unmarshal([]byte(`{"lat":-33.4489,"lon":-70.6693}`), &g))
	assert.Equal(t, DefaultFallback, g)
}
