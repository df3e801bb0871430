package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

func TestWriteFormats(t *testing.T) {
	t.Parallel()

	airport := models.AirportInfo{IATACode: "DUB", Name: "Dublin Airport", CityName: "Dublin"}

	var js bytes.Buffer
	require.NoError(t, write(&js, "json", airport))
	assert.Contains(t, js.String(), `"iata_code": "DUB"`)

	var y bytes.Buffer
	require.NoError(t, write(&y, "YAML", airport))
	assert.Contains(t, y.String(), "iata_code: DUB")
	assert.Contains(t, y.String(), "city_name: Dublin")

	require.Error(t, write(&bytes.Buffer{}, "xml", airport))
}

func TestSearchFlagsRequest(t *testing.T) {
	t.Parallel()

	f := searchFlags{
		from:        "dub",
		to:          "any",
		date:        "2025-07-01",
		flex:        2,
		adults:      2,
		connections: 0,
		maxPrice:    99.5,
	}
	req := f.request()
	require.NoError(t, req.Normalize(models.RequestDefaults{Currency: "EUR", MaxFlexDays: 7}))

	assert.True(t, req.IsAnyDestination())
	assert.Equal(t, 2, req.DepartureFlex())
	assert.Equal(t, 0, req.Connections())
	assert.Equal(t, 99.5, *req.MaxPrice)
	assert.Nil(t, req.ReturnDate)
	assert.Equal(t, "EUR", req.Currency)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "flightscan dev\n", out.String())
}
