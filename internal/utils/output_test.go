package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var places = []Place{
	{Query: "paris", Lng: 2.3522, Lat: 48.8566, Source: "cache"},
	{Query: "Chengdu, Sichuan", Lng: 104.066, Lat: 30.5728, Source: "amap", Address: "四川省成都市"},
}

func render(t *testing.T, f OutputFormat) string {
	t.Helper()
	out, err := NewRenderer(&RenderConfig{Format: f, Width: 60}).RenderPlaces(places)
	require.NoError(t, err)
	return out
}

func TestRenderPlaces_JSON(t *testing.T) {
	var got []Place
	require.NoError(t, json.Unmarshal([]byte(render(t, FormatJSON)), &got))
	assert.Equal(t, places, got)
}

func TestRenderPlaces_CSVQuotesCommas(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(render(t, FormatCSV)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "paris,2.352200,48.856600,cache,", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `"Chengdu, Sichuan",`))
}

func TestRenderPlaces_Quiet(t *testing.T) {
	assert.Equal(t, "2.352200,48.856600\n104.066000,30.572800\n", render(t, FormatQuiet))
}

func TestRenderPlaces_Default(t *testing.T) {
	out := render(t, FormatDefault)
	assert.Contains(t, out, "Places")
	assert.Contains(t, out, "四川省成都市")
}

func TestRenderAnswer(t *testing.T) {
	r := NewRenderer(&RenderConfig{Format: FormatCompact})
	out, err := r.RenderAnswer(Answer{Location: "Paris", Question: "food?", Reply: "Crêpes."})
	require.NoError(t, err)
	assert.Equal(t, "Crêpes.\n", out)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat(" JSON "))
	assert.Equal(t, FormatDefault, ParseFormat("table"))
}
