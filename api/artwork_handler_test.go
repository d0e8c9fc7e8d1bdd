package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rpupo63/travel-planner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchArtworksAPI(t *testing.T) {
	app := newTestApp(t)

	res := app.get("/api/artworks/search?q=monet&limit=1")
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.header.Get("Content-Type"), "application/json")

	var body models.ArtworkSearchResponse
	require.NoError(t, json.Unmarshal([]byte(res.body), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, 16568, body.Results[0].ID)

	// results are remembered for the creation form
	cached, err := app.store.Artworks().Get(context.Background(), 16568)
	require.NoError(t, err)
	assert.Equal(t, "Water Lilies", cached.Title)
}

func TestSearchArtworksClampsLimit(t *testing.T) {
	app := newTestApp(t)

	res := app.get("/api/artworks/search?q=monet&limit=5000")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, maxSearchLimit, app.backend.lastLimit)

	app.get("/api/artworks/search?q=monet&limit=25")
	assert.Equal(t, 25, app.backend.lastLimit)
}

func TestSearchArtworksRequiresQuery(t *testing.T) {
	app := newTestApp(t)

	res := app.get("/api/artworks/search?q=%20%20")
	assert.Equal(t, http.StatusBadRequest, res.status)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(res.body), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "q", body.Field)
	assert.Equal(t, 0, app.backend.searches)
}

func TestSearchArtworksCORS(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/api/artworks/search?q=monet", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://allowed.example")
	res := app.do(req)
	assert.Equal(t, "https://allowed.example", res.header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, app.server.URL+"/api/artworks/search?q=monet", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	res = app.do(req)
	assert.Empty(t, res.header.Get("Access-Control-Allow-Origin"))
}

func TestQueryInt(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/?page=3&limit=0&bad=x", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, queryInt(req, "page", 1))
	assert.Equal(t, 10, queryInt(req, "limit", 10))
	assert.Equal(t, 7, queryInt(req, "bad", 7))
	assert.Equal(t, 1, queryInt(req, "missing", 1))
}
