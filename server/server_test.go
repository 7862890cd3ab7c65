package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amonks/encore/artwork"
	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/data"
	"github.com/amonks/encore/recommend"
	"github.com/amonks/encore/server"
	"github.com/amonks/encore/similarity"
	"github.com/stretchr/testify/assert"
)

func newHandler(t *testing.T) http.Handler {
	store, err := catalog.New([]data.Song{
		{Title: "Song A", Artist: "Artist1"},
		{Title: "Song B", Artist: "Artist2"},
		{Title: "Song C", Artist: "Artist1"},
	}, similarity.Matrix{
		{1.0, 0.9, 0.2},
		{0.9, 1.0, 0.1},
		{0.2, 0.1, 1.0},
	})
	assert.NoError(t, err)

	return server.Handler(store, recommend.New(store, nil))
}

func get(h http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	return w
}

func TestSongs(t *testing.T) {
	w := get(newHandler(t), "/api/songs")
	assert.Equal(t, http.StatusOK, w.Code)

	var titles []string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &titles))
	assert.Equal(t, []string{"Song A", "Song B", "Song C"}, titles)
}

func TestRecommendations(t *testing.T) {
	w := get(newHandler(t), "/api/recommendations?song=Song+A")
	assert.Equal(t, http.StatusOK, w.Code)

	var recs []struct {
		Title    string  `json:"title"`
		Artist   string  `json:"artist"`
		Score    float64 `json:"score"`
		ImageURL string  `json:"image_url"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	assert.Len(t, recs, 2)
	assert.Equal(t, "Song B", recs[0].Title)
	assert.Equal(t, 0.9, recs[0].Score)
	assert.Equal(t, "Song C", recs[1].Title)
	assert.Equal(t, artwork.FallbackImageURL, recs[0].ImageURL)
}

func TestRecommendationsNotFound(t *testing.T) {
	w := get(newHandler(t), "/api/recommendations?song=Song+D")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "song not found")
}

func TestRecommendationsMissingParam(t *testing.T) {
	w := get(newHandler(t), "/api/recommendations")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndex(t *testing.T) {
	w := get(newHandler(t), "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<select")
	assert.Contains(t, w.Body.String(), "Song A")
}

func TestIndexWithSelection(t *testing.T) {
	w := get(newHandler(t), "/?song=Song+A")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Song B")
	assert.True(t, strings.Index(body, `src="`+artwork.FallbackImageURL+`"`) > 0)
}

func TestIndexNotFound(t *testing.T) {
	w := get(newHandler(t), "/?song=Song+D")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not found in the dataset")
}
