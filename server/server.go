// Package server is the web surface: a single page with a song
// selector, plus a small JSON API over the same recommender.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/data"
	"github.com/amonks/encore/recommend"
)

//go:embed index.html.tmpl
var indexTemplate string

func Run(ctx context.Context, store *catalog.Store, rec *recommend.Recommender, addr string) error {
	srv := http.Server{Addr: addr, Handler: Handler(store, rec)}

	errs := make(chan error)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			return err
		}
		return <-errs
	}
}

// Handler builds the route table. Split from Run so tests can exercise
// the routes without a listener.
func Handler(store *catalog.Store, rec *recommend.Recommender) http.Handler {
	h := &handler{
		store: store,
		rec:   rec,
		tmpl:  template.Must(template.New("index").Parse(indexTemplate)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /api/songs", h.songs)
	mux.HandleFunc("GET /api/recommendations", h.recommendations)
	return mux
}

type handler struct {
	store *catalog.Store
	rec   *recommend.Recommender
	tmpl  *template.Template
}

type indexPage struct {
	Titles          []string
	Selected        string
	Message         string
	Recommendations []data.Recommendation
}

func (h *handler) index(w http.ResponseWriter, req *http.Request) {
	page := indexPage{
		Titles:   h.store.Titles(),
		Selected: req.URL.Query().Get("song"),
	}

	if page.Selected != "" {
		recs, err := h.rec.For(req.Context(), page.Selected, recommend.DefaultCount)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			page.Message = "Selected song not found in the dataset."
		case err != nil:
			log.Printf("recommendation error for '%s': %s", page.Selected, err)
			page.Message = "Something went wrong. Try another song."
		case len(recs) == 0:
			page.Message = "No recommendations available. Try another song."
		default:
			page.Recommendations = recs
		}
	}

	w.Header().Set("Content-type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, page); err != nil {
		log.Printf("template error: %s", err)
	}
}

func (h *handler) songs(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Titles())
}

func (h *handler) recommendations(w http.ResponseWriter, req *http.Request) {
	title := req.URL.Query().Get("song")
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "song parameter is required"})
		return
	}

	count := recommend.DefaultCount
	if str := req.URL.Query().Get("count"); str != "" {
		parsed, err := strconv.Atoi(str)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "count must be a non-negative integer"})
			return
		}
		count = parsed
	}

	recs, err := h.rec.For(req.Context(), title, count)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "song not found"})
		return
	} else if err != nil {
		log.Printf("recommendation error for '%s': %s", title, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "recommendation failed"})
		return
	}

	out := make([]recommendation, len(recs))
	for i, rec := range recs {
		out[i] = recommendation{
			Title:    rec.Title,
			Artist:   rec.Artist,
			Score:    rec.Score,
			ImageURL: rec.ImageURL,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type recommendation struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Score    float64 `json:"score"`
	ImageURL string  `json:"image_url"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("json encode error: %s", err)
	}
}
