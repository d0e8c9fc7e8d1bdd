package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/travel-planner/database"
	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	searchPageSize = 10
	maxSearchLimit = 100
)

// artworkSearcher runs catalog searches and remembers every result so the
// creation form can select an artwork by id afterwards.
type artworkSearcher struct {
	client travelAPI
	cache  database.ArtworkCache
	logger zerolog.Logger
}

func newArtworkSearcher(client travelAPI, cache database.ArtworkCache) artworkSearcher {
	return artworkSearcher{
		client: client,
		cache:  cache,
		logger: log.With().Str("handlerName", "artworkSearcher").Logger(),
	}
}

func (s artworkSearcher) search(ctx context.Context, q string, page, limit int) (*models.ArtworkSearchResponse, error) {
	res, err := s.client.SearchArtworks(ctx, q, page, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, res.Results); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache artwork results")
	}
	return res, nil
}

// widget fills the search widget for a query. Blank queries do not search.
func (s artworkSearcher) widget(ctx context.Context, query string, added map[int]bool) searchWidgetView {
	view := searchWidgetView{Query: query, Added: added}
	if view.Added == nil {
		view.Added = map[int]bool{}
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return view
	}

	res, err := s.search(ctx, q, 1, searchPageSize)
	if err != nil {
		view.Error = errs.Message(err, "Search failed")
		return view
	}
	view.Results = res.Results
	view.Searched = true
	return view
}

type artworkHandler struct {
	responder Responder
	logger    zerolog.Logger
	searcher  artworkSearcher
}

func newArtworkHandler(searcher artworkSearcher) artworkHandler {
	logger := log.With().Str("handlerName", "artworkHandler").Logger()
	return artworkHandler{
		responder: NewResponder(logger),
		logger:    logger,
		searcher:  searcher,
	}
}

// searchArtworks is GET /api/artworks/search?q=&page=&limit=
func (h artworkHandler) searchArtworks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("q", "query parameter q is required"))
			return
		}
		page := queryInt(r, "page", 1)
		limit := min(queryInt(r, "limit", searchPageSize), maxSearchLimit)

		res, err := h.searcher.search(r.Context(), q, page, limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, res)
	}
}

// queryInt reads a positive integer query parameter.
func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
