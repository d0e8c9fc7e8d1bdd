package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/travel-planner/database"
	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// createHandler serves the multi-step creation form. Its state lives in a
// draft keyed by the browser session.
type createHandler struct {
	responder Responder
	logger    zerolog.Logger
	client    travelAPI
	drafts    database.DraftRepo
	artworks  database.ArtworkCache
	searcher  artworkSearcher
}

func newCreateHandler(client travelAPI, drafts database.DraftRepo, artworks database.ArtworkCache, searcher artworkSearcher) createHandler {
	logger := log.With().Str("handlerName", "createHandler").Logger()
	return createHandler{
		responder: NewResponder(logger),
		logger:    logger,
		client:    client,
		drafts:    drafts,
		artworks:  artworks,
		searcher:  searcher,
	}
}

// loadDraft returns the session's draft, or a fresh one.
func (h createHandler) loadDraft(r *http.Request) (*models.TripDraft, error) {
	sessionID, err := ctxGetSessionID(r.Context())
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("missing session", err)
	}
	draft, err := h.drafts.FindByID(r.Context(), sessionID)
	if errs.IsNotFound(err) {
		return models.NewTripDraft(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// saveForm loads the draft and stores the typed metadata in it. Every action
// of the form goes through here first.
func (h createHandler) saveForm(r *http.Request) (*models.TripDraft, error) {
	draft, err := h.loadDraft(r)
	if err != nil {
		return nil, err
	}
	draft.SetDetails(r.FormValue("name"), r.FormValue("description"), r.FormValue("start_date"))
	if err := h.drafts.Save(r.Context(), draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (h createHandler) render(w http.ResponseWriter, r *http.Request, status int, draft *models.TripDraft, query, errMsg string) {
	if draft == nil {
		draft = models.NewTripDraft("")
	}
	search := h.searcher.widget(r.Context(), query, draft.SelectedIDs())
	search.InForm = true
	search.SearchAction = "/projects/new/search"
	search.AddAction = "/projects/new/places"

	h.responder.RenderHTML(w, status, pageNew, newPageView{
		pageMeta:  pageMeta{Title: "Create New Project"},
		Draft:     draft,
		Search:    search,
		Error:     errMsg,
		MaxPlaces: models.MaxPlacesPerProject,
	})
}

func (h createHandler) fail(w http.ResponseWriter, r *http.Request, draft *models.TripDraft, query string, err error, fallback string) {
	h.logger.Warn().Err(err).Msg(fallback)
	h.render(w, r, errs.StatusCode(err), draft, query, errs.Message(err, fallback))
}

func newProjectURL(query string) string {
	if query == "" {
		return "/projects/new"
	}
	return "/projects/new?" + url.Values{"q": {query}}.Encode()
}

// newProject is GET /projects/new[?q=]
func (h createHandler) newProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		draft, err := h.loadDraft(r)
		if err != nil {
			h.fail(w, r, nil, query, err, "Failed to load draft")
			return
		}
		h.render(w, r, http.StatusOK, draft, query, "")
	}
}

// search is POST /projects/new/search
func (h createHandler) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.FormValue("q")
		if _, err := h.saveForm(r); err != nil {
			h.fail(w, r, nil, query, err, "Failed to save draft")
			return
		}
		h.responder.Redirect(w, r, newProjectURL(query))
	}
}

// addArtwork is POST /projects/new/places
func (h createHandler) addArtwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.FormValue("q")
		draft, err := h.saveForm(r)
		if err != nil {
			h.fail(w, r, draft, query, err, "Failed to save draft")
			return
		}

		if err := draft.CheckLimit(); err != nil {
			h.render(w, r, errs.StatusCode(err), draft, query, errs.Message(err, "Failed to add place"))
			return
		}
		artworkID, err := strconv.Atoi(r.FormValue("artwork_id"))
		if err != nil {
			h.fail(w, r, draft, query, errs.NewInvalidFieldError("artwork_id", "Invalid artwork id."), "Failed to add place")
			return
		}
		artwork, err := h.artworks.Get(r.Context(), artworkID)
		if err != nil {
			if errs.IsNotFound(err) {
				err = errs.NewInvalidFieldError("artwork_id", "Artwork not found. Search again to add it.")
			}
			h.fail(w, r, draft, query, err, "Failed to add place")
			return
		}

		changed, err := draft.AddArtwork(*artwork)
		if err != nil {
			h.render(w, r, errs.StatusCode(err), draft, query, errs.Message(err, "Failed to add place"))
			return
		}
		if changed {
			if err := h.drafts.Save(r.Context(), draft); err != nil {
				h.fail(w, r, draft, query, err, "Failed to save draft")
				return
			}
		}
		h.responder.Redirect(w, r, newProjectURL(query))
	}
}

// removeArtwork is POST /projects/new/places/{artworkID}/delete
func (h createHandler) removeArtwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.FormValue("q")
		draft, err := h.saveForm(r)
		if err != nil {
			h.fail(w, r, draft, query, err, "Failed to save draft")
			return
		}

		artworkID, err := strconv.Atoi(chi.URLParam(r, "artworkID"))
		if err != nil {
			h.fail(w, r, draft, query, errs.NewInvalidFieldError("artwork_id", "Invalid artwork id."), "Failed to remove place")
			return
		}
		draft.RemoveArtwork(artworkID)
		if err := h.drafts.Save(r.Context(), draft); err != nil {
			h.fail(w, r, draft, query, err, "Failed to save draft")
			return
		}
		h.responder.Redirect(w, r, newProjectURL(query))
	}
}

// createProject is POST /projects/new
func (h createHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.FormValue("q")
		draft, err := h.saveForm(r)
		if err != nil {
			h.fail(w, r, draft, query, err, "Failed to save draft")
			return
		}

		in, err := draft.CreateInput()
		if err != nil {
			h.render(w, r, errs.StatusCode(err), draft, query, errs.Message(err, "Failed to create project"))
			return
		}

		project, err := h.client.CreateProject(r.Context(), in)
		if err != nil {
			h.fail(w, r, draft, query, err, "Failed to create project")
			return
		}

		if err := h.drafts.Delete(r.Context(), draft.ID); err != nil {
			h.logger.Warn().Err(err).Str("draftID", draft.ID).Msg("failed to discard draft after create")
		}
		h.logger.Info().Int("projectID", project.ID).Int("places", len(in.Places)).Msg("project created")
		h.responder.Redirect(w, r, fmt.Sprintf("/projects/%d", project.ID))
	}
}

// cancel is POST /projects/new/cancel
func (h createHandler) cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID, err := ctxGetSessionID(r.Context()); err == nil {
			if err := h.drafts.Delete(r.Context(), sessionID); err != nil {
				h.logger.Warn().Err(err).Msg("failed to discard draft")
			}
		}
		h.responder.Redirect(w, r, "/")
	}
}
