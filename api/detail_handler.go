package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type detailHandler struct {
	responder Responder
	logger    zerolog.Logger
	client    travelAPI
	searcher  artworkSearcher
}

func newDetailHandler(client travelAPI, searcher artworkSearcher) detailHandler {
	logger := log.With().Str("handlerName", "detailHandler").Logger()
	return detailHandler{
		responder: NewResponder(logger),
		logger:    logger,
		client:    client,
		searcher:  searcher,
	}
}

// detailState is what the page shows besides the project itself.
type detailState struct {
	showSearch   bool
	query        string
	editingNotes int
	// typed notes to show instead of the stored ones
	notesDraft *string
	modal      *modalView
}

func urlIntParam(r *http.Request, name, label string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, errs.NewBadRequestError(fmt.Sprintf("Invalid %s id.", label))
	}
	return id, nil
}

// loadProject fetches the project named in the URL. On failure the error
// page has already been written.
func (h detailHandler) loadProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	projectID, err := urlIntParam(r, "projectID", "project")
	if err == nil {
		var project *models.Project
		project, err = h.client.GetProject(r.Context(), projectID)
		if err == nil {
			return project, true
		}
	}

	event := h.logger.Warn()
	if errs.IsBadRequest(err) {
		event = h.logger.Debug()
	}
	event.Err(err).Str("projectID", chi.URLParam(r, "projectID")).Msg("failed to load project")
	h.responder.RenderHTML(w, errs.StatusCode(err), pageDetail, detailPageView{
		pageMeta: pageMeta{Title: "Project"},
		Error:    errs.Message(err, "Failed to load project"),
	})
	return nil, false
}

func (h detailHandler) render(w http.ResponseWriter, r *http.Request, status int, project *models.Project, state detailState) {
	view := detailPageView{
		pageMeta:   pageMeta{Title: project.Name, Modal: state.modal},
		Project:    project,
		ShowSearch: state.showSearch,
		Places:     make([]placeCardView, 0, len(project.Places)),
	}
	for _, place := range project.Places {
		card := placeCardView{
			ProjectID:    project.ID,
			Place:        place,
			EditingNotes: place.ID == state.editingNotes,
			NotesValue:   place.Notes,
		}
		if card.EditingNotes && state.notesDraft != nil {
			card.NotesValue = *state.notesDraft
		}
		view.Places = append(view.Places, card)
	}
	if state.showSearch && project.CanAddPlace() {
		view.Search = h.searcher.widget(r.Context(), state.query, project.ExternalIDs())
		view.Search.SearchAction = fmt.Sprintf("/projects/%d", project.ID)
		view.Search.AddAction = fmt.Sprintf("/projects/%d/places", project.ID)
	}
	h.responder.RenderHTML(w, status, pageDetail, view)
}

func (h detailHandler) renderError(w http.ResponseWriter, r *http.Request, project *models.Project, state detailState, err error, fallback string) {
	state.modal = errorModal("Error", errs.Message(err, fallback), fmt.Sprintf("/projects/%d", project.ID))
	h.render(w, r, errs.StatusCode(err), project, state)
}

// getProject is GET /projects/{projectID}[?search=1&q=][?notes={placeID}]
func (h detailHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}
		query := r.URL.Query()
		editingNotes, _ := strconv.Atoi(query.Get("notes"))
		h.render(w, r, http.StatusOK, project, detailState{
			showSearch:   query.Get("search") == "1",
			query:        query.Get("q"),
			editingNotes: editingNotes,
		})
	}
}

// addPlace is POST /projects/{projectID}/places
func (h detailHandler) addPlace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}
		state := detailState{showSearch: true, query: r.FormValue("q")}

		externalID, err := strconv.Atoi(r.FormValue("external_id"))
		if err != nil {
			h.renderError(w, r, project, state, errs.NewInvalidFieldError("external_id", "Invalid artwork id."), "Failed to add place")
			return
		}
		if !project.CanAddPlace() {
			h.renderError(w, r, project, state,
				errs.NewLimitExceededError("places", fmt.Sprintf("Maximum %d places per project.", models.MaxPlacesPerProject)), "Failed to add place")
			return
		}
		if project.HasExternalID(externalID) {
			h.renderError(w, r, project, state,
				errs.NewInvalidFieldError("external_id", "This artwork is already in the project."), "Failed to add place")
			return
		}

		place, err := h.client.AddPlace(r.Context(), project.ID, models.PlaceInput{ExternalID: externalID})
		if err != nil {
			h.logger.Warn().Err(err).Int("projectID", project.ID).Int("externalID", externalID).Msg("failed to add place")
			h.renderError(w, r, project, state, err, "Failed to add place")
			return
		}

		project.AppendPlace(*place)
		h.render(w, r, http.StatusOK, project, state)
	}
}

func (h detailHandler) editModal(project *models.Project, name, description, startDate string) *modalView {
	return &modalView{
		Title:      "Edit Project",
		CloseURL:   fmt.Sprintf("/projects/%d", project.ID),
		FormAction: fmt.Sprintf("/projects/%d/edit", project.ID),
		Fields: []formField{
			{Label: "Name *", Name: "name", Type: "text", Value: name, Required: true},
			{Label: "Description", Name: "description", Type: "textarea", Value: description},
			{Label: "Start Date", Name: "start_date", Type: "date", Value: startDate},
		},
		Actions: []modalAction{
			{Label: "Cancel", URL: fmt.Sprintf("/projects/%d", project.ID)},
			{Label: "Save", Class: "button-primary", Submit: true},
		},
	}
}

// editProject is GET /projects/{projectID}/edit
func (h detailHandler) editProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}
		h.render(w, r, http.StatusOK, project, detailState{
			modal: h.editModal(project, project.Name, project.Description, project.StartDate),
		})
	}
}

// updateProject is POST /projects/{projectID}/edit
func (h detailHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}

		in, err := models.NewUpdateProjectInput(r.FormValue("name"), r.FormValue("description"), r.FormValue("start_date"))
		if err != nil {
			h.renderError(w, r, project, detailState{}, err, "Failed to update project")
			return
		}

		updated, err := h.client.UpdateProject(r.Context(), project.ID, in)
		if err != nil {
			h.logger.Warn().Err(err).Int("projectID", project.ID).Msg("failed to update project")
			h.renderError(w, r, project, detailState{}, err, "Failed to update project")
			return
		}

		project.Merge(*updated)
		h.render(w, r, http.StatusOK, project, detailState{})
	}
}

// toggleVisited is POST /projects/{projectID}/places/{placeID}/visited
func (h detailHandler) toggleVisited() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}
		place, err := h.findPlace(r, project)
		if err != nil {
			h.renderError(w, r, project, detailState{}, err, "Failed to update")
			return
		}

		visited := !place.Visited
		updated, err := h.client.UpdatePlace(r.Context(), project.ID, place.ID, models.UpdatePlaceInput{Visited: &visited})
		if err != nil {
			h.logger.Warn().Err(err).Int("projectID", project.ID).Int("placeID", place.ID).Msg("failed to toggle visited")
			h.renderError(w, r, project, detailState{}, err, "Failed to update")
			return
		}

		project.ApplyPlaceUpdate(*updated)
		h.render(w, r, http.StatusOK, project, detailState{})
	}
}

// saveNotes is POST /projects/{projectID}/places/{placeID}/notes
func (h detailHandler) saveNotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}
		place, err := h.findPlace(r, project)
		if err != nil {
			h.renderError(w, r, project, detailState{}, err, "Failed to save notes")
			return
		}

		notes := r.FormValue("notes")
		updated, err := h.client.UpdatePlace(r.Context(), project.ID, place.ID, models.UpdatePlaceInput{Notes: &notes})
		if err != nil {
			h.logger.Warn().Err(err).Int("projectID", project.ID).Int("placeID", place.ID).Msg("failed to save notes")
			h.renderError(w, r, project, detailState{editingNotes: place.ID, notesDraft: &notes}, err, "Failed to save notes")
			return
		}

		project.ApplyPlaceUpdate(*updated)
		h.render(w, r, http.StatusOK, project, detailState{})
	}
}

func (h detailHandler) findPlace(r *http.Request, project *models.Project) (*models.Place, error) {
	placeID, err := urlIntParam(r, "placeID", "place")
	if err != nil {
		return nil, err
	}
	place, ok := project.FindPlace(placeID)
	if !ok {
		return nil, errs.NewNotFoundError("Place not found.")
	}
	return place, nil
}
