package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const listPageSize = 10

type listHandler struct {
	responder Responder
	logger    zerolog.Logger
	client    travelAPI
}

func newListHandler(client travelAPI) listHandler {
	logger := log.With().Str("handlerName", "listHandler").Logger()
	return listHandler{
		responder: NewResponder(logger),
		logger:    logger,
		client:    client,
	}
}

// listQuery reads page and status; unknown statuses mean no filter.
func listQuery(r *http.Request) (int, string) {
	return queryInt(r, "page", 1), models.ValidStatusFilter(r.URL.Query().Get("status"))
}

func (h listHandler) load(r *http.Request, page int, status string) listPageView {
	view := listPageView{
		pageMeta: pageMeta{Title: "Travel Projects"},
		Page:     page,
		Status:   status,
	}

	res, err := h.client.ListProjects(r.Context(), page, listPageSize, status)
	if err != nil {
		h.logger.Error().Err(err).Int("page", page).Str("status", status).Msg("failed to list projects")
		view.Error = errs.Message(err, "Failed to load projects")
		return view
	}

	view.Projects = res.Items
	view.Pages = res.Pages
	view.Cards = make([]projectCardView, 0, len(res.Items))
	for _, item := range res.Items {
		view.Cards = append(view.Cards, projectCardView{
			Project:   item,
			DeleteURL: withListQuery(fmt.Sprintf("/projects/%d/delete", item.ID), page, status),
		})
	}
	return view
}

// listProjects is GET /
func (h listHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, status := listQuery(r)
		h.responder.RenderHTML(w, http.StatusOK, pageList, h.load(r, page, status))
	}
}

// confirmDelete is GET /projects/{projectID}/delete: the list with the
// confirmation modal open.
func (h listHandler) confirmDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, status := listQuery(r)
		view := h.load(r, page, status)
		back := listURL(page, status)

		projectID, err := strconv.Atoi(chi.URLParam(r, "projectID"))
		if err != nil {
			view.Modal = errorModal("Cannot Delete Project", "Invalid project id.", back)
			h.responder.RenderHTML(w, http.StatusBadRequest, pageList, view)
			return
		}

		name, err := h.projectName(r, view.Projects, projectID)
		if err != nil {
			view.Modal = errorModal("Cannot Delete Project", errs.Message(err, "Failed to load project"), back)
			h.responder.RenderHTML(w, errs.StatusCode(err), pageList, view)
			return
		}

		view.Modal = &modalView{
			Title:      "Delete Project",
			Body:       "Are you sure you want to delete",
			Emphasis:   name,
			BodySuffix: "? This action cannot be undone.",
			CloseURL:   back,
			Actions: []modalAction{
				{Label: "Cancel", URL: back},
				{Label: "Delete", URL: withListQuery(fmt.Sprintf("/projects/%d/delete", projectID), page, status), Class: "button-danger", Post: true},
			},
		}
		h.responder.RenderHTML(w, http.StatusOK, pageList, view)
	}
}

// projectName finds the name on the current page, asking the backend only
// for projects that are not listed.
func (h listHandler) projectName(r *http.Request, items []models.ProjectListItem, projectID int) (string, error) {
	for _, item := range items {
		if item.ID == projectID {
			return item.Name, nil
		}
	}
	project, err := h.client.GetProject(r.Context(), projectID)
	if err != nil {
		return "", err
	}
	return project.Name, nil
}

// deleteProject is POST /projects/{projectID}/delete
func (h listHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, status := listQuery(r)

		projectID, err := strconv.Atoi(chi.URLParam(r, "projectID"))
		if err == nil {
			err = h.client.DeleteProject(r.Context(), projectID)
		} else {
			err = errs.NewBadRequestError("Invalid project id.")
		}
		if err != nil {
			h.logger.Warn().Err(err).Str("projectID", chi.URLParam(r, "projectID")).Msg("failed to delete project")
			view := h.load(r, page, status)
			view.Modal = errorModal("Cannot Delete Project", errs.Message(err, "Failed to delete project"), listURL(page, status))
			h.responder.RenderHTML(w, errs.StatusCode(err), pageList, view)
			return
		}

		h.logger.Info().Int("projectID", projectID).Msg("project deleted")
		h.responder.Redirect(w, r, listURL(page, status))
	}
}

// withListQuery appends the list position to path.
func withListQuery(path string, page int, status string) string {
	query := url.Values{}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}
	if status != "" {
		query.Set("status", status)
	}
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
