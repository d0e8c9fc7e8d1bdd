package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/rpupo63/travel-planner/models"
	"github.com/stretchr/testify/assert"
)

func TestListEmpty(t *testing.T) {
	app := newTestApp(t)

	res := app.get("/")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Travel Projects")
	assert.Contains(t, res.body, "No projects yet.")
	assert.Contains(t, res.body, "Create your first project")
	assert.NotContains(t, res.body, "Page 1 of")
}

func TestListRendersCards(t *testing.T) {
	app := newTestApp(t)
	app.backend.seed(models.Project{
		Name:        "Paris",
		Description: "Museums",
		StartDate:   "2026-06-01",
		Places:      []models.Place{{ExternalID: 1, Title: "A"}},
	})
	app.backend.seed(models.Project{Name: "Rome", Places: []models.Place{{ExternalID: 1}, {ExternalID: 2}}})

	res := app.get("/")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, `href="/projects/1"`)
	assert.Contains(t, res.body, "Paris")
	assert.Contains(t, res.body, "Museums")
	assert.Contains(t, res.body, "Start: 2026-06-01")
	assert.Contains(t, res.body, "1 place<")
	assert.Contains(t, res.body, "2 places")
	assert.Contains(t, res.body, `href="/projects/2/delete"`)
}

func TestListPagination(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 12; i++ {
		app.backend.seed(models.Project{Name: fmt.Sprintf("Trip %02d", i+1)})
	}

	res := app.get("/?page=0")
	assert.Contains(t, res.body, "Page 1 of 2")
	assert.Contains(t, res.body, "Trip 10")
	assert.NotContains(t, res.body, "Trip 11")
	assert.Contains(t, res.body, `<span class="button disabled" aria-disabled="true">Previous</span>`)
	assert.Contains(t, res.body, `href="/?page=2"`)

	res = app.get("/?page=2")
	assert.Contains(t, res.body, "Page 2 of 2")
	assert.Contains(t, res.body, "Trip 12")
	assert.Contains(t, res.body, `<span class="button disabled" aria-disabled="true">Next</span>`)
	assert.Contains(t, res.body, `href="/"`)
}

func TestListStatusFilter(t *testing.T) {
	app := newTestApp(t)
	app.backend.seed(models.Project{Name: "Done trip", Status: models.StatusCompleted})
	app.backend.seed(models.Project{Name: "Open trip"})

	res := app.get("/?status=completed")
	assert.Contains(t, res.body, "Done trip")
	assert.NotContains(t, res.body, "Open trip")
	assert.Contains(t, res.body, `<option value="completed" selected>`)

	res = app.get("/?status=bogus")
	assert.Contains(t, res.body, "Done trip")
	assert.Contains(t, res.body, "Open trip")
}

func TestListLoadFailure(t *testing.T) {
	app := newTestApp(t)
	app.backend.server.Close()

	res := app.get("/")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "error-message")
	assert.NotContains(t, res.body, "No projects yet.")
}

func TestDeleteConfirmation(t *testing.T) {
	app := newTestApp(t)
	app.backend.seed(models.Project{Name: "Lisbon"})

	res := app.get("/projects/1/delete")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Delete Project")
	assert.Contains(t, res.body, "Are you sure you want to delete <strong>Lisbon</strong>? This action cannot be undone.")
	assert.Contains(t, res.body, `action="/projects/1/delete"`)
	assert.Contains(t, res.body, "Cancel")
}

func TestDeleteProject(t *testing.T) {
	app := newTestApp(t)
	app.backend.seed(models.Project{Name: "Lisbon", Status: models.StatusCompleted})

	res := app.post("/projects/1/delete?status=completed", nil)
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, "/?status=completed", res.location)
	assert.Nil(t, app.backend.project(1))
}

func TestDeleteFailureShowsModal(t *testing.T) {
	app := newTestApp(t)
	app.backend.seed(models.Project{Name: "Lisbon", Places: []models.Place{{ExternalID: 1, Visited: true}}})

	res := app.post("/projects/1/delete", nil)
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Contains(t, res.body, "Cannot Delete Project")
	assert.Contains(t, res.body, "Cannot delete a project with visited places")
	assert.Contains(t, res.body, ">OK<")
	assert.NotNil(t, app.backend.project(1))
}
