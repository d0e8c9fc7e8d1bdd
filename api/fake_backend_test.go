package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/travel-planner/models"
)

// fakeBackend is an in-memory stand-in for the travel REST API.
type fakeBackend struct {
	mu          sync.Mutex
	projects    map[int]*models.Project
	catalog     []models.ArtworkResult
	nextID      int
	nextPlaceID int
	searches    int
	lastLimit   int
	failPlaces  bool
	server      *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		projects:    map[int]*models.Project{},
		nextID:      1,
		nextPlaceID: 1,
		catalog: []models.ArtworkResult{
			{ID: 16568, Title: "Water Lilies", ArtistDisplay: "Claude Monet", PlaceOfOrigin: "France", ImageID: "3c27b499", Thumbnail: "https://example.test/lilies.jpg"},
			{ID: 16571, Title: "Arrival of the Normandy Train", ArtistDisplay: "Claude Monet", PlaceOfOrigin: "France", ImageID: "a4c5"},
			{ID: 27992, Title: "A Sunday on La Grande Jatte", ArtistDisplay: "Georges Seurat", PlaceOfOrigin: "France", ImageID: "2d484387"},
			{ID: 111628, Title: "Nighthawks", ArtistDisplay: "Edward Hopper", PlaceOfOrigin: "United States"},
		},
	}

	r := chi.NewRouter()
	r.Get("/api/projects", b.listProjects)
	r.Post("/api/projects", b.createProject)
	r.Get("/api/projects/{id}", b.getProject)
	r.Put("/api/projects/{id}", b.updateProject)
	r.Delete("/api/projects/{id}", b.deleteProject)
	r.Post("/api/projects/{id}/places", b.addPlace)
	r.Patch("/api/projects/{id}/places/{placeID}", b.updatePlace)
	r.Get("/api/artworks/search", b.searchArtworks)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) URL() string {
	return b.server.URL
}

// seed stores a project; places get ids and the project id.
func (b *fakeBackend) seed(project models.Project) *models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()

	project.ID = b.nextID
	b.nextID++
	if project.Status == "" {
		project.Status = models.StatusActive
	}
	for i := range project.Places {
		project.Places[i].ID = b.nextPlaceID
		project.Places[i].ProjectID = project.ID
		b.nextPlaceID++
	}
	if project.Places == nil {
		project.Places = []models.Place{}
	}
	b.projects[project.ID] = &project
	return &project
}

func (b *fakeBackend) project(id int) *models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projects[id]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (b *fakeBackend) lookup(w http.ResponseWriter, r *http.Request) *models.Project {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	p, ok := b.projects[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return nil
	}
	return p
}

func (b *fakeBackend) findArtwork(id int) (models.ArtworkResult, bool) {
	for _, a := range b.catalog {
		if a.ID == id {
			return a, true
		}
	}
	return models.ArtworkResult{}, false
}

func (b *fakeBackend) newPlace(projectID int, artwork models.ArtworkResult, notes string) models.Place {
	place := models.Place{
		ID:            b.nextPlaceID,
		ProjectID:     projectID,
		ExternalID:    artwork.ID,
		Title:         artwork.Title,
		ArtistDisplay: artwork.ArtistDisplay,
		PlaceOfOrigin: artwork.PlaceOfOrigin,
		ImageID:       artwork.ImageID,
		Notes:         notes,
	}
	b.nextPlaceID++
	return place
}

func (b *fakeBackend) listProjects(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")

	ids := make([]int, 0, len(b.projects))
	for id, p := range b.projects {
		if status == "" || p.Status == status {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	items := []models.ProjectListItem{}
	start := (page - 1) * limit
	for i := start; i < len(ids) && i < start+limit; i++ {
		p := b.projects[ids[i]]
		items = append(items, models.ProjectListItem{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			StartDate:   p.StartDate,
			Status:      p.Status,
			PlaceCount:  len(p.Places),
		})
	}
	writeJSON(w, http.StatusOK, models.PaginatedProjects{
		Items: items,
		Total: len(ids),
		Page:  page,
		Limit: limit,
		Pages: (len(ids) + limit - 1) / limit,
	})
}

func (b *fakeBackend) createProject(w http.ResponseWriter, r *http.Request) {
	var in models.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if in.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "name: field required"}},
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	project := &models.Project{
		ID:          b.nextID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		Status:      models.StatusActive,
		Places:      []models.Place{},
	}
	b.nextID++
	for _, p := range in.Places {
		artwork, ok := b.findArtwork(p.ExternalID)
		if !ok {
			writeDetail(w, http.StatusBadRequest, "Artwork "+strconv.Itoa(p.ExternalID)+" does not exist")
			return
		}
		project.Places = append(project.Places, b.newPlace(project.ID, artwork, p.Notes))
	}
	b.projects[project.ID] = project
	writeJSON(w, http.StatusCreated, project)
}

func (b *fakeBackend) getProject(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p := b.lookup(w, r); p != nil {
		writeJSON(w, http.StatusOK, p)
	}
}

func (b *fakeBackend) updateProject(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.lookup(w, r)
	if p == nil {
		return
	}
	var in models.UpdateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.StartDate != "" {
		p.StartDate = in.StartDate
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *fakeBackend) deleteProject(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.lookup(w, r)
	if p == nil {
		return
	}
	for _, place := range p.Places {
		if place.Visited {
			writeDetail(w, http.StatusConflict, "Cannot delete a project with visited places")
			return
		}
	}
	delete(b.projects, p.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeBackend) addPlace(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.lookup(w, r)
	if p == nil {
		return
	}
	var in models.PlaceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	artwork, ok := b.findArtwork(in.ExternalID)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Artwork does not exist")
		return
	}
	place := b.newPlace(p.ID, artwork, in.Notes)
	p.Places = append(p.Places, place)
	writeJSON(w, http.StatusCreated, place)
}

func (b *fakeBackend) updatePlace(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.lookup(w, r)
	if p == nil {
		return
	}
	if b.failPlaces {
		writeDetail(w, http.StatusServiceUnavailable, "Place updates are paused")
		return
	}
	placeID, _ := strconv.Atoi(chi.URLParam(r, "placeID"))
	var in models.UpdatePlaceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	for i := range p.Places {
		if p.Places[i].ID != placeID {
			continue
		}
		if in.Notes != nil {
			p.Places[i].Notes = *in.Notes
		}
		if in.Visited != nil {
			p.Places[i].Visited = *in.Visited
		}
		writeJSON(w, http.StatusOK, p.Places[i])
		return
	}
	writeDetail(w, http.StatusNotFound, "Place not found")
}

func (b *fakeBackend) searchArtworks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searches++

	q := strings.ToLower(r.URL.Query().Get("q"))
	results := []models.ArtworkResult{}
	for _, a := range b.catalog {
		if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.ArtistDisplay), q) {
			results = append(results, a)
		}
	}
	total := len(results)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	b.lastLimit = limit
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	writeJSON(w, http.StatusOK, models.ArtworkSearchResponse{Results: results, Total: total, Page: 1})
}
