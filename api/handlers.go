package api

import (
	"context"
	"time"

	"github.com/rpupo63/travel-planner/database"
	"github.com/rpupo63/travel-planner/models"
	"github.com/rpupo63/travel-planner/services"
)

// travelAPI is the part of the backend client the handlers use.
type travelAPI interface {
	ListProjects(ctx context.Context, page, limit int, status string) (*models.PaginatedProjects, error)
	GetProject(ctx context.Context, id int) (*models.Project, error)
	CreateProject(ctx context.Context, in models.CreateProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id int, in models.UpdateProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, id int) error
	AddPlace(ctx context.Context, projectID int, in models.PlaceInput) (*models.Place, error)
	UpdatePlace(ctx context.Context, projectID, placeID int, in models.UpdatePlaceInput) (*models.Place, error)
	SearchArtworks(ctx context.Context, q string, page, limit int) (*models.ArtworkSearchResponse, error)
	Metrics() services.MetricsSnapshot
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, client travelAPI, version string, startupTime time.Time) *routeHandlers {
	searcher := newArtworkSearcher(client, db.ArtworkCache())
	return &routeHandlers{
		listHandler:    newListHandler(client),
		detailHandler:  newDetailHandler(client, searcher),
		createHandler:  newCreateHandler(client, db.DraftRepo(), db.ArtworkCache(), searcher),
		artworkHandler: newArtworkHandler(searcher),
		healthHandler:  newHealthHandler(db, client, version, startupTime),
	}
}
