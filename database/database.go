package database

import (
	"context"
	"time"

	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
)

// DefaultTTL is how long an untouched draft or cached artwork is kept.
const DefaultTTL = 24 * time.Hour

// DraftRepo keeps creation drafts between requests.
type DraftRepo interface {
	// FindByID returns an errs not-found error for a missing or expired draft.
	FindByID(ctx context.Context, id string) (*models.TripDraft, error)
	Save(ctx context.Context, draft *models.TripDraft) error
	Delete(ctx context.Context, id string) error
}

// ArtworkCache remembers artworks seen in search results so they can be
// selected by id later.
type ArtworkCache interface {
	Put(ctx context.Context, artworks []models.ArtworkResult) error
	Get(ctx context.Context, id int) (*models.ArtworkResult, error)
}

// Store is one draft store backend.
type Store interface {
	Drafts() DraftRepo
	Artworks() ArtworkCache
	// PurgeExpired removes entries that expired before the given time and
	// reports how many were removed.
	PurgeExpired(ctx context.Context, before time.Time) (int, error)
	Ping(ctx context.Context) error
	Name() string
	Close() error
}

type Database struct {
	store Store
}

func New(store Store) Database {
	return Database{store: store}
}

func (d Database) DraftRepo() DraftRepo {
	return d.store.Drafts()
}

func (d Database) ArtworkCache() ArtworkCache {
	return d.store.Artworks()
}

func (d Database) Store() Store {
	return d.store
}

// Status reports "ok" when the backend answers a ping.
func (d Database) Status(ctx context.Context) string {
	if err := d.store.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}

func (d Database) Close() error {
	return d.store.Close()
}

func copyDraft(draft *models.TripDraft) *models.TripDraft {
	c := *draft
	c.Artworks = append([]models.ArtworkResult{}, draft.Artworks...)
	return &c
}

func validateDraftID(id string) error {
	if id == "" {
		return errs.NewMissingRequiredFieldError("id", "draft id is required")
	}
	return nil
}
