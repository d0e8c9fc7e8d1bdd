package models

import (
	"fmt"
	"time"

	"github.com/rpupo63/travel-planner/errs"
)

// TripDraft is the creation form between requests: the typed metadata and
// the artworks selected so far, in selection order.
type TripDraft struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	StartDate   string          `json:"start_date"`
	Artworks    []ArtworkResult `json:"artworks"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewTripDraft(id string) *TripDraft {
	return &TripDraft{ID: id, Artworks: []ArtworkResult{}}
}

// SetDetails stores the metadata exactly as typed; trimming happens on submit.
func (d *TripDraft) SetDetails(name, description, startDate string) {
	d.Name = name
	d.Description = description
	d.StartDate = startDate
}

func (d *TripDraft) Contains(artworkID int) bool {
	for _, a := range d.Artworks {
		if a.ID == artworkID {
			return true
		}
	}
	return false
}

// SelectedIDs returns the set of selected artwork ids.
func (d *TripDraft) SelectedIDs() map[int]bool {
	ids := make(map[int]bool, len(d.Artworks))
	for _, a := range d.Artworks {
		ids[a.ID] = true
	}
	return ids
}

// AddArtwork selects an artwork. The limit is checked before duplicates, and
// a duplicate is ignored without error. It reports whether the selection
// changed.
func (d *TripDraft) AddArtwork(artwork ArtworkResult) (bool, error) {
	if err := d.CheckLimit(); err != nil {
		return false, err
	}
	if d.Contains(artwork.ID) {
		return false, nil
	}
	d.Artworks = append(d.Artworks, artwork)
	return true, nil
}

// CheckLimit fails once the selection holds the maximum number of places.
func (d *TripDraft) CheckLimit() error {
	if len(d.Artworks) >= MaxPlacesPerProject {
		return errs.NewLimitExceededError("places", fmt.Sprintf("Maximum %d places per project.", MaxPlacesPerProject))
	}
	return nil
}

func (d *TripDraft) RemoveArtwork(artworkID int) {
	kept := d.Artworks[:0]
	for _, a := range d.Artworks {
		if a.ID != artworkID {
			kept = append(kept, a)
		}
	}
	d.Artworks = kept
}

// CreateInput validates the draft and builds the create request.
func (d *TripDraft) CreateInput() (CreateProjectInput, error) {
	name, description, startDate, err := normaliseProjectFields(d.Name, d.Description, d.StartDate)
	if err != nil {
		return CreateProjectInput{}, err
	}
	places := make([]PlaceInput, 0, len(d.Artworks))
	for _, a := range d.Artworks {
		places = append(places, PlaceInput{ExternalID: a.ID})
	}
	return CreateProjectInput{
		Name:        name,
		Description: description,
		StartDate:   startDate,
		Places:      places,
	}, nil
}
