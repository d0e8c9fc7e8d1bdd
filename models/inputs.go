package models

import (
	"strings"
	"time"

	"github.com/rpupo63/travel-planner/errs"
)

// DateLayout is the format of start_date
const DateLayout = "2006-01-02"

// PlaceInput attaches a catalog artwork to a project
type PlaceInput struct {
	ExternalID int    `json:"external_id"`
	Notes      string `json:"notes,omitempty"`
}

// CreateProjectInput is the body of POST /api/projects
type CreateProjectInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartDate   string       `json:"start_date,omitempty"`
	Places      []PlaceInput `json:"places"`
}

// UpdateProjectInput is the body of PUT /api/projects/{id}. Empty fields are
// left out of the request.
type UpdateProjectInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
}

// UpdatePlaceInput is the body of PATCH /api/projects/{id}/places/{placeId}
type UpdatePlaceInput struct {
	Notes   *string `json:"notes,omitempty"`
	Visited *bool   `json:"visited,omitempty"`
}

// NewUpdateProjectInput normalises the edit form: the name is trimmed and
// required, the description is trimmed and the start date must be a date.
func NewUpdateProjectInput(name, description, startDate string) (UpdateProjectInput, error) {
	name, description, startDate, err := normaliseProjectFields(name, description, startDate)
	if err != nil {
		return UpdateProjectInput{}, err
	}
	return UpdateProjectInput{Name: name, Description: description, StartDate: startDate}, nil
}

func normaliseProjectFields(name, description, startDate string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", "", errs.NewMissingRequiredFieldError("name", "Project name is required.")
	}
	startDate = strings.TrimSpace(startDate)
	if startDate != "" {
		if _, err := time.Parse(DateLayout, startDate); err != nil {
			return "", "", "", errs.NewInvalidFieldError("start_date", "Start date must be a valid date (YYYY-MM-DD).")
		}
	}
	return name, strings.TrimSpace(description), startDate, nil
}
