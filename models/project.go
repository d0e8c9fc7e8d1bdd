package models

// Project statuses as reported by the backend
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// MaxPlacesPerProject is enforced by the forms only; the backend is authoritative.
const MaxPlacesPerProject = 10

// Project is a trip with its places, as returned by GET /api/projects/{id}
type Project struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	Places      []Place `json:"places"`
}

// ProjectListItem is the summary row used by the paginated listing
type ProjectListItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	Status      string `json:"status"`
	PlaceCount  int    `json:"place_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// PaginatedProjects is one page of the project listing
type PaginatedProjects struct {
	Items []ProjectListItem `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Pages int               `json:"pages"`
}

// IsCompleted reports whether status is the completed state.
func IsCompleted(status string) bool {
	return status == StatusCompleted
}

// ValidStatusFilter returns status when it is a known filter value and ""
// (no filter) otherwise.
func ValidStatusFilter(status string) string {
	switch status {
	case StatusActive, StatusCompleted:
		return status
	default:
		return ""
	}
}

func (p *Project) VisitedCount() int {
	n := 0
	for _, place := range p.Places {
		if place.Visited {
			n++
		}
	}
	return n
}

// CanAddPlace reports whether the project is below the place limit.
func (p *Project) CanAddPlace() bool {
	return len(p.Places) < MaxPlacesPerProject
}

// HasExternalID reports whether an artwork is already attached.
func (p *Project) HasExternalID(externalID int) bool {
	for _, place := range p.Places {
		if place.ExternalID == externalID {
			return true
		}
	}
	return false
}

// ExternalIDs returns the set of attached artwork ids.
func (p *Project) ExternalIDs() map[int]bool {
	ids := make(map[int]bool, len(p.Places))
	for _, place := range p.Places {
		ids[place.ExternalID] = true
	}
	return ids
}

func (p *Project) FindPlace(placeID int) (*Place, bool) {
	for i := range p.Places {
		if p.Places[i].ID == placeID {
			return &p.Places[i], true
		}
	}
	return nil, false
}

// ApplyPlaceUpdate replaces the place with the same id and mirrors the
// backend's completion rule: once every place is visited the project is
// completed. A project that is not fully visited keeps its current status.
func (p *Project) ApplyPlaceUpdate(updated Place) {
	for i := range p.Places {
		if p.Places[i].ID == updated.ID {
			p.Places[i] = updated
		}
	}
	if p.allVisited() {
		p.Status = StatusCompleted
	}
}

// AppendPlace adds a freshly attached place at the end of the list.
func (p *Project) AppendPlace(place Place) {
	p.Places = append(p.Places, place)
}

// Merge copies the fields of an updated project over p. Places are only
// replaced when the update carries them.
func (p *Project) Merge(updated Project) {
	places := p.Places
	*p = updated
	if updated.Places == nil {
		p.Places = places
	}
}

func (p *Project) allVisited() bool {
	if len(p.Places) == 0 {
		return false
	}
	for _, place := range p.Places {
		if !place.Visited {
			return false
		}
	}
	return true
}
