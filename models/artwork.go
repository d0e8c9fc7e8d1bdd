package models

// ArtworkResult is one catalog search hit. It is never stored by the
// backend on our behalf; only its ID is sent when attaching a place.
type ArtworkResult struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ArtistDisplay string `json:"artist_display"`
	PlaceOfOrigin string `json:"place_of_origin"`
	ImageID       string `json:"image_id"`
	Thumbnail     string `json:"thumbnail"`
}

// ArtworkSearchResponse is one page of catalog search results
type ArtworkSearchResponse struct {
	Results []ArtworkResult `json:"results"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
}
