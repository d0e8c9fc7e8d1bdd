package models

import "fmt"

// IIIFBase is the image server of the artwork catalog.
const IIIFBase = "https://www.artic.edu/iiif/2"

// Place is an artwork attached to a project
type Place struct {
	ID            int    `json:"id"`
	ProjectID     int    `json:"project_id"`
	ExternalID    int    `json:"external_id"`
	Title         string `json:"title"`
	ArtistDisplay string `json:"artist_display"`
	PlaceOfOrigin string `json:"place_of_origin"`
	ImageID       string `json:"image_id"`
	Notes         string `json:"notes"`
	Visited       bool   `json:"visited"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ImageURL returns the 300px wide IIIF rendition, or "" without an image.
func (p Place) ImageURL() string {
	return IIIFImageURL(p.ImageID)
}

func IIIFImageURL(imageID string) string {
	if imageID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/full/300,/0/default.jpg", IIIFBase, imageID)
}
