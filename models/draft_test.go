package models

import (
	"testing"

	"github.com/rpupo63/travel-planner/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripDraftAddArtwork(t *testing.T) {
	d := NewTripDraft("draft-1")

	added, err := d.AddArtwork(ArtworkResult{ID: 1, Title: "Nighthawks"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = d.AddArtwork(ArtworkResult{ID: 1, Title: "Nighthawks"})
	require.NoError(t, err, "duplicates are ignored silently")
	assert.False(t, added)
	assert.Len(t, d.Artworks, 1)

	for i := 2; i <= MaxPlacesPerProject; i++ {
		_, err := d.AddArtwork(ArtworkResult{ID: i})
		require.NoError(t, err)
	}
	assert.Len(t, d.Artworks, MaxPlacesPerProject)

	_, err = d.AddArtwork(ArtworkResult{ID: 99})
	require.Error(t, err)
	assert.True(t, errs.IsLimitExceededError(err))
	assert.Equal(t, "Maximum 10 places per project.", errs.Message(err, ""))

	_, err = d.AddArtwork(ArtworkResult{ID: 1})
	assert.Error(t, err, "the limit is checked before duplicates")
}

func TestTripDraftRemoveArtwork(t *testing.T) {
	d := NewTripDraft("draft-1")
	for _, id := range []int{3, 1, 2} {
		_, err := d.AddArtwork(ArtworkResult{ID: id})
		require.NoError(t, err)
	}

	d.RemoveArtwork(1)
	d.RemoveArtwork(42)

	require.Len(t, d.Artworks, 2)
	assert.Equal(t, 3, d.Artworks[0].ID)
	assert.Equal(t, 2, d.Artworks[1].ID)
	assert.Equal(t, map[int]bool{3: true, 2: true}, d.SelectedIDs())
}

func TestTripDraftCreateInput(t *testing.T) {
	t.Run("trims and keeps selection order", func(t *testing.T) {
		d := NewTripDraft("draft-1")
		d.SetDetails("  Art Trip ", "   ", "2025-05-01")
		_, _ = d.AddArtwork(ArtworkResult{ID: 20})
		_, _ = d.AddArtwork(ArtworkResult{ID: 10})

		in, err := d.CreateInput()
		require.NoError(t, err)
		assert.Equal(t, "Art Trip", in.Name)
		assert.Equal(t, "", in.Description)
		assert.Equal(t, "2025-05-01", in.StartDate)
		assert.Equal(t, []PlaceInput{{ExternalID: 20}, {ExternalID: 10}}, in.Places)
	})

	t.Run("name is required", func(t *testing.T) {
		d := NewTripDraft("draft-1")
		d.SetDetails("   ", "desc", "")

		_, err := d.CreateInput()
		require.Error(t, err)
		assert.True(t, errs.IsMissingRequiredFieldError(err))
		assert.Equal(t, "Project name is required.", errs.Message(err, ""))
	})

	t.Run("start date must parse", func(t *testing.T) {
		d := NewTripDraft("draft-1")
		d.SetDetails("Trip", "", "05/01/2025")

		_, err := d.CreateInput()
		assert.True(t, errs.IsInvalidFieldError(err))
	})

	t.Run("no places encodes as an empty list", func(t *testing.T) {
		d := NewTripDraft("draft-1")
		d.SetDetails("Trip", "", "")

		in, err := d.CreateInput()
		require.NoError(t, err)
		assert.NotNil(t, in.Places)
		assert.Empty(t, in.Places)
	})
}

func TestNewUpdateProjectInput(t *testing.T) {
	in, err := NewUpdateProjectInput(" Rome ", " ruins ", "")
	require.NoError(t, err)
	assert.Equal(t, UpdateProjectInput{Name: "Rome", Description: "ruins"}, in)

	_, err = NewUpdateProjectInput("", "x", "")
	assert.True(t, errs.IsMissingRequiredFieldError(err))
}
