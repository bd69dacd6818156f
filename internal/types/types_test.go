package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	for _, s := range []string{"home", "about", "works", "marketing", "contact", "admin"} {
		sec, err := ParseSection(s)
		require.NoError(t, err)
		assert.Equal(t, Section(s), sec)
	}

	_, err := ParseSection("Works")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseSection("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewSocialLink(t *testing.T) {
	link, err := NewSocialLink("behance", "https://behance.net/portfolio")
	require.NoError(t, err)
	assert.Equal(t, "Behance", link.Name)
	assert.Equal(t, "behance", link.Icon)

	_, err = NewSocialLink("myspace", "https://myspace.com/x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectPatch(t *testing.T) {
	assert.True(t, ProjectPatch{}.Empty())

	title := "Nuevo"
	tools := []string{"Premiere"}
	link := "https://example.com/reel"
	patch := ProjectPatch{Title: &title, Tools: &tools, ExternalURL: &link}
	require.False(t, patch.Empty())

	row := ProjectRow{Title: "Viejo", Category: "Video", Tools: []string{"Lightroom"}}
	patch.Apply(&row)
	assert.Equal(t, "Nuevo", row.Title)
	assert.Equal(t, "Video", row.Category)
	assert.Equal(t, []string{"Premiere"}, row.Tools)
	require.NotNil(t, row.ExternalURL)
	assert.Equal(t, link, *row.ExternalURL)

	// the row does not alias the patch
	tools[0] = "changed"
	link = "changed"
	assert.Equal(t, "Premiere", row.Tools[0])
	assert.Equal(t, "https://example.com/reel", *row.ExternalURL)
}

func TestProjectPatch_EmptyExternalURLClears(t *testing.T) {
	link := "https://example.com/reel"
	row := ProjectRow{Title: "Reel", ExternalURL: &link}

	empty := ""
	patch := ProjectPatch{ExternalURL: &empty}
	require.False(t, patch.Empty())
	patch.Apply(&row)
	assert.Nil(t, row.ExternalURL)
}

func TestMarketingItemPatch(t *testing.T) {
	assert.True(t, MarketingItemPatch{}.Empty())

	order := 3
	item := MarketingItem{Title: "Flyer", OrderIndex: 1}
	MarketingItemPatch{OrderIndex: &order}.Apply(&item)
	assert.Equal(t, 3, item.OrderIndex)
	assert.Equal(t, "Flyer", item.Title)
}
