package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

func TestFeeds_NewestFirst(t *testing.T) {
	got := Feeds()
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt),
			"feed %d is newer than feed %d", got[i].ID, got[i-1].ID)
	}
}

func TestFeedsByCategory(t *testing.T) {
	for _, c := range models.Categories() {
		got := FeedsByCategory(c)
		require.NotEmpty(t, got, "seed should cover category %s", c)
		for _, f := range got {
			assert.Equal(t, c, f.Category)
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	first := Feeds()
	first[0].Title = "changed"
	first[0].Lines[0].Text = "changed"

	second := Feeds()
	assert.NotEqual(t, "changed", second[0].Title)
	assert.NotEqual(t, "changed", second[0].Lines[0].Text)

	book := BookByID(1)
	require.NotNil(t, book)
	book.Chapters[0].Title = "changed"
	assert.NotEqual(t, "changed", BookByID(1).Chapters[0].Title)
}

func TestUniqueKeys(t *testing.T) {
	seenFeeds := map[int64]bool{}
	for _, f := range Feeds() {
		assert.False(t, seenFeeds[f.ID], "duplicate feed id %d", f.ID)
		seenFeeds[f.ID] = true
	}

	seenProducts := map[string]bool{}
	for _, p := range Products() {
		assert.False(t, seenProducts[p.Slug], "duplicate product slug %s", p.Slug)
		seenProducts[p.Slug] = true
	}
}

func TestLookups(t *testing.T) {
	assert.NotNil(t, FeedByID(1))
	assert.Nil(t, FeedByID(999))
	assert.NotNil(t, StoryByID(2))
	assert.NotNil(t, ProductBySlug("mug-naanews"))
	assert.Nil(t, ProductBySlug("missing"))
	assert.NotNil(t, RoadmapBySlug("backend-go"))
	assert.Len(t, ProductsByCategory("merchandise"), 2)
}

func TestOrderingContracts(t *testing.T) {
	stories := Stories()
	for i := 1; i < len(stories); i++ {
		assert.Less(t, stories[i-1].ID, stories[i].ID)
	}

	categories := Categories()
	for i := 1; i < len(categories); i++ {
		assert.Less(t, categories[i-1].Slug, categories[i].Slug)
	}
}
