package handlers

import (
	"time"

	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

const defaultCurrency = "IDR"

var feedResource = resource[models.Feed]{
	entity:     "feed",
	collection: docstore.Feeds,
	tag:        models.TagFeeds,
	idOf:       func(f *models.Feed) *int64 { return &f.ID },
	prepare: func(f *models.Feed, now time.Time) {
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now.UTC()
		}
		if f.Lines == nil {
			f.Lines = []models.Line{}
		}
	},
}

var storyResource = resource[models.Story]{
	entity:     "story",
	collection: docstore.Stories,
	tag:        models.TagStories,
	idOf:       func(s *models.Story) *int64 { return &s.ID },
}

var bookResource = resource[models.Book]{
	entity:     "book",
	collection: docstore.Books,
	tag:        models.TagBooks,
	idOf:       func(b *models.Book) *int64 { return &b.ID },
	prepare: func(b *models.Book, _ time.Time) {
		b.Rating = models.ClampRating(b.Rating)
		if b.Chapters == nil {
			b.Chapters = []models.Chapter{}
		}
	},
}

var productResource = resource[models.Product]{
	entity:     "product",
	collection: docstore.Products,
	tag:        models.TagProducts,
	slugOf:     func(p *models.Product) *string { return &p.Slug },
	prepare: func(p *models.Product, _ time.Time) {
		if p.Currency == "" {
			p.Currency = defaultCurrency
		}
	},
}

var categoryResource = resource[models.ProductCategory]{
	entity:     "category",
	collection: docstore.Categories,
	tag:        models.TagCategories,
	slugOf:     func(c *models.ProductCategory) *string { return &c.Slug },
}

var roadmapResource = resource[models.Roadmap]{
	entity:     "roadmap",
	collection: docstore.Roadmaps,
	tag:        models.TagRoadmaps,
	slugOf:     func(r *models.Roadmap) *string { return &r.Slug },
	prepare: func(r *models.Roadmap, _ time.Time) {
		if r.Steps == nil {
			r.Steps = []models.RoadmapStep{}
		}
	},
}
