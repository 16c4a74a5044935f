// Package seed holds the built-in datasets served when the document store is
// unreachable, empty or not configured. Every accessor returns a fresh copy in
// list order, so callers may keep or modify the result.
package seed

import (
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

// Feeds returns the seed feeds, newest first.
func Feeds() []models.Feed {
	out := make([]models.Feed, len(feeds))
	for i, f := range feeds {
		out[i] = f.Clone()
	}
	models.SortFeeds(out)
	return out
}

// FeedsByCategory returns seed feeds filtered the same way the store query filters.
func FeedsByCategory(c models.Category) []models.Feed {
	return models.FilterFeeds(Feeds(), c)
}

func FeedByID(id int64) *models.Feed {
	for _, f := range feeds {
		if f.ID == id {
			clone := f.Clone()
			return &clone
		}
	}
	return nil
}

func Stories() []models.Story {
	out := make([]models.Story, len(stories))
	copy(out, stories)
	models.SortStories(out)
	return out
}

func StoryByID(id int64) *models.Story {
	for _, s := range stories {
		if s.ID == id {
			story := s
			return &story
		}
	}
	return nil
}

func Books() []models.Book {
	out := make([]models.Book, len(books))
	for i, b := range books {
		out[i] = b.Clone()
	}
	models.SortBooks(out)
	return out
}

func BookByID(id int64) *models.Book {
	for _, b := range books {
		if b.ID == id {
			clone := b.Clone()
			return &clone
		}
	}
	return nil
}

func Products() []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	models.SortProducts(out)
	return out
}

// ProductsByCategory returns seed products in the category slug.
func ProductsByCategory(category string) []models.Product {
	return models.FilterProducts(Products(), category)
}

func ProductBySlug(slug string) *models.Product {
	for _, p := range products {
		if p.Slug == slug {
			product := p
			return &product
		}
	}
	return nil
}

func Categories() []models.ProductCategory {
	out := make([]models.ProductCategory, len(categories))
	copy(out, categories)
	models.SortProductCategories(out)
	return out
}

func Roadmaps() []models.Roadmap {
	out := make([]models.Roadmap, len(roadmaps))
	for i, r := range roadmaps {
		out[i] = r.Clone()
	}
	models.SortRoadmaps(out)
	return out
}

func RoadmapBySlug(slug string) *models.Roadmap {
	for _, r := range roadmaps {
		if r.Slug == slug {
			clone := r.Clone()
			return &clone
		}
	}
	return nil
}
