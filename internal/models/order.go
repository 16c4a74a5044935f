package models

import (
	"cmp"
	"slices"
)

// SortFeeds orders feeds newest first, ties broken by id descending.
func SortFeeds(feeds []Feed) {
	slices.SortStableFunc(feeds, func(a, b Feed) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func SortStories(stories []Story) {
	slices.SortStableFunc(stories, func(a, b Story) int { return cmp.Compare(a.ID, b.ID) })
}

func SortBooks(books []Book) {
	slices.SortStableFunc(books, func(a, b Book) int { return cmp.Compare(a.ID, b.ID) })
}

func SortProducts(products []Product) {
	slices.SortStableFunc(products, func(a, b Product) int { return cmp.Compare(a.Slug, b.Slug) })
}

func SortProductCategories(categories []ProductCategory) {
	slices.SortStableFunc(categories, func(a, b ProductCategory) int { return cmp.Compare(a.Slug, b.Slug) })
}

func SortRoadmaps(roadmaps []Roadmap) {
	slices.SortStableFunc(roadmaps, func(a, b Roadmap) int { return cmp.Compare(a.Slug, b.Slug) })
}

// FilterFeeds keeps feeds of category c. An empty category keeps everything.
func FilterFeeds(feeds []Feed, c Category) []Feed {
	if c == "" {
		return feeds
	}
	out := make([]Feed, 0, len(feeds))
	for _, f := range feeds {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// FilterProducts keeps products in the category slug. An empty slug keeps everything.
func FilterProducts(products []Product, category string) []Product {
	if category == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FeedsForStory returns the feeds referencing storyID, keeping input order.
func FeedsForStory(feeds []Feed, storyID int64) []Feed {
	out := make([]Feed, 0)
	for _, f := range feeds {
		if f.StoryID != nil && *f.StoryID == storyID {
			out = append(out, f)
		}
	}
	return out
}

// BooksForStory returns the books referencing storyID, keeping input order.
func BooksForStory(books []Book, storyID int64) []Book {
	out := make([]Book, 0)
	for _, b := range books {
		if b.StoryID != nil && *b.StoryID == storyID {
			out = append(out, b)
		}
	}
	return out
}

// DeriveStoryCovers fills the cover of every story that has none with the
// image of its first feed, or failing that the cover of its first book.
// feeds and books must already be in their list order and come from the same
// snapshot as stories. The input slice is not modified.
func DeriveStoryCovers(stories []Story, feeds []Feed, books []Book) []Story {
	out := make([]Story, len(stories))
	for i, s := range stories {
		if s.Cover == "" {
			s.Cover = storyCover(s.ID, feeds, books)
		}
		out[i] = s
	}
	return out
}

func storyCover(storyID int64, feeds []Feed, books []Book) string {
	for _, f := range feeds {
		if f.StoryID != nil && *f.StoryID == storyID && f.Image != "" {
			return f.Image
		}
	}
	for _, b := range books {
		if b.StoryID != nil && *b.StoryID == storyID && b.Cover != "" {
			return b.Cover
		}
	}
	return ""
}
