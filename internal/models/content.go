package models

import (
	"slices"
	"time"
)

// Line is one question or answer bubble in a feed or chapter.
type Line struct {
	Role  string `json:"role" binding:"required"`
	Text  string `json:"text" binding:"required"`
	Image string `json:"image,omitempty"`
}

// Source attributes a feed to an external article.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url" binding:"omitempty,url"`
}

// Feed is a single post in the news/tutorial/research feed.
type Feed struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title" binding:"required"`
	Category   Category  `json:"category" binding:"required,oneof=Berita Tutorial Riset"`
	CreatedAt  time.Time `json:"createdAt"`
	Popularity int       `json:"popularity" binding:"gte=0"`
	Image      string    `json:"image"`
	Lines      []Line    `json:"lines" binding:"dive"`
	Takeaway   string    `json:"takeaway"`
	Source     *Source   `json:"source,omitempty"`
	StoryID    *int64    `json:"storyId"`
}

// Clone returns a deep copy of f.
func (f Feed) Clone() Feed {
	f.Lines = cloneLines(f.Lines)
	if f.Source != nil {
		src := *f.Source
		f.Source = &src
	}
	f.StoryID = cloneID(f.StoryID)
	return f
}

// Story groups feeds and books under a highlighted topic.
type Story struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name" binding:"required"`
	Label   string   `json:"label"`
	Type    Category `json:"type" binding:"required,oneof=Berita Tutorial Riset"`
	Palette string   `json:"palette"`
	Cover   string   `json:"cover,omitempty"`
	Viral   bool     `json:"viral"`
}

// StoryDetail is a story with the feeds and books that reference it.
type StoryDetail struct {
	Story Story  `json:"story"`
	Feeds []Feed `json:"feeds"`
	Books []Book `json:"books"`
}

// Chapter is an ordered section of a book.
type Chapter struct {
	Title string `json:"title" binding:"required"`
	Lines []Line `json:"lines" binding:"dive"`
}

// Book is a chat-style book read chapter by chapter.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title" binding:"required"`
	Author      string    `json:"author"`
	Cover       string    `json:"cover"`
	Genre       string    `json:"genre"`
	Pages       int       `json:"pages" binding:"gte=0"`
	Rating      float64   `json:"rating" binding:"gte=0,lte=5"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters" binding:"dive"`
	StoryID     *int64    `json:"storyId"`
}

// Clone returns a deep copy of b.
func (b Book) Clone() Book {
	if b.Chapters != nil {
		chapters := make([]Chapter, len(b.Chapters))
		for i, ch := range b.Chapters {
			chapters[i] = Chapter{Title: ch.Title, Lines: cloneLines(ch.Lines)}
		}
		b.Chapters = chapters
	}
	b.StoryID = cloneID(b.StoryID)
	return b
}

// MaxRating is the upper bound of a book rating.
const MaxRating = 5.0

// ClampRating bounds r to [0, MaxRating].
func ClampRating(r float64) float64 {
	return min(max(r, 0), MaxRating)
}

func cloneLines(lines []Line) []Line {
	return slices.Clone(lines)
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// IDPtr returns a pointer to id, for optional story references.
func IDPtr(id int64) *int64 {
	return &id
}
