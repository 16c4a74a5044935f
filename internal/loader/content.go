package loader

import (
	"context"

	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
	"github.com/nardi-nardi/naanews-sub000/internal/seed"
)

const (
	entityFeeds   = "feeds"
	entityFeed    = "feed"
	entityStories = "stories"
	entityStory   = "story"
	entityBooks   = "books"
	entityBook    = "book"
)

// Feeds returns feeds newest first. An empty category means all feeds.
func (l *Loader) Feeds(ctx context.Context, category models.Category) []models.Feed {
	return list(ctx, l, entityFeeds, category != "",
		func(ctx context.Context) ([]models.Feed, error) {
			// filtered after decoding so a feed stored without a known
			// category lands in the same category it is listed under
			feeds, err := findAll(ctx, l, entityFeeds, docstore.Feeds, nil, decodeFeed)
			if err != nil {
				return nil, err
			}
			feeds = models.FilterFeeds(feeds, category)
			models.SortFeeds(feeds)
			return feeds, nil
		},
		func() []models.Feed { return seed.FeedsByCategory(category) },
	)
}

// FeedByID returns nil when the feed does not exist.
func (l *Loader) FeedByID(ctx context.Context, id int64) *models.Feed {
	return lookup(ctx, l, entityFeed,
		func(ctx context.Context) (*models.Feed, bool, error) {
			return findByKey(ctx, l, entityFeed, docstore.Feeds, docstore.IDKey(id), decodeFeed)
		},
		func() *models.Feed { return seed.FeedByID(id) },
	)
}

// Stories returns stories by id, each with its cover derived when unset.
func (l *Loader) Stories(ctx context.Context) []models.Story {
	b := l.storyBundle(ctx)
	return models.DeriveStoryCovers(b.stories, b.feeds, b.books)
}

// StoryByID returns the story with the feeds and books that reference it, all
// taken from the same snapshot. It returns nil when the story does not exist.
func (l *Loader) StoryByID(ctx context.Context, id int64) *models.StoryDetail {
	b := l.storyBundle(ctx)

	for _, s := range models.DeriveStoryCovers(b.stories, b.feeds, b.books) {
		if s.ID == id {
			return &models.StoryDetail{
				Story: s,
				Feeds: models.FeedsForStory(b.feeds, id),
				Books: models.BooksForStory(b.books, id),
			}
		}
	}
	return nil
}

func (l *Loader) Books(ctx context.Context) []models.Book {
	return list(ctx, l, entityBooks, false,
		func(ctx context.Context) ([]models.Book, error) {
			books, err := findAll(ctx, l, entityBooks, docstore.Books, nil, decodeBook)
			if err != nil {
				return nil, err
			}
			models.SortBooks(books)
			return books, nil
		},
		seed.Books,
	)
}

func (l *Loader) BookByID(ctx context.Context, id int64) *models.Book {
	return lookup(ctx, l, entityBook,
		func(ctx context.Context) (*models.Book, bool, error) {
			return findByKey(ctx, l, entityBook, docstore.Books, docstore.IDKey(id), decodeBook)
		},
		func() *models.Book { return seed.BookByID(id) },
	)
}

// storyBundle holds stories with the feeds and books needed to derive covers.
// All three slices come from one source: the store or the seed data.
type storyBundle struct {
	stories []models.Story
	feeds   []models.Feed
	books   []models.Book
}

func seedStoryBundle() *storyBundle {
	return &storyBundle{
		stories: seed.Stories(),
		feeds:   seed.Feeds(),
		books:   seed.Books(),
	}
}

func (l *Loader) storyBundle(ctx context.Context) *storyBundle {
	return lookup(ctx, l, entityStories, l.queryStoryBundle, seedStoryBundle)
}

// queryStoryBundle reads the three collections in one gateway call. It reports
// an empty story collection as (nil, true, nil).
func (l *Loader) queryStoryBundle(ctx context.Context) (*storyBundle, bool, error) {
	var rawStories, rawFeeds, rawBooks []string
	err := l.store.Query(ctx, func(ctx context.Context, store *docstore.Store) error {
		var err error
		if rawStories, err = store.Find(ctx, docstore.Stories, nil); err != nil {
			return err
		}
		if len(rawStories) == 0 {
			return nil
		}
		if rawFeeds, err = store.Find(ctx, docstore.Feeds, nil); err != nil {
			return err
		}
		rawBooks, err = store.Find(ctx, docstore.Books, nil)
		return err
	})
	if err != nil {
		return nil, false, classify(entityStories, err)
	}
	if len(rawStories) == 0 {
		return nil, true, nil
	}

	stories, err := decodeAll(entityStories, rawStories, decodeStory)
	if err != nil {
		return nil, false, err
	}
	feeds, err := decodeAll(entityFeeds, rawFeeds, decodeFeed)
	if err != nil {
		return nil, false, err
	}
	books, err := decodeAll(entityBooks, rawBooks, decodeBook)
	if err != nil {
		return nil, false, err
	}

	models.SortStories(stories)
	models.SortFeeds(feeds)
	models.SortBooks(books)
	return &storyBundle{stories: stories, feeds: feeds, books: books}, false, nil
}
