// Package content is the application context the presentation layer and the
// admin API call: cached loaders plus tag invalidation.
package content

import (
	"context"

	"github.com/nardi-nardi/naanews-sub000/internal/cache"
	"github.com/nardi-nardi/naanews-sub000/internal/loader"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

// Notifier tells other processes that a tag was invalidated.
type Notifier interface {
	Publish(ctx context.Context, tag models.Tag) error
}

// dependents lists tags whose cached values are derived from another tag.
// Story covers and story details embed feeds and books.
var dependents = map[models.Tag][]models.Tag{
	models.TagFeeds: {models.TagStories},
	models.TagBooks: {models.TagStories},
}

type Service struct {
	cache    *cache.Cache
	notifier Notifier
	logger   logger.Logger

	feeds         func(context.Context, models.Category) []models.Feed
	feedByID      func(context.Context, int64) *models.Feed
	stories       func(context.Context) []models.Story
	storyByID     func(context.Context, int64) *models.StoryDetail
	books         func(context.Context) []models.Book
	bookByID      func(context.Context, int64) *models.Book
	products      func(context.Context, string) []models.Product
	productBySlug func(context.Context, string) *models.Product
	categories    func(context.Context) []models.ProductCategory
	roadmaps      func(context.Context) []models.Roadmap
	roadmapBySlug func(context.Context, string) *models.Roadmap
}

// New wires every loader through c. notifier may be nil.
func New(l *loader.Loader, c *cache.Cache, notifier Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	feeds, stories, books := string(models.TagFeeds), string(models.TagStories), string(models.TagBooks)
	products, categories, roadmaps := string(models.TagProducts), string(models.TagCategories), string(models.TagRoadmaps)

	return &Service{
		cache:    c,
		notifier: notifier,
		logger:   log.With(logger.String("component", "content")),

		feeds:         cache.Wrap1(c, "feeds", feeds, l.Feeds),
		feedByID:      cache.Wrap1(c, "feedByID", feeds, l.FeedByID),
		stories:       cache.Wrap0(c, "stories", stories, l.Stories),
		storyByID:     cache.Wrap1(c, "storyByID", stories, l.StoryByID),
		books:         cache.Wrap0(c, "books", books, l.Books),
		bookByID:      cache.Wrap1(c, "bookByID", books, l.BookByID),
		products:      cache.Wrap1(c, "products", products, l.Products),
		productBySlug: cache.Wrap1(c, "productBySlug", products, l.ProductBySlug),
		categories:    cache.Wrap0(c, "categories", categories, l.Categories),
		roadmaps:      cache.Wrap0(c, "roadmaps", roadmaps, l.Roadmaps),
		roadmapBySlug: cache.Wrap1(c, "roadmapBySlug", roadmaps, l.RoadmapBySlug),
	}
}

// GetFeeds returns feeds newest first. An empty category returns all feeds.
func (s *Service) GetFeeds(ctx context.Context, category models.Category) []models.Feed {
	return s.feeds(ctx, category)
}

// GetFeedByID returns nil when no feed has id.
func (s *Service) GetFeedByID(ctx context.Context, id int64) *models.Feed {
	return s.feedByID(ctx, id)
}

func (s *Service) GetStories(ctx context.Context) []models.Story {
	return s.stories(ctx)
}

func (s *Service) GetStoryByID(ctx context.Context, id int64) *models.StoryDetail {
	return s.storyByID(ctx, id)
}

func (s *Service) GetBooks(ctx context.Context) []models.Book {
	return s.books(ctx)
}

func (s *Service) GetBookByID(ctx context.Context, id int64) *models.Book {
	return s.bookByID(ctx, id)
}

// GetProducts returns products by slug. An empty category returns all products.
func (s *Service) GetProducts(ctx context.Context, category string) []models.Product {
	return s.products(ctx, category)
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) *models.Product {
	return s.productBySlug(ctx, slug)
}

func (s *Service) GetCategories(ctx context.Context) []models.ProductCategory {
	return s.categories(ctx)
}

func (s *Service) GetRoadmaps(ctx context.Context) []models.Roadmap {
	return s.roadmaps(ctx)
}

func (s *Service) GetRoadmapBySlug(ctx context.Context, slug string) *models.Roadmap {
	return s.roadmapBySlug(ctx, slug)
}

// Invalidate drops tag (and the tags derived from it) from this process's
// cache, then notifies other processes. A notification failure is logged;
// the local invalidation has already happened.
func (s *Service) Invalidate(ctx context.Context, tag models.Tag) {
	s.ApplyInvalidation(tag)

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, tag); err != nil {
		s.logger.Warn("Failed to broadcast cache invalidation",
			logger.Tag(tag.String()),
			logger.Error(err),
		)
	}
}

// ApplyInvalidation invalidates locally without notifying other processes.
// Subscribers use it for invalidations received from elsewhere.
func (s *Service) ApplyInvalidation(tag models.Tag) {
	s.cache.Invalidate(string(tag))
	for _, dep := range dependents[tag] {
		s.cache.Invalidate(string(dep))
	}
}

// InvalidateAll invalidates every tag.
func (s *Service) InvalidateAll(ctx context.Context) {
	for _, tag := range models.Tags() {
		s.Invalidate(ctx, tag)
	}
}

// CacheStats reports the current cache contents.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}
