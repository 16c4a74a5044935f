package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nardi-nardi/naanews-sub000/internal/cache"
	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/events"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

// maxCreateAttempts bounds id allocation retries when two creates race for
// the same next id.
const maxCreateAttempts = 3

// allTags is the invalidate request value that flushes every tag.
const allTags = "all"

// Store runs a function against the document store.
type Store interface {
	Query(ctx context.Context, fn func(ctx context.Context, store *docstore.Store) error) error
}

// Invalidator drops cached content after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, tag models.Tag)
	InvalidateAll(ctx context.Context)
	CacheStats() cache.Stats
}

// EventPublisher announces content mutations.
type EventPublisher interface {
	PublishAsync(event events.ContentEvent)
}

// AdminHandler serves CRUD writes for every collection. A write that succeeds
// invalidates its tag and emits a content event; a failed write does neither.
type AdminHandler struct {
	store  Store
	svc    Invalidator
	events EventPublisher
	logger logger.Logger
	now    func() time.Time
}

// NewAdminHandler builds the admin handler. pub may be nil.
func NewAdminHandler(store Store, svc Invalidator, pub EventPublisher, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		svc:    svc,
		events: pub,
		logger: log,
		now:    time.Now,
	}
}

// RegisterRoutes mounts collection writes and cache administration under rg.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	register(rg, h, feedResource)
	register(rg, h, storyResource)
	register(rg, h, bookResource)
	register(rg, h, productResource)
	register(rg, h, categoryResource)
	register(rg, h, roadmapResource)

	rg.POST("/cache/invalidate", h.InvalidateCache)
	rg.GET("/cache/stats", h.CacheStats)
}

type invalidateRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// InvalidateCache flushes one tag, or every tag when the tag is "all".
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	var req invalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Tag == allTags {
		h.svc.InvalidateAll(c.Request.Context())
		h.logger.Info("Cache invalidated", logger.Tag(allTags))
		c.JSON(http.StatusOK, gin.H{"invalidated": models.Tags()})
		return
	}

	tag, ok := models.ParseTag(req.Tag)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unknown tag",
			"allowed": append(models.Tags(), allTags),
		})
		return
	}

	h.svc.Invalidate(c.Request.Context(), tag)
	h.logger.Info("Cache invalidated", logger.Tag(tag.String()))
	c.JSON(http.StatusOK, gin.H{"invalidated": []models.Tag{tag}})
}

func (h *AdminHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.CacheStats())
}

// committed runs after a successful write.
func (h *AdminHandler) committed(ctx context.Context, tag models.Tag, eventType events.EventType, entity, key string, payload any) {
	h.svc.Invalidate(ctx, tag)
	if h.events != nil {
		h.events.PublishAsync(events.ContentEvent{
			EventType: eventType,
			Entity:    entity,
			Key:       key,
			Payload:   payload,
		})
	}
}

func (h *AdminHandler) writeError(c *gin.Context, err error, action, entity, key string) {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found", "key": key})
	case errors.Is(err, docstore.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": entity + " already exists", "key": key})
	default:
		h.logger.Error("Failed to "+action+" "+entity,
			logger.String("entity", entity),
			logger.String("key", key),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " " + entity})
	}
}

// resource describes one writable collection. Numeric resources set idOf and
// get their id from the store; slug resources set slugOf.
type resource[T any] struct {
	entity     string
	collection docstore.Collection
	tag        models.Tag
	idOf       func(*T) *int64
	slugOf     func(*T) *string
	prepare    func(doc *T, now time.Time)
}

func (r resource[T]) numeric() bool {
	return r.idOf != nil
}

func (r resource[T]) key(doc *T) string {
	if r.numeric() {
		return docstore.IDKey(*r.idOf(doc))
	}
	return *r.slugOf(doc)
}

// parseKey validates a :key path parameter.
func (r resource[T]) parseKey(raw string) (string, int64, bool) {
	if !r.numeric() {
		return raw, 0, raw != ""
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return docstore.IDKey(id), id, true
}

func (r resource[T]) setKey(doc *T, raw string, id int64) {
	if r.numeric() {
		*r.idOf(doc) = id
		return
	}
	*r.slugOf(doc) = raw
}

func register[T any](rg *gin.RouterGroup, h *AdminHandler, r resource[T]) {
	path := "/" + string(r.collection)
	rg.POST(path, createHandler(h, r))
	rg.PUT(path+"/:key", replaceHandler(h, r))
	rg.DELETE(path+"/:key", deleteHandler(h, r))
}

func createHandler[T any](h *AdminHandler, r resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc T
		if err := c.ShouldBindJSON(&doc); err != nil {
			h.logger.Debug("Invalid request body",
				logger.String("entity", r.entity),
				logger.String("error", err.Error()),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if r.prepare != nil {
			r.prepare(&doc, h.now())
		}

		ctx := c.Request.Context()
		err := h.store.Query(ctx, func(ctx context.Context, store *docstore.Store) error {
			if !r.numeric() {
				return store.Insert(ctx, r.collection, r.key(&doc), doc)
			}
			for range maxCreateAttempts {
				id, err := store.NextID(ctx, r.collection)
				if err != nil {
					return err
				}
				*r.idOf(&doc) = id
				err = store.Insert(ctx, r.collection, r.key(&doc), doc)
				if !errors.Is(err, docstore.ErrConflict) {
					return err
				}
			}
			return docstore.ErrConflict
		})
		if err != nil {
			h.writeError(c, err, "create", r.entity, r.key(&doc))
			return
		}

		key := r.key(&doc)
		h.committed(ctx, r.tag, events.ContentCreated, r.entity, key, doc)
		h.logger.Info("Content created",
			logger.String("entity", r.entity),
			logger.String("key", key),
		)
		c.JSON(http.StatusCreated, doc)
	}
}

func replaceHandler[T any](h *AdminHandler, r resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("key")
		key, id, ok := r.parseKey(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key", "key": raw})
			return
		}

		var doc T
		if err := c.ShouldBindJSON(&doc); err != nil {
			h.logger.Debug("Invalid request body",
				logger.String("entity", r.entity),
				logger.String("key", key),
				logger.String("error", err.Error()),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		r.setKey(&doc, key, id)
		if r.prepare != nil {
			r.prepare(&doc, h.now())
		}

		ctx := c.Request.Context()
		err := h.store.Query(ctx, func(ctx context.Context, store *docstore.Store) error {
			return store.Replace(ctx, r.collection, key, doc)
		})
		if err != nil {
			h.writeError(c, err, "update", r.entity, key)
			return
		}

		h.committed(ctx, r.tag, events.ContentUpdated, r.entity, key, doc)
		h.logger.Info("Content updated",
			logger.String("entity", r.entity),
			logger.String("key", key),
		)
		c.JSON(http.StatusOK, doc)
	}
}

func deleteHandler[T any](h *AdminHandler, r resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("key")
		key, _, ok := r.parseKey(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key", "key": raw})
			return
		}

		ctx := c.Request.Context()
		err := h.store.Query(ctx, func(ctx context.Context, store *docstore.Store) error {
			return store.Delete(ctx, r.collection, key)
		})
		if err != nil {
			h.writeError(c, err, "delete", r.entity, key)
			return
		}

		h.committed(ctx, r.tag, events.ContentDeleted, r.entity, key, nil)
		h.logger.Info("Content deleted",
			logger.String("entity", r.entity),
			logger.String("key", key),
		)
		c.Status(http.StatusNoContent)
	}
}
