package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nardi-nardi/naanews-sub000/internal/cache"
	"github.com/nardi-nardi/naanews-sub000/internal/config"
	"github.com/nardi-nardi/naanews-sub000/internal/content"
	"github.com/nardi-nardi/naanews-sub000/internal/gateway"
	"github.com/nardi-nardi/naanews-sub000/internal/handlers"
	"github.com/nardi-nardi/naanews-sub000/internal/loader"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

// newSeedOnlyRouter serves the read API with no database configured, so every
// response comes from seed data.
func newSeedOnlyRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newSeedOnlyRouterWithLogger(t, logger.NewNop())
}

func newSeedOnlyRouterWithLogger(t *testing.T, log logger.Logger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l := loader.New(gateway.New(config.DatabaseConfig{}, log), log, nil)
	svc := content.New(l, cache.New(time.Minute), nil, log)

	router := gin.New()
	handlers.NewContentHandler(svc, log).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return w
}

func TestContentHandler_ListFeeds(t *testing.T) {
	router := newSeedOnlyRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantIDs    []int64
	}{
		{"all feeds newest first", "/api/v1/feeds", http.StatusOK, []int64{6, 5, 4, 3, 2, 1}},
		{"by category", "/api/v1/feeds?category=Tutorial", http.StatusOK, []int64{5, 3}},
		{"invalid category", "/api/v1/feeds?category=Gosip", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.path)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantIDs == nil {
				return
			}

			var resp struct {
				Feeds []models.Feed `json:"feeds"`
				Count int           `json:"count"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, len(tt.wantIDs), resp.Count)
			got := make([]int64, len(resp.Feeds))
			for i, f := range resp.Feeds {
				got[i] = f.ID
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestContentHandler_ByKey(t *testing.T) {
	router := newSeedOnlyRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"feed found", "/api/v1/feeds/4", http.StatusOK},
		{"feed missing", "/api/v1/feeds/99", http.StatusNotFound},
		{"feed bad id", "/api/v1/feeds/abc", http.StatusBadRequest},
		{"feed zero id", "/api/v1/feeds/0", http.StatusBadRequest},
		{"story found", "/api/v1/stories/2", http.StatusOK},
		{"story missing", "/api/v1/stories/42", http.StatusNotFound},
		{"book found", "/api/v1/books/1", http.StatusOK},
		{"book missing", "/api/v1/books/7", http.StatusNotFound},
		{"product found", "/api/v1/products/kaos-gopher", http.StatusOK},
		{"product missing", "/api/v1/products/jaket", http.StatusNotFound},
		{"roadmap found", "/api/v1/roadmaps/backend-go", http.StatusOK},
		{"roadmap missing", "/api/v1/roadmaps/frontend", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, get(t, router, tt.path).Code)
		})
	}
}

func TestContentHandler_GetStory(t *testing.T) {
	router := newSeedOnlyRouter(t)

	w := get(t, router, "/api/v1/stories/2")
	require.Equal(t, http.StatusOK, w.Code)

	var detail models.StoryDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Belajar Go", detail.Story.Name)
	require.Len(t, detail.Feeds, 2)
	assert.Equal(t, int64(5), detail.Feeds[0].ID)
	assert.Equal(t, int64(3), detail.Feeds[1].ID)
	require.Len(t, detail.Books, 1)
	assert.Equal(t, int64(1), detail.Books[0].ID)
}

func TestContentHandler_Lists(t *testing.T) {
	router := newSeedOnlyRouter(t)

	tests := []struct {
		path      string
		field     string
		wantCount int
	}{
		{"/api/v1/stories", "stories", 4},
		{"/api/v1/books", "books", 3},
		{"/api/v1/products", "products", 4},
		{"/api/v1/products?category=merchandise", "products", 2},
		{"/api/v1/products?category=tidak-ada", "products", 0},
		{"/api/v1/categories", "categories", 3},
		{"/api/v1/roadmaps", "roadmaps", 2},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, router, tt.path)
			require.Equal(t, http.StatusOK, w.Code)

			var resp map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			var items []json.RawMessage
			require.NoError(t, json.Unmarshal(resp[tt.field], &items))
			assert.Len(t, items, tt.wantCount)
			assert.NotEqual(t, "null", string(resp[tt.field]))
		})
	}
}

func TestContentHandler_LogsInvalidCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newSeedOnlyRouterWithLogger(t, logger.NewFromZap(zap.New(core)))

	w := get(t, router, "/api/v1/feeds?category=Gosip")
	require.Equal(t, http.StatusBadRequest, w.Code)

	entries := logs.FilterMessage("Invalid feed category").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Gosip", entries[0].ContextMap()["category"])
}
