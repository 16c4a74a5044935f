package loader

import (
	"context"

	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
	"github.com/nardi-nardi/naanews-sub000/internal/seed"
)

const (
	entityProducts   = "products"
	entityProduct    = "product"
	entityCategories = "categories"
	entityRoadmaps   = "roadmaps"
	entityRoadmap    = "roadmap"
)

// Products returns products by slug. An empty category slug means all products.
func (l *Loader) Products(ctx context.Context, category string) []models.Product {
	return list(ctx, l, entityProducts, category != "",
		func(ctx context.Context) ([]models.Product, error) {
			var filter docstore.Filter
			if category != "" {
				filter = docstore.Filter{"category": category}
			}
			products, err := findAll(ctx, l, entityProducts, docstore.Products, filter, decodeProduct)
			if err != nil {
				return nil, err
			}
			models.SortProducts(products)
			return products, nil
		},
		func() []models.Product { return seed.ProductsByCategory(category) },
	)
}

func (l *Loader) ProductBySlug(ctx context.Context, slug string) *models.Product {
	return lookup(ctx, l, entityProduct,
		func(ctx context.Context) (*models.Product, bool, error) {
			return findByKey(ctx, l, entityProduct, docstore.Products, slug, decodeProduct)
		},
		func() *models.Product { return seed.ProductBySlug(slug) },
	)
}

func (l *Loader) Categories(ctx context.Context) []models.ProductCategory {
	return list(ctx, l, entityCategories, false,
		func(ctx context.Context) ([]models.ProductCategory, error) {
			categories, err := findAll(ctx, l, entityCategories, docstore.Categories, nil, decodeCategory)
			if err != nil {
				return nil, err
			}
			models.SortProductCategories(categories)
			return categories, nil
		},
		seed.Categories,
	)
}

func (l *Loader) Roadmaps(ctx context.Context) []models.Roadmap {
	return list(ctx, l, entityRoadmaps, false,
		func(ctx context.Context) ([]models.Roadmap, error) {
			roadmaps, err := findAll(ctx, l, entityRoadmaps, docstore.Roadmaps, nil, decodeRoadmap)
			if err != nil {
				return nil, err
			}
			models.SortRoadmaps(roadmaps)
			return roadmaps, nil
		},
		seed.Roadmaps,
	)
}

func (l *Loader) RoadmapBySlug(ctx context.Context, slug string) *models.Roadmap {
	return lookup(ctx, l, entityRoadmap,
		func(ctx context.Context) (*models.Roadmap, bool, error) {
			return findByKey(ctx, l, entityRoadmap, docstore.Roadmaps, slug, decodeRoadmap)
		},
		func() *models.Roadmap { return seed.RoadmapBySlug(slug) },
	)
}
