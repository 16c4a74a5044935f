package models

import "slices"

// Product is a storefront item. Price is in minor currency units.
type Product struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"gte=0"`
	Currency    string `json:"currency"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Stock       int    `json:"stock" binding:"gte=0"`
	Featured    bool   `json:"featured"`
}

// ProductCategory groups products in the storefront.
type ProductCategory struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type RoadmapStep struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
}

// Roadmap is an ordered learning path.
type Roadmap struct {
	Slug        string        `json:"slug" binding:"required"`
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Level       string        `json:"level"`
	Steps       []RoadmapStep `json:"steps" binding:"dive"`
}

// Clone returns a deep copy of r.
func (r Roadmap) Clone() Roadmap {
	if r.Steps != nil {
		steps := make([]RoadmapStep, len(r.Steps))
		for i, s := range r.Steps {
			s.Resources = slices.Clone(s.Resources)
			steps[i] = s
		}
		r.Steps = steps
	}
	return r
}
