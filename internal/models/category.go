package models

// Category classifies feeds and stories.
type Category string

const (
	CategoryNews     Category = "Berita"
	CategoryTutorial Category = "Tutorial"
	CategoryResearch Category = "Riset"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryNews, CategoryTutorial, CategoryResearch}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNews, CategoryTutorial, CategoryResearch:
		return true
	default:
		return false
	}
}

// ParseCategory converts s into a Category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}
