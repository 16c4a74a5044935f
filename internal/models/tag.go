package models

// Tag groups cache entries by entity type for bulk invalidation.
type Tag string

const (
	TagFeeds      Tag = "feeds"
	TagStories    Tag = "stories"
	TagBooks      Tag = "books"
	TagRoadmaps   Tag = "roadmaps"
	TagProducts   Tag = "products"
	TagCategories Tag = "categories"
)

// Tags returns every invalidation tag.
func Tags() []Tag {
	return []Tag{TagFeeds, TagStories, TagBooks, TagRoadmaps, TagProducts, TagCategories}
}

// ParseTag validates s against the closed tag set.
func ParseTag(s string) (Tag, bool) {
	for _, t := range Tags() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func (t Tag) String() string {
	return string(t)
}
