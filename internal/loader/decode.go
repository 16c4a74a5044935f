package loader

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

var (
	errInvalidJSON = errors.New("invalid JSON document")
	errMissingID   = errors.New("missing or invalid id")
	errMissingSlug = errors.New("missing slug")
)

// Decoders read raw documents field by field. Optional fields that are absent
// or carry the wrong JSON type take their zero default; a document without a
// usable key or title is rejected.

func parse(raw string) (gjson.Result, error) {
	if !gjson.Valid(raw) {
		return gjson.Result{}, errInvalidJSON
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return gjson.Result{}, errInvalidJSON
	}
	return doc, nil
}

func decodeFeed(raw string) (models.Feed, error) {
	doc, err := parse(raw)
	if err != nil {
		return models.Feed{}, err
	}

	id, err := requireID(doc)
	if err != nil {
		return models.Feed{}, err
	}
	title, err := requireString(doc, "title")
	if err != nil {
		return models.Feed{}, err
	}

	return models.Feed{
		ID:         id,
		Title:      title,
		Category:   category(doc.Get("category")),
		CreatedAt:  timestamp(doc.Get("createdAt")),
		Popularity: int(integer(doc.Get("popularity"))),
		Image:      str(doc.Get("image")),
		Lines:      lines(doc.Get("lines")),
		Takeaway:   str(doc.Get("takeaway")),
		Source:     source(doc.Get("source")),
		StoryID:    optionalID(doc.Get("storyId")),
	}, nil
}

func decodeStory(raw string) (models.Story, error) {
	doc, err := parse(raw)
	if err != nil {
		return models.Story{}, err
	}

	id, err := requireID(doc)
	if err != nil {
		return models.Story{}, err
	}
	name, err := requireString(doc, "name")
	if err != nil {
		return models.Story{}, err
	}

	return models.Story{
		ID:      id,
		Name:    name,
		Label:   str(doc.Get("label")),
		Type:    category(doc.Get("type")),
		Palette: str(doc.Get("palette")),
		Cover:   str(doc.Get("cover")),
		Viral:   boolean(doc.Get("viral")),
	}, nil
}

func decodeBook(raw string) (models.Book, error) {
	doc, err := parse(raw)
	if err != nil {
		return models.Book{}, err
	}

	id, err := requireID(doc)
	if err != nil {
		return models.Book{}, err
	}
	title, err := requireString(doc, "title")
	if err != nil {
		return models.Book{}, err
	}

	chapters := make([]models.Chapter, 0)
	if arr := doc.Get("chapters"); arr.IsArray() {
		for _, ch := range arr.Array() {
			if !ch.IsObject() {
				continue
			}
			chapters = append(chapters, models.Chapter{
				Title: str(ch.Get("title")),
				Lines: lines(ch.Get("lines")),
			})
		}
	}

	return models.Book{
		ID:          id,
		Title:       title,
		Author:      str(doc.Get("author")),
		Cover:       str(doc.Get("cover")),
		Genre:       str(doc.Get("genre")),
		Pages:       int(integer(doc.Get("pages"))),
		Rating:      models.ClampRating(number(doc.Get("rating"))),
		Description: str(doc.Get("description")),
		Chapters:    chapters,
		StoryID:     optionalID(doc.Get("storyId")),
	}, nil
}

func decodeProduct(raw string) (models.Product, error) {
	doc, err := parse(raw)
	if err != nil {
		return models.Product{}, err
	}

	slug, err := requireSlug(doc)
	if err != nil {
		return models.Product{}, err
	}
	name, err := requireString(doc, "name")
	if err != nil {
		return models.Product{}, err
	}

	currency := str(doc.Get("currency"))
	if currency == "" {
		currency = defaultCurrency
	}

	return models.Product{
		Slug:        slug,
		Name:        name,
		Description: str(doc.Get("description")),
		Price:       max(integer(doc.Get("price")), 0),
		Currency:    currency,
		Image:       str(doc.Get("image")),
		Category:    str(doc.Get("category")),
		Stock:       int(max(integer(doc.Get("stock")), 0)),
		Featured:    boolean(doc.Get("featured")),
	}, nil
}

func decodeCategory(raw string) (models.ProductCategory, error) {
	doc, err := parse(raw)
	if err != nil {
		return models.ProductCategory{}, err
	}

	slug, err := requireSlug(doc)
	if err != nil {
		return models.ProductCategory{}, err
	}
	name, err := requireString(doc, "name")
	if err != nil {
		return models.ProductCategory{}, err
	}

	return models.ProductCategory{
		Slug:        slug,
		Name:        name,
		Description: str(doc.Get("description")),
		Icon:        str(doc.Get("icon")),
	}, nil
}

func decodeRoadmap(raw string) (models.Roadmap, error) {
	doc, err := parse(raw)
	if err != nil {
		return models.Roadmap{}, err
	}

	slug, err := requireSlug(doc)
	if err != nil {
		return models.Roadmap{}, err
	}
	title, err := requireString(doc, "title")
	if err != nil {
		return models.Roadmap{}, err
	}

	steps := make([]models.RoadmapStep, 0)
	if arr := doc.Get("steps"); arr.IsArray() {
		for _, s := range arr.Array() {
			if !s.IsObject() {
				continue
			}
			steps = append(steps, models.RoadmapStep{
				Title:       str(s.Get("title")),
				Description: str(s.Get("description")),
				Resources:   stringList(s.Get("resources")),
			})
		}
	}

	return models.Roadmap{
		Slug:        slug,
		Title:       title,
		Description: str(doc.Get("description")),
		Level:       str(doc.Get("level")),
		Steps:       steps,
	}, nil
}

const defaultCurrency = "IDR"

func requireID(doc gjson.Result) (int64, error) {
	id := optionalID(doc.Get("id"))
	if id == nil || *id <= 0 {
		return 0, errMissingID
	}
	return *id, nil
}

func requireSlug(doc gjson.Result) (string, error) {
	slug := str(doc.Get("slug"))
	if slug == "" {
		return "", errMissingSlug
	}
	return slug, nil
}

func requireString(doc gjson.Result, field string) (string, error) {
	v := str(doc.Get(field))
	if v == "" {
		return "", fmt.Errorf("missing %s", field)
	}
	return v, nil
}

func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func stringList(r gjson.Result) []string {
	out := make([]string, 0)
	if !r.IsArray() {
		return out
	}
	for _, v := range r.Array() {
		if v.Type == gjson.String {
			out = append(out, v.Str)
		}
	}
	return out
}

func integer(r gjson.Result) int64 {
	if r.Type != gjson.Number {
		return 0
	}
	return r.Int()
}

func number(r gjson.Result) float64 {
	if r.Type != gjson.Number {
		return 0
	}
	return r.Num
}

func boolean(r gjson.Result) bool {
	return r.Type == gjson.True
}

// optionalID accepts a positive integral number. Anything else, including
// null, is treated as absent.
func optionalID(r gjson.Result) *int64 {
	if r.Type != gjson.Number || r.Num != float64(int64(r.Num)) || r.Num <= 0 {
		return nil
	}
	return models.IDPtr(int64(r.Num))
}

// category maps an unknown or missing category to news.
func category(r gjson.Result) models.Category {
	if c, ok := models.ParseCategory(str(r)); ok {
		return c
	}
	return models.CategoryNews
}

// timestamp accepts unix milliseconds or an RFC 3339 string.
func timestamp(r gjson.Result) time.Time {
	switch r.Type {
	case gjson.Number:
		return time.UnixMilli(r.Int()).UTC()
	case gjson.String:
		if t, err := time.Parse(time.RFC3339Nano, r.Str); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func lines(r gjson.Result) []models.Line {
	out := make([]models.Line, 0)
	if !r.IsArray() {
		return out
	}
	for _, l := range r.Array() {
		if !l.IsObject() {
			continue
		}
		out = append(out, models.Line{
			Role:  str(l.Get("role")),
			Text:  str(l.Get("text")),
			Image: str(l.Get("image")),
		})
	}
	return out
}

func source(r gjson.Result) *models.Source {
	if !r.IsObject() {
		return nil
	}
	src := &models.Source{
		Title: str(r.Get("title")),
		URL:   str(r.Get("url")),
	}
	if src.Title == "" && src.URL == "" {
		return nil
	}
	return src
}
