// Package docstore stores content documents as JSONB rows in PostgreSQL, one
// table per collection.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrConflict          = errors.New("document already exists")
	ErrUnknownCollection = errors.New("unknown collection")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Collection names a document table.
type Collection string

const (
	Feeds      Collection = "feeds"
	Stories    Collection = "stories"
	Books      Collection = "books"
	Products   Collection = "products"
	Categories Collection = "categories"
	Roadmaps   Collection = "roadmaps"
)

// Collections lists every collection the store manages.
func Collections() []Collection {
	return []Collection{Feeds, Stories, Books, Products, Categories, Roadmaps}
}

func (c Collection) valid() bool {
	for _, known := range Collections() {
		if c == known {
			return true
		}
	}
	return false
}

// Filter matches documents whose top-level field equals the given text value.
type Filter map[string]string

type Store struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

func New(db *sqlx.DB) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("naanews/docstore"),
	}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Find returns the raw JSON of every document in coll matching filter.
func (s *Store) Find(ctx context.Context, coll Collection, filter Filter) (docs []string, err error) {
	ctx, span := s.startSpan(ctx, "docstore.Find", coll)
	defer func() { endSpan(span, err) }()

	if !coll.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, coll)
	}

	where, args := buildWhere(filter)
	// #nosec G202 -- table name comes from the closed Collection set; filter values are bound
	query := `SELECT doc FROM ` + string(coll) + where

	docs = make([]string, 0)
	if err = s.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("find %s: %w", coll, err)
	}
	span.SetAttributes(attribute.Int("docstore.rows", len(docs)))
	return docs, nil
}

// FindOne returns the raw JSON of the document stored under key.
func (s *Store) FindOne(ctx context.Context, coll Collection, key string) (doc string, err error) {
	ctx, span := s.startSpan(ctx, "docstore.FindOne", coll)
	defer func() { endSpan(span, err) }()

	if !coll.valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, coll)
	}

	query := `SELECT doc FROM ` + string(coll) + ` WHERE key = $1`
	err = s.db.GetContext(ctx, &doc, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find %s/%s: %w", coll, key, err)
	}
	return doc, nil
}

// Count returns the number of documents in coll.
func (s *Store) Count(ctx context.Context, coll Collection) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "docstore.Count", coll)
	defer func() { endSpan(span, err) }()

	if !coll.valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCollection, coll)
	}

	if err = s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+string(coll)); err != nil {
		return 0, fmt.Errorf("count %s: %w", coll, err)
	}
	return n, nil
}

// NextID returns one more than the largest numeric id in coll, starting at 1.
func (s *Store) NextID(ctx context.Context, coll Collection) (id int64, err error) {
	ctx, span := s.startSpan(ctx, "docstore.NextID", coll)
	defer func() { endSpan(span, err) }()

	if !coll.valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCollection, coll)
	}

	query := `SELECT COALESCE(MAX((doc->>'id')::bigint), 0) + 1 FROM ` + string(coll)
	if err = s.db.GetContext(ctx, &id, query); err != nil {
		return 0, fmt.Errorf("next id %s: %w", coll, err)
	}
	return id, nil
}

// Insert stores doc under key. It returns ErrConflict when key is taken.
func (s *Store) Insert(ctx context.Context, coll Collection, key string, doc any) (err error) {
	ctx, span := s.startSpan(ctx, "docstore.Insert", coll)
	defer func() { endSpan(span, err) }()

	payload, err := marshal(coll, doc)
	if err != nil {
		return err
	}

	query := `INSERT INTO ` + string(coll) + ` (key, doc, created_at, updated_at) VALUES ($1, $2, NOW(), NOW())`
	if _, err = s.db.ExecContext(ctx, query, key, payload); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert %s/%s: %w", coll, key, err)
	}
	return nil
}

// Replace overwrites the document under key. It returns ErrNotFound when absent.
func (s *Store) Replace(ctx context.Context, coll Collection, key string, doc any) (err error) {
	ctx, span := s.startSpan(ctx, "docstore.Replace", coll)
	defer func() { endSpan(span, err) }()

	payload, err := marshal(coll, doc)
	if err != nil {
		return err
	}

	query := `UPDATE ` + string(coll) + ` SET doc = $2, updated_at = NOW() WHERE key = $1`
	result, err := s.db.ExecContext(ctx, query, key, payload)
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", coll, key, err)
	}
	return requireAffected(result)
}

// Upsert inserts doc or overwrites the existing document under key.
func (s *Store) Upsert(ctx context.Context, coll Collection, key string, doc any) (err error) {
	ctx, span := s.startSpan(ctx, "docstore.Upsert", coll)
	defer func() { endSpan(span, err) }()

	payload, err := marshal(coll, doc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + string(coll) + ` (key, doc, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`
	if _, err = s.db.ExecContext(ctx, query, key, payload); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", coll, key, err)
	}
	return nil
}

// Delete removes the document under key. It returns ErrNotFound when absent.
func (s *Store) Delete(ctx context.Context, coll Collection, key string) (err error) {
	ctx, span := s.startSpan(ctx, "docstore.Delete", coll)
	defer func() { endSpan(span, err) }()

	if !coll.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, coll)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM `+string(coll)+` WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", coll, key, err)
	}
	return requireAffected(result)
}

// IDKey formats a numeric id as a document key.
func IDKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *Store) startSpan(ctx context.Context, name string, coll Collection) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("docstore.collection", string(coll)),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func buildWhere(filter Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	fields := make([]string, 0, len(filter))
	for field := range filter {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	clauses := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)*2)
	pos := 1
	for _, field := range fields {
		clauses = append(clauses, fmt.Sprintf("doc->>$%d = $%d", pos, pos+1))
		args = append(args, field, filter[field])
		pos += 2
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func marshal(coll Collection, doc any) ([]byte, error) {
	if !coll.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, coll)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal %s document: %w", coll, err)
	}
	return payload, nil
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
