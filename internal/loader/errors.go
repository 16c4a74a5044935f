package loader

import (
	"errors"
	"fmt"

	"github.com/nardi-nardi/naanews-sub000/internal/gateway"
)

// Kind classifies why a store read could not be used.
type Kind int

const (
	StoreUnavailable Kind = iota + 1
	QueryFailure
	DecodeFailure
)

func (k Kind) String() string {
	switch k {
	case StoreUnavailable:
		return "store_unavailable"
	case QueryFailure:
		return "query_failure"
	case DecodeFailure:
		return "decode_failure"
	default:
		return "unknown"
	}
}

// LoadError is returned by the internal query functions. Every LoadError is
// recovered at the loader boundary by serving seed data.
type LoadError struct {
	Kind   Kind
	Entity string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Entity, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// classify wraps err in a LoadError unless it already is one.
func classify(entity string, err error) *LoadError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	kind := QueryFailure
	if errors.Is(err, gateway.ErrUnavailable) {
		kind = StoreUnavailable
	}
	return &LoadError{Kind: kind, Entity: entity, Err: err}
}

func decodeError(entity string, index int, err error) *LoadError {
	return &LoadError{
		Kind:   DecodeFailure,
		Entity: entity,
		Err:    fmt.Errorf("document %d: %w", index, err),
	}
}
