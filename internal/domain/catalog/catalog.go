// Package catalog holds the contract shared by the browseable collections:
// courses, playlists and teacher profiles.
package catalog

import (
	"context"
	"errors"

	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
)

var ErrMissingFields = errors.New("required fields are missing")

// Entry is a catalog item that knows its required fields and can be
// written back as a document verbatim.
type Entry interface {
	Validate() error
	Document() document.Document
}

type Repository[T Entry] interface {
	Save(ctx context.Context, item T) error
	List(ctx context.Context) ([]T, error)
}

// Kind describes one catalog collection.
type Kind[T Entry] struct {
	Collection string
	// Noun is used in log lines and client messages, e.g. "Course".
	Noun     string
	Required []string
	// MissingMessage is returned to clients when validation fails.
	MissingMessage string
	// Decode builds an item from a stored document without validating it.
	Decode func(doc document.Document) T
}

// New decodes and validates a caller-supplied document.
func (k Kind[T]) New(doc document.Document) (T, error) {
	item := k.Decode(doc)
	if err := item.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Split pulls the non-null values of keys out of doc, whatever their type.
// Explicit nulls stay in the returned extras so Join restores them.
func Split(doc document.Document, keys ...string) (map[string]any, document.Document) {
	fields := make(map[string]any, len(keys))
	extra := doc.Clone()
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			fields[k] = v
			delete(extra, k)
		}
	}
	return fields, extra
}

// Join is the inverse of Split.
func Join(fields map[string]any, extra document.Document) document.Document {
	out := extra.Clone()
	for k, v := range fields {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Require fails with ErrMissingFields unless every key holds a present
// value. Presence is truthiness; the value's type is not checked.
func Require(fields map[string]any, keys ...string) error {
	if len(document.Document(fields).Missing(keys...)) > 0 {
		return ErrMissingFields
	}
	return nil
}
