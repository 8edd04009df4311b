package persistence

import (
	"context"

	"github.com/pkg/errors"

	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/course"
	"github.com/khoahotran/virtual-study-partner/internal/domain/playlist"
	"github.com/khoahotran/virtual-study-partner/internal/domain/teacher"
)

type documentCatalogRepo[T catalog.Entry] struct {
	store DocumentStore
	kind  catalog.Kind[T]
}

func NewCatalogRepo[T catalog.Entry](store DocumentStore, kind catalog.Kind[T]) catalog.Repository[T] {
	return &documentCatalogRepo[T]{store: store, kind: kind}
}

func NewCourseRepo(store DocumentStore) course.Repository {
	return NewCatalogRepo(store, course.Kind)
}

func NewPlaylistRepo(store DocumentStore) playlist.Repository {
	return NewCatalogRepo(store, playlist.Kind)
}

func NewTeacherRepo(store DocumentStore) teacher.Repository {
	return NewCatalogRepo(store, teacher.Kind)
}

func (r *documentCatalogRepo[T]) Save(ctx context.Context, item T) error {
	if err := r.store.InsertOne(ctx, r.kind.Collection, item.Document()); err != nil {
		return errors.Wrapf(err, "save %s", r.kind.Collection)
	}
	return nil
}

func (r *documentCatalogRepo[T]) List(ctx context.Context) ([]T, error) {
	docs, err := r.store.FindAll(ctx, r.kind.Collection)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", r.kind.Collection)
	}
	items := make([]T, len(docs))
	for i, d := range docs {
		items[i] = r.kind.Decode(d)
	}
	return items, nil
}
