package persistence

import (
	"context"

	"github.com/pkg/errors"

	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/video"
)

type documentVideoRepo struct {
	store DocumentStore
}

func NewVideoRepo(store DocumentStore) video.Repository {
	return &documentVideoRepo{store: store}
}

func (r *documentVideoRepo) RecordView(ctx context.Context, v *video.View) error {
	doc := document.Document{
		video.FieldVideoTitle: v.VideoTitle,
		"viewed_at":           v.ViewedAt.UTC(),
	}
	if v.Email != "" {
		doc["email"] = v.Email
	}
	return errors.Wrap(r.store.InsertOne(ctx, video.ViewCollection, doc), "record video view")
}
