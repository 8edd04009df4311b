package video

import (
	"context"
	"time"
)

const (
	ViewCollection = "video_views"

	FieldVideoTitle = "video_title"
)

// View is one "watch" acknowledgement, recorded asynchronously by the worker.
type View struct {
	VideoTitle string
	Email      string
	ViewedAt   time.Time
}

type Repository interface {
	RecordView(ctx context.Context, v *View) error
}
