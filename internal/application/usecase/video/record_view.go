package video

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/application/service"
	"github.com/khoahotran/virtual-study-partner/internal/domain/video"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

var ErrInvalidViewEvent = errors.New("view event has no video title")

// RecordViewUseCase persists view events consumed by the worker.
type RecordViewUseCase struct {
	repo   video.Repository
	logger logger.Logger
}

func NewRecordViewUseCase(repo video.Repository, log logger.Logger) *RecordViewUseCase {
	return &RecordViewUseCase{repo: repo, logger: log}
}

func (uc *RecordViewUseCase) Execute(ctx context.Context, evt service.ViewEvent) error {
	ctx, span := tracer.Start(ctx, "RecordView")
	defer span.End()

	if evt.VideoTitle == "" {
		return ErrInvalidViewEvent
	}
	viewedAt := evt.OccurredAt
	if viewedAt.IsZero() {
		viewedAt = time.Now().UTC()
	}

	view := &video.View{VideoTitle: evt.VideoTitle, Email: evt.Email, ViewedAt: viewedAt}
	if err := uc.repo.RecordView(ctx, view); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "record view")
	}
	uc.logger.Debug("Video view recorded", zap.String("video_title", evt.VideoTitle))
	return nil
}
