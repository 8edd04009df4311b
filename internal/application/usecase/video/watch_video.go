package video

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/virtual-study-partner/internal/application/service"
	"github.com/khoahotran/virtual-study-partner/internal/application/usecase"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/video"
	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

var tracer = otel.Tracer("video_usecase")

type WatchVideoUseCase struct {
	events service.EventPublisher
	logger logger.Logger
}

func NewWatchVideoUseCase(events service.EventPublisher, log logger.Logger) *WatchVideoUseCase {
	return &WatchVideoUseCase{events: events, logger: log}
}

type WatchVideoInput struct {
	Document document.Document
}

type WatchVideoOutput struct {
	Message string
}

// Execute acknowledges the request. Nothing is streamed; the view is
// recorded later by the worker from the published event.
func (uc *WatchVideoUseCase) Execute(ctx context.Context, input WatchVideoInput) (*WatchVideoOutput, error) {
	_, span := tracer.Start(ctx, "WatchVideo")
	defer span.End()

	if !input.Document.Present(video.FieldVideoTitle) {
		return nil, apperror.NewValidation("Video title is required", "video_title missing")
	}
	title := fmt.Sprintf("%v", input.Document[video.FieldVideoTitle])
	span.SetAttributes(attribute.String("video.title", title))

	email, _ := input.Document.String("email")
	usecase.PublishAsync(uc.logger, service.ViewEventWatched, func(ctx context.Context) error {
		return uc.events.PublishViewEvent(ctx, service.ViewEvent{
			EventType:  service.ViewEventWatched,
			VideoTitle: title,
			Email:      email,
			OccurredAt: time.Now().UTC(),
		})
	})

	return &WatchVideoOutput{Message: "You are watching: " + title}, nil
}
