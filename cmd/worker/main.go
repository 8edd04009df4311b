package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/adapters/event"
	"github.com/khoahotran/virtual-study-partner/adapters/persistence"
	videoUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/video"
	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
	"github.com/khoahotran/virtual-study-partner/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	if err != nil {
		appLogger.Fatal("cannot load config", err)
	}
	appLogger.Info("Starting Virtual Study Partner Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("cannot start worker", errors.New("KAFKA_BROKERS is not configured"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "virtual-study-partner-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer tp.Shutdown(context.Background())

	// Document store
	store, err := persistence.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open document store", err)
	}
	defer store.Close(context.Background())

	// Worker Use Case
	recordViewUC := videoUC.NewRecordViewUseCase(persistence.NewVideoRepo(store), appLogger)

	// Kafka Consumer
	viewConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicViewEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer viewConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicViewEvents), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := viewConsumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		payload, err := event.DecodeViewEvent(msg)
		if err != nil {
			appLogger.Warn("Skipping undecodable event", zap.Error(err), zap.Int64("offset", msg.Offset))
			commitMessage(viewConsumer, msg, appLogger)
			continue
		}

		err = recordViewUC.Execute(ctx, payload)
		switch {
		case errors.Is(err, videoUC.ErrInvalidViewEvent):
			appLogger.Warn("Skipping invalid view event", zap.Int64("offset", msg.Offset))
		case err != nil:
			// left uncommitted so the group redelivers it
			appLogger.Error("Failed to record view", err, zap.String("video_title", payload.VideoTitle))
			continue
		}

		commitMessage(viewConsumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
