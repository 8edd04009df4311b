package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

const publishTimeout = 5 * time.Second

var inflight sync.WaitGroup

// PublishAsync runs publish in the background with its own deadline so a
// slow broker never holds up the response.
func PublishAsync(log logger.Logger, name string, publish func(ctx context.Context) error) {
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := publish(ctx); err != nil {
			log.Error("Failed to publish event", err, zap.String("event", name))
		}
	}()
}

// DrainPublishes waits for every PublishAsync call to finish, or for ctx to
// end. Call it before closing the publisher.
func DrainPublishes(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
