package srv

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/barista/pkg/log"
	"golang.org/x/sync/errgroup"
)

const DefaultShutdownTimeout = 10 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service and blocks until ctx is cancelled or a service
// fails to start. Services are then shut down in reverse order.
func Run(ctx context.Context, services []Service, shutdownTimeout time.Duration) error {
	logger := log.FromCtx(ctx)
	g, gctx := errgroup.WithContext(ctx)

	for _, service := range services {
		g.Go(func() error {
			if err := service.Start(gctx); err != nil {
				return fmt.Errorf("%T failed to start: %w", service, err)
			}
			return nil
		})
	}

	<-gctx.Done()
	logger.Info().Msg("shutting down services")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}

	return g.Wait()
}
