package ratelimit

import (
	"context"
	"time"

	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sweepInterval = 5 * time.Minute

func NewStore(cfg config.Config, clk clock.Clock, log *zap.Logger) (Store, error) {
	if cfg.RedisAddr != "" {
		store, err := NewRedisStore(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		log.Info("rate limiter using redis store", zap.String("addr", cfg.RedisAddr))
		return store, nil
	}
	return NewMemoryStore(clk), nil
}

var Module = fx.Module("ratelimit",
	fx.Provide(NewStore),
	fx.Invoke(runSweeper),
)

// runSweeper evicts long-expired counters in the background so the in-memory
// store does not grow without bound.
func runSweeper(lc fx.Lifecycle, store Store, clk clock.Clock, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if removed := store.Sweep(clk.Now()); removed > 0 {
							log.Debug("rate limit sweep", zap.Int("removed", removed))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
