package storage

import (
	"context"

	gcs "cloud.google.com/go/storage"
	"github.com/smallbiznis/pestora/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.storage",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverGCS:
		if cfg.Storage.Bucket == "" {
			log.Warn("gcs storage selected without a bucket, falling back to noop storage")
			return NoOpStorage{}, nil
		}
		client, err := gcs.NewClient(context.Background())
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ctx
				return client.Close()
			},
		})
		return NewGCS(client, cfg.Storage.Bucket), nil
	default:
		return NewLocal(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL), nil
	}
}
