package identity

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pestora/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("identity",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, db *gorm.DB, log *zap.Logger) Provider {
	live := NewLive(db, log)
	if cfg.Identity.Mode != config.IdentityModeCached {
		return live
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Identity.RedisAddr,
		Password: cfg.Identity.RedisPassword,
		DB:       cfg.Identity.RedisDB,
	})
	ttl := time.Duration(cfg.Identity.SessionTTLSecs) * time.Second
	return NewCached(rdb, live, ttl, log)
}
