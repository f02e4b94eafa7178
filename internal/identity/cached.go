package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedProvider keeps resolved sessions in redis in front of a live
// provider. A cache failure degrades to the live lookup, never to an
// authentication failure.
type CachedProvider struct {
	rdb  *redis.Client
	next Provider
	ttl  time.Duration
	log  *zap.Logger
}

func NewCached(rdb *redis.Client, next Provider, ttl time.Duration, log *zap.Logger) *CachedProvider {
	return &CachedProvider{
		rdb:  rdb,
		next: next,
		ttl:  ttl,
		log:  log.Named("identity.cached"),
	}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (p *CachedProvider) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	cached, err := p.rdb.Get(ctx, sessionKey(token)).Result()
	if err == nil {
		if identity, ok := decode(cached); ok {
			return identity, nil
		}
	} else if err != redis.Nil {
		p.log.Warn("session cache read failed", zap.Error(err))
	}

	identity, err := p.next.Resolve(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	if err := p.rdb.Set(ctx, sessionKey(token), encode(identity), p.ttl).Err(); err != nil {
		p.log.Warn("session cache write failed", zap.Error(err))
	}
	return identity, nil
}

func encode(identity Identity) string {
	return fmt.Sprintf("%s:%s", identity.OperatorID.String(), identity.CompanyID.String())
}

func decode(raw string) (Identity, bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return Identity{}, false
	}
	operatorID, err := snowflake.ParseString(parts[0])
	if err != nil {
		return Identity{}, false
	}
	companyID, err := snowflake.ParseString(parts[1])
	if err != nil {
		return Identity{}, false
	}
	return Identity{OperatorID: operatorID, CompanyID: companyID}, true
}
