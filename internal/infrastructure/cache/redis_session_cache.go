package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/pkg/config"
)

var _ auth.SessionCache = (*RedisSessionCache)(nil)

const (
	sessionKeyPrefix = "ims:session:"
	revokedKeyPrefix = "ims:session-revoked:"

	// RevokeHold tiempo durante el cual Set no vuelve a cachear a un usuario recién invalidado.
	RevokeHold = 5 * time.Second
)

// setUnlessRevoked escribe la sesión solo si no hay marca de revocación vigente: una
// autenticación que leyó la DB antes del cambio no puede volver a cachear el stamp viejo.
var setUnlessRevoked = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

// RedisSessionCache guarda el estado de sesión por usuario con TTL corto.
type RedisSessionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient construye el cliente a partir de la configuración.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisSessionCache construye la caché. ttl <= 0 usa 60 segundos.
func NewRedisSessionCache(rdb *redis.Client, ttl time.Duration) *RedisSessionCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisSessionCache{rdb: rdb, ttl: ttl}
}

// Get devuelve (nil, nil) si la llave no existe.
func (c *RedisSessionCache) Get(ctx context.Context, userID string) (*auth.SessionState, error) {
	raw, err := c.rdb.Get(ctx, sessionKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var s auth.SessionState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Set guarda la sesión con el TTL de la caché. Durante RevokeHold tras un Delete no escribe nada.
func (c *RedisSessionCache) Set(ctx context.Context, userID string, s auth.SessionState) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	keys := []string{sessionKeyPrefix + userID, revokedKeyPrefix + userID}
	if err := setUnlessRevoked.Run(ctx, c.rdb, keys, raw, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Delete borra la sesión y deja la marca de revocación en la misma transacción.
func (c *RedisSessionCache) Delete(ctx context.Context, userID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, sessionKeyPrefix+userID)
		p.Set(ctx, revokedKeyPrefix+userID, 1, RevokeHold)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

// Ping verifica la conexión (readiness).
func Ping(ctx context.Context, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
