package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/common"
	redisPkg "golang-stock-watchlist/pkg/redis"

	redis "github.com/redis/go-redis/v9"
)

// AlertStateRepository keeps the watcher's alert bookkeeping in Redis: the
// most recently fetched price per symbol and the last price each alert side
// fired at, used to throttle resends.
type AlertStateRepository interface {
	SetLastPrice(ctx context.Context, symbol string, price float64, ttl time.Duration) error
	LastAlertPrice(ctx context.Context, side entity.AlertSide, symbol string) (float64, error)
	SetLastAlertPrice(ctx context.Context, side entity.AlertSide, symbol string, price float64, ttl time.Duration) error
}

// NewAlertStateRepository creates a Redis-backed alert state repository.
func NewAlertStateRepository(client *redisPkg.Client) AlertStateRepository {
	return &alertStateRepository{client: client}
}

type alertStateRepository struct {
	client *redisPkg.Client
}

// SetLastPrice mirrors the latest fetched price for a symbol.
func (r *alertStateRepository) SetLastPrice(ctx context.Context, symbol string, price float64, ttl time.Duration) error {
	key := common.RedisKeyLastPrice(symbol)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":     price,
		"timestamp": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// LastAlertPrice returns the price the last alert fired at for this symbol
// and side, or 0 when no alert has fired yet.
func (r *alertStateRepository) LastAlertPrice(ctx context.Context, side entity.AlertSide, symbol string) (float64, error) {
	val, err := r.client.Get(ctx, common.RedisKeyAlertState(string(side), symbol)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(val, 64)
}

// SetLastAlertPrice records the price an alert fired at.
func (r *alertStateRepository) SetLastAlertPrice(ctx context.Context, side entity.AlertSide, symbol string, price float64, ttl time.Duration) error {
	return r.client.Set(ctx, common.RedisKeyAlertState(string(side), symbol), price, ttl).Err()
}
