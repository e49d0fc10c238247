// Package redis stores the league tables in Redis so several dashboard
// processes share one cache epoch and one fetched copy of the season.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/omarshaarawi/ffdash/internal/models"
)

type Repository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRepository connects to redisURL and verifies the connection. Keys are
// namespaced by league and season.
func NewRepository(redisURL, leagueID, year string, ttl time.Duration) (*Repository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return New(client, leagueID, year, ttl), nil
}

func New(client *redis.Client, leagueID, year string, ttl time.Duration) *Repository {
	return &Repository{
		client: client,
		prefix: fmt.Sprintf("ffdash:%s:%s:", leagueID, year),
		ttl:    ttl,
	}
}

func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) epochKey() string {
	return r.prefix + "epoch"
}

func (r *Repository) tablesKey(epoch uint64) string {
	return r.prefix + "tables:" + strconv.FormatUint(epoch, 10)
}

func (r *Repository) Epoch(ctx context.Context) (uint64, error) {
	v, err := r.client.Get(ctx, r.epochKey()).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading epoch: %w", err)
	}
	return v, nil
}

func (r *Repository) BumpEpoch(ctx context.Context) (uint64, error) {
	v, err := r.client.Incr(ctx, r.epochKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("bumping epoch: %w", err)
	}
	epoch := uint64(v)
	if epoch > 0 {
		if err := r.client.Del(ctx, r.tablesKey(epoch-1)).Err(); err != nil {
			return epoch, fmt.Errorf("dropping stale tables: %w", err)
		}
	}
	return epoch, nil
}

func (r *Repository) GetTables(ctx context.Context, epoch uint64) (*models.LeagueTables, bool, error) {
	b, err := r.client.Get(ctx, r.tablesKey(epoch)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading tables: %w", err)
	}

	var tables models.LeagueTables
	if err := sonic.Unmarshal(b, &tables); err != nil {
		return nil, false, fmt.Errorf("decoding tables: %w", err)
	}
	return &tables, true, nil
}

func (r *Repository) SaveTables(ctx context.Context, epoch uint64, tables *models.LeagueTables) error {
	current, err := r.Epoch(ctx)
	if err != nil {
		return err
	}
	if epoch < current {
		return nil
	}

	b, err := sonic.Marshal(tables)
	if err != nil {
		return fmt.Errorf("encoding tables: %w", err)
	}
	if err := r.client.Set(ctx, r.tablesKey(epoch), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing tables: %w", err)
	}
	return nil
}
