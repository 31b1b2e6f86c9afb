package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/freightdispatch/core/model"
)

// radiusPadding widens the GEO query: Redis uses a slightly different Earth
// radius, the tracker applies the exact haversine cut afterwards.
const radiusPadding = 1.01

// RedisConfig configures the Redis asset index.
type RedisConfig struct {
	URL       string `json:"url"`        // redis://[:password@]host[:port][/db]
	KeyPrefix string `json:"key_prefix"` // defaults to "freightdispatch"
}

// Redis keeps asset positions in a GEO set and asset records as JSON in a
// hash keyed by plate.
type Redis struct {
	client  *redis.Client
	geoKey  string
	dataKey string
}

// NewRedis connects to the index described by cfg.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return NewRedisWithClient(redis.NewClient(opts), cfg.KeyPrefix), nil
}

// NewRedisWithClient uses an existing client.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "freightdispatch"
	}
	return &Redis{
		client:  client,
		geoKey:  prefix + ":assets:geo",
		dataKey: prefix + ":assets:data",
	}
}

// Name is the search method tag.
func (r *Redis) Name() string { return "redis-geo" }

// Load replaces the whole index with assets in one transaction.
func (r *Redis) Load(ctx context.Context, assets []model.Asset) error {
	locs := make([]*redis.GeoLocation, 0, len(assets))
	records := make(map[string]any, len(assets))
	for i, a := range assets {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("directory: asset #%d: %w", i, err)
		}
		raw, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("directory: encode %s: %w", a.Plate, err)
		}
		locs = append(locs, &redis.GeoLocation{Name: a.Plate, Longitude: a.Location.Longitude, Latitude: a.Location.Latitude})
		records[a.Plate] = raw
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.geoKey, r.dataKey)
		if len(locs) > 0 {
			p.GeoAdd(ctx, r.geoKey, locs...)
			p.HSet(ctx, r.dataKey, records)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("directory: load redis index: %w", err)
	}
	return nil
}

// Upsert stores or moves one asset.
func (r *Redis) Upsert(ctx context.Context, a model.Asset) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("directory: encode %s: %w", a.Plate, err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.GeoAdd(ctx, r.geoKey, &redis.GeoLocation{Name: a.Plate, Longitude: a.Location.Longitude, Latitude: a.Location.Latitude})
		p.HSet(ctx, r.dataKey, a.Plate, raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("directory: upsert %s: %w", a.Plate, err)
	}
	return nil
}

// Find queries the GEO index around origin and returns the matching assets,
// nearest first. An index entry without a valid record is an error.
func (r *Redis) Find(ctx context.Context, origin model.GeoPoint, radiusKm float64, types []model.FleetType) ([]model.Asset, error) {
	hits, err := r.client.GeoRadius(ctx, r.geoKey, origin.Longitude, origin.Latitude, &redis.GeoRadiusQuery{
		Radius: radiusKm * radiusPadding,
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("directory: georadius: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	plates := make([]string, len(hits))
	for i, h := range hits {
		plates[i] = h.Name
	}
	vals, err := r.client.HMGet(ctx, r.dataKey, plates...).Result()
	if err != nil {
		return nil, fmt.Errorf("directory: hmget: %w", err)
	}

	out := make([]model.Asset, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("directory: no record for indexed asset %s", plates[i])
		}
		var a model.Asset
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("directory: decode %s: %w", plates[i], err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("directory: %w", err)
		}
		if slices.Contains(types, a.FleetType) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Ping checks if Redis is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
