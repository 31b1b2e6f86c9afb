package directory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/freightdispatch/core/model"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	dir, err := NewRedis(RedisConfig{URL: "redis://" + mr.Addr(), KeyPrefix: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Close() })
	return dir, mr
}

func TestRedisLoadAndFind(t *testing.T) {
	dir, _ := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, dir.Ping(ctx))
	require.NoError(t, dir.Load(ctx, SeedFleet()))
	assert.Equal(t, "redis-geo", dir.Name())

	got, err := dir.Find(ctx, saoPaulo, 150, []model.FleetType{model.FleetHeavyTrailer})
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC-1234", "PQR-2468"}, plates(got), "nearest first")
	assert.Equal(t, model.RiskExpired, got[1].RiskStatus)
	assert.Equal(t, "João Silva", got[0].DriverName)

	got, err = dir.Find(ctx, saoPaulo, 5, allTypes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ABC-1234", "MNO-9999"}, plates(got))
}

func TestRedisLoadReplacesIndex(t *testing.T) {
	dir, _ := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, dir.Load(ctx, SeedFleet()))
	require.NoError(t, dir.Load(ctx, SeedFleet()[:1]))

	got, err := dir.Find(ctx, saoPaulo, 150, allTypes)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC-1234"}, plates(got))
}

func TestRedisUpsertMovesAsset(t *testing.T) {
	dir, _ := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, dir.Load(ctx, SeedFleet()))

	moved := SeedFleet()[0]
	moved.Location = model.GeoPoint{Latitude: -22.9068, Longitude: -43.1729, Zone: "RJ"}
	require.NoError(t, dir.Upsert(ctx, moved))

	got, err := dir.Find(ctx, saoPaulo, 3, allTypes)
	require.NoError(t, err)
	assert.NotContains(t, plates(got), "ABC-1234")

	got, err = dir.Find(ctx, moved.Location, 10, allTypes)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "RJ", got[0].Location.Zone)
}

func TestRedisMissingRecordIsAnError(t *testing.T) {
	dir, mr := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, dir.Load(ctx, SeedFleet()))
	mr.HDel("test:assets:data", "ABC-1234")

	_, err := dir.Find(ctx, saoPaulo, 150, allTypes)
	assert.ErrorContains(t, err, "no record for indexed asset ABC-1234")
}

func TestRedisRejectsInvalidAsset(t *testing.T) {
	dir, _ := newTestRedis(t)
	bad := SeedFleet()[0]
	bad.CostPerKm = 0
	assert.Error(t, dir.Load(context.Background(), []model.Asset{bad}))
	assert.Error(t, dir.Upsert(context.Background(), bad))
}

func TestRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	dir := NewRedisWithClient(client, "")
	mr.Close()

	_, err := dir.Find(context.Background(), saoPaulo, 150, allTypes)
	assert.Error(t, err)
	assert.Error(t, dir.Ping(context.Background()))
}

func TestNewRedisBadURL(t *testing.T) {
	_, err := NewRedis(RedisConfig{URL: "http://nope"})
	assert.Error(t, err)
}
