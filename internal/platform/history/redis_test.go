package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// fakeRedis implements the narrow redisClient interface with an in-memory
// list, so the capped-window behavior can be checked without a server.
type fakeRedis struct {
	list     []string
	pushErr  error
	rangeErr error
}

func (f *fakeRedis) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.pushErr != nil {
		cmd := redis.NewIntCmd(ctx)
		cmd.SetErr(f.pushErr)
		return cmd
	}
	for _, v := range values {
		f.list = append([]string{string(v.([]byte))}, f.list...)
	}
	return redis.NewIntResult(int64(len(f.list)), nil)
}

func (f *fakeRedis) LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd {
	if stop >= 0 && int64(len(f.list)) > stop+1 {
		f.list = f.list[:stop+1]
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	if f.rangeErr != nil {
		return redis.NewStringSliceResult(nil, f.rangeErr)
	}
	if stop < 0 || stop >= int64(len(f.list)) {
		stop = int64(len(f.list)) - 1
	}
	if start > stop {
		return redis.NewStringSliceResult(nil, nil)
	}
	out := make([]string, 0, stop-start+1)
	out = append(out, f.list[start:stop+1]...)
	return redis.NewStringSliceResult(out, nil)
}

func newRedisHistory(t *testing.T, client redisClient, maxEntries int) *RedisHistory {
	t.Helper()
	store, err := NewRedisHistory(client, maxEntries, slog.Default())
	require.NoError(t, err)
	return store
}

func TestRedisHistoryAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{}
	store := newRedisHistory(t, fake, 5)

	first := assist.NewNotification(assist.NotificationGateChange, "Gate Change", "Flight AI 202 gate changed from B14 to C5", "AI 202")
	second := assist.NewNotification(assist.NotificationInfo, "", "Welcome to GateGuide", "")
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	got, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, "AI 202", got[1].FlightNumber)
}

func TestRedisHistoryTrimsToCap(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{}
	store := newRedisHistory(t, fake, 2)

	for i := 0; i < 4; i++ {
		require.NoError(t, store.Append(ctx, assist.NewNotification(assist.NotificationInfo, "", "event", "")))
	}

	assert.Len(t, fake.list, 2)
}

func TestRedisHistorySkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{}
	store := newRedisHistory(t, fake, 5)

	good := assist.NewNotification(assist.NotificationBoarding, "Now Boarding", "Flight BA 142 is now boarding", "BA 142")
	payload, err := json.Marshal(good)
	require.NoError(t, err)
	fake.list = []string{"{not json", string(payload)}

	got, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, good.ID, got[0].ID)
}

func TestRedisHistoryPropagatesErrors(t *testing.T) {
	ctx := context.Background()

	down := &fakeRedis{pushErr: errors.New("connection refused"), rangeErr: errors.New("connection refused")}
	store := newRedisHistory(t, down, 5)

	err := store.Append(ctx, assist.NewNotification(assist.NotificationInfo, "", "event", ""))
	require.Error(t, err)

	_, err = store.Recent(ctx, 5)
	require.Error(t, err)
}
