package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealhive/dealhive/domain"
)

func TestDealCacheGetDeal(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	deal := domain.Deal{ID: 1, Title: "Mechanical Keyboard", Price: "79.99"}
	data, err := json.Marshal(&deal)
	require.NoError(t, err)

	mockRedis.ExpectGet(fmt.Sprintf(KeyDeal, int64(1))).SetVal(string(data))

	res, err := cache.GetDeal(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", res.Title)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestDealCacheGetDealMiss(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	mockRedis.ExpectGet(fmt.Sprintf(KeyDeal, int64(1))).RedisNil()

	_, err := cache.GetDeal(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestDealCacheSetDeal(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	deal := domain.Deal{ID: 1, Title: "Mechanical Keyboard"}
	data, err := json.Marshal(&deal)
	require.NoError(t, err)

	mockRedis.ExpectSet(fmt.Sprintf(KeyDeal, int64(1)), data, dealTTL).SetVal("OK")

	require.NoError(t, cache.SetDeal(context.Background(), &deal))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestDealCacheDeleteDeal(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	mockRedis.ExpectDel(fmt.Sprintf(KeyDeal, int64(1))).SetVal(1)

	require.NoError(t, cache.DeleteDeal(context.Background(), 1))
}

func TestDealCacheHome(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	t.Run("miss", func(t *testing.T) {
		mockRedis.ExpectGet(KeyHome).RedisNil()
		_, err := cache.GetHome(context.Background())
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("roundtrip", func(t *testing.T) {
		deals := []domain.Deal{{ID: 1}, {ID: 2}}
		data, err := json.Marshal(deals)
		require.NoError(t, err)

		mockRedis.ExpectSet(KeyHome, data, homeTTL).SetVal("OK")
		require.NoError(t, cache.SetHome(context.Background(), deals))

		mockRedis.ExpectGet(KeyHome).SetVal(string(data))
		res, err := cache.GetHome(context.Background())
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})
}

func TestDealCacheHeatBuffer(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	mockRedis.ExpectHIncrBy(KeyHeatBuffer, "1", 1).SetVal(6)
	total, err := cache.IncrHeat(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)

	mockRedis.ExpectHGet(KeyHeatBuffer, "1").SetVal("6")
	heat, err := cache.GetHeat(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), heat)
}

func TestDealCacheGetHeatEmpty(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	mockRedis.ExpectHGet(KeyHeatBuffer, "5").RedisNil()

	heat, err := cache.GetHeat(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), heat)
}

func TestDealCacheFetchAndResetHeat(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	mockRedis.ExpectExists(KeyHeatBuffer).SetVal(1)
	mockRedis.ExpectRename(KeyHeatBuffer, KeyHeatProcessing).SetVal("OK")
	mockRedis.ExpectHGetAll(KeyHeatProcessing).SetVal(map[string]string{
		"1": "5",
		"2": "-3",
	})
	mockRedis.ExpectDel(KeyHeatProcessing).SetVal(1)

	deltas, err := cache.FetchAndResetHeat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 5, 2: -3}, deltas)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestDealCacheFetchAndResetHeatEmptyBuffer(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	// No buffer key means no votes since the last drain, not an error
	mockRedis.ExpectExists(KeyHeatBuffer).SetVal(0)

	deltas, err := cache.FetchAndResetHeat(context.Background())
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestDealCacheFetchAndResetHeatBufferVanishes(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewDealCache(client)

	// The key can disappear between the probe and the rename; RENAME then
	// fails with a plain "no such key" error rather than a nil reply.
	mockRedis.ExpectExists(KeyHeatBuffer).SetVal(1)
	mockRedis.ExpectRename(KeyHeatBuffer, KeyHeatProcessing).
		SetErr(errors.New("ERR no such key"))

	deltas, err := cache.FetchAndResetHeat(context.Background())
	require.NoError(t, err)
	assert.Empty(t, deltas)
}
