package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dealhive/dealhive/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	KeyDeal           = "deal:%d"
	KeyHome           = "deal:home"
	KeyHeatBuffer     = "deal:heat:buffer"
	KeyHeatProcessing = "deal:heat:processing"

	dealTTL = 10 * time.Minute
	homeTTL = 30 * time.Second
)

type dealCache struct {
	client *redis.Client
}

var _ domain.DealCache = (*dealCache)(nil)

func NewDealCache(client *redis.Client) *dealCache {
	return &dealCache{
		client,
	}
}

func (c *dealCache) GetDeal(ctx context.Context, id int64) (domain.Deal, error) {
	key := fmt.Sprintf(KeyDeal, id)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Deal{}, domain.ErrCacheMiss
	} else if err != nil {
		return domain.Deal{}, err
	}

	var res domain.Deal
	if err = json.Unmarshal(data, &res); err != nil {
		return domain.Deal{}, err
	}
	return res, nil
}

func (c *dealCache) SetDeal(ctx context.Context, d *domain.Deal) error {
	key := fmt.Sprintf(KeyDeal, d.ID)
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, dealTTL).Err()
}

func (c *dealCache) DeleteDeal(ctx context.Context, id int64) error {
	key := fmt.Sprintf(KeyDeal, id)
	return c.client.Del(ctx, key).Err()
}

func (c *dealCache) GetHome(ctx context.Context) ([]domain.Deal, error) {
	data, err := c.client.Get(ctx, KeyHome).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	} else if err != nil {
		return nil, err
	}

	var res []domain.Deal
	if err = json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *dealCache) SetHome(ctx context.Context, deals []domain.Deal) error {
	data, err := json.Marshal(deals)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyHome, data, homeTTL).Err()
}

func (c *dealCache) IncrHeat(ctx context.Context, id int64, delta int64) (int64, error) {
	return c.client.HIncrBy(ctx, KeyHeatBuffer, strconv.FormatInt(id, 10), delta).Result()
}

func (c *dealCache) GetHeat(ctx context.Context, id int64) (int64, error) {
	resStr, err := c.client.HGet(ctx, KeyHeatBuffer, strconv.FormatInt(id, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	heat, err := strconv.ParseInt(resStr, 10, 64)
	if err != nil {
		logrus.Errorf("invalid heat buffer value for deal %d: %v", id, err)
		return 0, nil
	}
	return heat, nil
}

func (c *dealCache) FetchAndResetHeat(ctx context.Context) (map[int64]int64, error) {
	result := make(map[int64]int64)

	// RENAME on a missing source returns a plain "no such key" error, not a
	// nil reply, so check EXISTS first to keep idle drain cycles quiet.
	n, err := c.client.Exists(ctx, KeyHeatBuffer).Result()
	if err != nil {
		return result, err
	}
	if n == 0 {
		return result, nil
	}

	if err := c.client.Rename(ctx, KeyHeatBuffer, KeyHeatProcessing).Err(); err != nil {
		// The buffer can expire between the check and the rename.
		if isMissingKeyErr(err) {
			return result, nil
		}
		return result, err
	}

	data, err := c.client.HGetAll(ctx, KeyHeatProcessing).Result()
	if err != nil {
		return result, err
	}

	for idStr, deltaStr := range data {
		id, _ := strconv.ParseInt(idStr, 10, 64)
		delta, _ := strconv.ParseInt(deltaStr, 10, 64)
		result[id] = delta
	}

	c.client.Del(ctx, KeyHeatProcessing)

	return result, nil
}

func isMissingKeyErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such key")
}
