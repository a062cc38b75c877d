package redis

import (
	"context"
	"hash/crc32"
	"hash/fnv"
	"strconv"

	"github.com/dealhive/dealhive/domain"
	"github.com/redis/go-redis/v9"
)

const (
	KeyDealBloom = "bloom:deal:ids"

	// Knuth's multiplicative constant, spreads the derived third bit
	// position away from the first two.
	bloomMix = 2654435761
)

type redisBloomRepo struct {
	client *redis.Client
	bits   uint64
}

var _ domain.BloomRepository = (*redisBloomRepo)(nil)

func NewRedisBloomRepo(client *redis.Client, bitSize uint64) *redisBloomRepo {
	return &redisBloomRepo{
		client: client,
		bits:   bitSize,
	}
}

func (r *redisBloomRepo) Add(ctx context.Context, id int64) error {
	return r.BulkAdd(ctx, []int64{id})
}

func (r *redisBloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, id := range ids {
		for _, pos := range r.bitPositions(id) {
			pipe.SetBit(ctx, KeyDealBloom, int64(pos), 1)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisBloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	pipe := r.client.Pipeline()
	for _, pos := range r.bitPositions(id) {
		pipe.GetBit(ctx, KeyDealBloom, int64(pos))
	}
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		val, err := cmd.(*redis.IntCmd).Result()
		if err != nil {
			return false, err
		}
		if val == 0 {
			return false, nil
		}
	}

	return true, nil
}

// bitPositions derives k=3 bit positions per deal ID: two independent
// hashes (CRC32, FNV-1a) plus a multiplicative combination of both.
func (r *redisBloomRepo) bitPositions(id int64) [3]uint64 {
	data := strconv.AppendInt(nil, id, 10)

	h := fnv.New64a()
	h.Write(data)

	var pos [3]uint64
	pos[0] = uint64(crc32.ChecksumIEEE(data)) % r.bits
	pos[1] = h.Sum64() % r.bits
	pos[2] = (pos[0]*bloomMix + pos[1]) % r.bits
	return pos
}
