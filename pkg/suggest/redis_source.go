package suggest

import (
	"context"
	"fmt"

	"github.com/matst80/slask-filters/pkg/types"
	"github.com/redis/go-redis/v9"
)

// RedisSource keeps the candidates of a filter in a sorted set scored by the
// candidate sort key, labels are kept in a hash next to it.
type RedisSource struct {
	client *redis.Client
	prefix string
}

func NewRedisSource(addr, password string, db int) *RedisSource {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSource{client: rdb, prefix: "suggest"}
}

func (r *RedisSource) valuesKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *RedisSource) labelsKey(key string) string {
	return fmt.Sprintf("%s:%s:labels", r.prefix, key)
}

func (r *RedisSource) Lookup(ctx context.Context, key, _ string) ([]types.Candidate, error) {
	members, err := r.client.ZRangeWithScores(ctx, r.valuesKey(key), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	labels, err := r.client.HGetAll(ctx, r.labelsKey(key)).Result()
	if err != nil {
		return nil, err
	}
	ret := make([]types.Candidate, 0, len(members))
	for _, member := range members {
		value, ok := member.Member.(string)
		if !ok {
			continue
		}
		sort := int(member.Score)
		ret = append(ret, types.Candidate{
			Value: value,
			Label: labels[value],
			Sort:  &sort,
		})
	}
	return ret, nil
}

// Store replaces the candidates of a filter. Candidates without a sort key
// get their list position.
func (r *RedisSource) Store(ctx context.Context, key string, candidates []types.Candidate) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.valuesKey(key), r.labelsKey(key))
		for i, candidate := range candidates {
			score := float64(i)
			if candidate.Sort != nil {
				score = float64(*candidate.Sort)
			}
			pipe.ZAdd(ctx, r.valuesKey(key), redis.Z{Score: score, Member: candidate.Value})
			if candidate.Label != "" {
				pipe.HSet(ctx, r.labelsKey(key), candidate.Value, candidate.Label)
			}
		}
		return nil
	})
	return err
}

func (r *RedisSource) Close() error {
	return r.client.Close()
}
