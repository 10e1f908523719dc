package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes training progress to a redis instance so live
// dashboards can follow a run. A nil sink swallows everything, callers
// never have to branch.
type RedisSink struct {
	client *redis.Client
	run    string
}

// NewRedisSink connects to addr and verifies it answers, an empty addr
// yields a nil disabled sink.
func NewRedisSink(addr, run string) (*RedisSink, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis at %s: %w", addr, err)
	}
	return &RedisSink{client: client, run: run}, nil
}

func (s *RedisSink) Publish(ctx context.Context, row ProgressRow) error {
	if s == nil {
		return nil
	}
	key := fmt.Sprintf("%s:iter:%d", s.run, row.Iteration)
	err := s.client.HSet(ctx, key, map[string]interface{}{
		"episodes_total":      row.EpisodesTotal,
		"episode_reward_mean": row.RewardMean,
		"episode_reward_min":  row.RewardMin,
		"episode_reward_max":  row.RewardMax,
		"mean_speed":          row.MeanSpeed,
	}).Err()
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.run+":rewards", row.RewardMean).Err()
}

func (s *RedisSink) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
