package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "akaun:leaderboard:"

// elapsedSpan bounds ElapsedSeconds inside the sorted-set score so that
// a higher drill score always outranks any time difference.
const elapsedSpan = 1_000_000

// Redis keeps one sorted set per drill. Members are JSON entries; the set
// score orders by drill score, then elapsed time.
type Redis struct {
	client *redis.Client
	limit  int
}

// ParseRedisURL validates a Redis connection URL.
func ParseRedisURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}

// NewRedis connects to url and pings it.
func NewRedis(ctx context.Context, url string, limit int) (*Redis, error) {
	opts, err := ParseRedisURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &Redis{client: client, limit: limit}, nil
}

// Close shuts down the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) SubmitScore(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	member, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	err = r.client.ZAdd(ctx, redisKey(e.DrillID), redis.Z{
		Score:  sortScore(e),
		Member: string(member),
	}).Err()
	if err != nil {
		return fmt.Errorf("zadd score: %w", err)
	}
	return nil
}

func (r *Redis) FetchScores(ctx context.Context, drillID string) ([]Entry, error) {
	stop := int64(-1)
	if r.limit > 0 {
		stop = int64(r.limit - 1)
	}
	members, err := r.client.ZRevRange(ctx, redisKey(drillID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange scores: %w", err)
	}
	return decodeMembers(members)
}

func redisKey(drillID string) string {
	return redisKeyPrefix + drillID
}

// sortScore packs score and elapsed time into one float: larger is better.
func sortScore(e Entry) float64 {
	elapsed := min(e.ElapsedSeconds, elapsedSpan-1)
	return float64(e.Score)*elapsedSpan - float64(elapsed)
}

func decodeMembers(members []string) ([]Entry, error) {
	out := make([]Entry, 0, len(members))
	for _, m := range members {
		var e Entry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		out = append(out, e)
	}
	// Equal set scores come back in reverse lexical order; restore timestamp order.
	return Rank(out), nil
}
