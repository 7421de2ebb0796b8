package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/service"
)

const LeaderboardKey = "artist:leaderboard:tips"

// RedisLeaderboard ranks artists by total tips in a sorted set. Members are hex addresses.
type RedisLeaderboard struct {
	client *redis.Client
	key    string
}

var _ service.LeaderboardStore = (*RedisLeaderboard)(nil)

func NewRedisLeaderboard(rc *RedisClient) *RedisLeaderboard {
	return &RedisLeaderboard{client: rc.Client, key: LeaderboardKey}
}

// Record stores the absolute total and only ever raises a score, so replayed or
// reordered tip tasks cannot move an artist down.
// Scores are float64: totals above 2^53 lamports keep their order only to within
// float precision, and Top may round them. The profile record holds the exact value.
func (l *RedisLeaderboard) Record(ctx context.Context, artist model.Address, totalTips uint64) error {
	return l.client.ZAddGT(ctx, l.key, redis.Z{
		Score:  float64(totalTips),
		Member: artist.String(),
	}).Err()
}

func (l *RedisLeaderboard) Remove(ctx context.Context, artist model.Address) error {
	return l.client.ZRem(ctx, l.key, artist.String()).Err()
}

func (l *RedisLeaderboard) Top(ctx context.Context, limit int) ([]service.LeaderboardScore, error) {
	if limit <= 0 {
		return nil, nil
	}
	entries, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard read: %w", err)
	}

	scores := make([]service.LeaderboardScore, 0, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		addr, err := model.ParseKey(member)
		if err != nil {
			continue
		}
		scores = append(scores, service.LeaderboardScore{
			Artist:    addr,
			TotalTips: uint64(z.Score),
		})
	}
	return scores, nil
}

// Replace builds the new ranking under a scratch key and renames it over the live one
func (l *RedisLeaderboard) Replace(ctx context.Context, scores []service.LeaderboardScore) error {
	if len(scores) == 0 {
		return l.client.Del(ctx, l.key).Err()
	}

	scratch := l.key + ":rebuild:" + uuid.NewString()
	members := make([]redis.Z, len(scores))
	for i, s := range scores {
		members[i] = redis.Z{Score: float64(s.TotalTips), Member: s.Artist.String()}
	}

	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, scratch, members...)
		pipe.Rename(ctx, scratch, l.key)
		return nil
	})
	if err != nil {
		l.client.Del(ctx, scratch)
		return fmt.Errorf("leaderboard replace: %w", err)
	}
	return nil
}
