package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"codeclash/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// PresenceRepository stores per-game liveness in redis sorted sets:
// member = client id, score = unix millis of the last heartbeat. Active
// counts are indexed ZCOUNT range queries over the TTL window, and stale
// members are pruned by the reaper, so a game's presence set stays bounded
// by its actual participants.
type PresenceRepository interface {
	Beat(ctx context.Context, gameSlug, clientID string, userID *string, at time.Time) (created bool, err error)
	Remove(ctx context.Context, gameSlug, clientID string) error
	ActiveCount(ctx context.Context, gameSlug string, cutoff time.Time) (int64, error)
	ActiveEntries(ctx context.Context, gameSlug string, cutoff time.Time) ([]model.PresenceEntry, error)
	ReapStale(ctx context.Context, gameSlug string, cutoff time.Time) (int64, error)
	TrackedGames(ctx context.Context) ([]string, error)
}

type redisPresenceRepository struct {
	rdb *redis.Client
}

func NewRedisPresenceRepository(rdb *redis.Client) PresenceRepository {
	return &redisPresenceRepository{rdb: rdb}
}

const (
	presenceKeyPrefix = "presence:beats:"
	identityKeyPrefix = "presence:users:"
	trackedGamesKey   = "presence:games"

	// Keys expire well past the TTL window so an idle game cleans itself
	// up even if the reaper never runs.
	keyExpiry = 10 * time.Minute
)

func beatsKey(slug string) string    { return presenceKeyPrefix + slug }
func identityKey(slug string) string { return identityKeyPrefix + slug }

func (r *redisPresenceRepository) Beat(ctx context.Context, gameSlug, clientID string, userID *string, at time.Time) (bool, error) {
	key := beatsKey(gameSlug)

	added, err := r.rdb.ZAdd(ctx, key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: clientID,
	}).Result()
	if err != nil {
		return false, fmt.Errorf("redisPresenceRepository.Beat zadd: %w", err)
	}

	pipe := r.rdb.Pipeline()
	pipe.SAdd(ctx, trackedGamesKey, gameSlug)
	pipe.Expire(ctx, key, keyExpiry)
	if userID != nil {
		pipe.HSet(ctx, identityKey(gameSlug), clientID, *userID)
		pipe.Expire(ctx, identityKey(gameSlug), keyExpiry)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redisPresenceRepository.Beat pipeline: %w", err)
	}

	return added == 1, nil
}

func (r *redisPresenceRepository) Remove(ctx context.Context, gameSlug, clientID string) error {
	pipe := r.rdb.Pipeline()
	pipe.ZRem(ctx, beatsKey(gameSlug), clientID)
	pipe.HDel(ctx, identityKey(gameSlug), clientID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisPresenceRepository.Remove: %w", err)
	}
	return nil
}

func (r *redisPresenceRepository) ActiveCount(ctx context.Context, gameSlug string, cutoff time.Time) (int64, error) {
	count, err := r.rdb.ZCount(ctx, beatsKey(gameSlug), formatMillis(cutoff), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("redisPresenceRepository.ActiveCount: %w", err)
	}
	return count, nil
}

func (r *redisPresenceRepository) ActiveEntries(ctx context.Context, gameSlug string, cutoff time.Time) ([]model.PresenceEntry, error) {
	members, err := r.rdb.ZRangeByScoreWithScores(ctx, beatsKey(gameSlug), &redis.ZRangeBy{
		Min: formatMillis(cutoff),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redisPresenceRepository.ActiveEntries zrange: %w", err)
	}

	identities, err := r.rdb.HGetAll(ctx, identityKey(gameSlug)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisPresenceRepository.ActiveEntries hgetall: %w", err)
	}

	entries := make([]model.PresenceEntry, 0, len(members))
	for _, m := range members {
		clientID, _ := m.Member.(string)
		entry := model.PresenceEntry{
			ClientID: clientID,
			LastBeat: time.UnixMilli(int64(m.Score)),
		}
		if userID, ok := identities[clientID]; ok {
			entry.UserID = &userID
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *redisPresenceRepository) ReapStale(ctx context.Context, gameSlug string, cutoff time.Time) (int64, error) {
	removed, err := r.rdb.ZRemRangeByScore(ctx, beatsKey(gameSlug), "-inf", "("+formatMillis(cutoff)).Result()
	if err != nil {
		return 0, fmt.Errorf("redisPresenceRepository.ReapStale: %w", err)
	}
	return removed, nil
}

func (r *redisPresenceRepository) TrackedGames(ctx context.Context) ([]string, error) {
	slugs, err := r.rdb.SMembers(ctx, trackedGamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redisPresenceRepository.TrackedGames: %w", err)
	}
	return slugs, nil
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
