// Package repo persists per-session message history and the committed turn
// log. Redis backs production sessions; the in-memory implementation backs
// tests and runs without Redis.
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/llamale/server/internal/assistant/model"
	errx "github.com/llamale/server/internal/core/error"
	logx "github.com/llamale/server/pkg/logger"
)

type RedisTurnRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisTurnRepository(rdb redis.Cmdable, ttl time.Duration) *RedisTurnRepository {
	return &RedisTurnRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisTurnRepository) messagesKey(sessionID string) string {
	return fmt.Sprintf("session:%s:messages", sessionID)
}

func (r *RedisTurnRepository) turnsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:turns", sessionID)
}

func (r *RedisTurnRepository) AddMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	b, err := sonic.Marshal(message)
	if err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to marshal message")
		return fmt.Errorf("marshal message: %w", err)
	}
	return r.push(ctx, r.messagesKey(sessionID), b)
}

func (r *RedisTurnRepository) AppendTurn(ctx context.Context, sessionID string, turn *model.Turn) error {
	b, err := sonic.Marshal(turn)
	if err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to marshal turn")
		return fmt.Errorf("marshal turn: %w", err)
	}
	return r.push(ctx, r.turnsKey(sessionID), b)
}

func (r *RedisTurnRepository) push(ctx context.Context, key string, b []byte) error {
	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push to redis")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on session key")
		}
	}
	return nil
}

func (r *RedisTurnRepository) LoadHistory(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	key := r.messagesKey(sessionID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*schema.Message{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session history from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, s := range rows {
		var m schema.Message
		if err := sonic.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("sessionID", sessionID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

func (r *RedisTurnRepository) ClearSession(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, r.messagesKey(sessionID), r.turnsKey(sessionID)).Err(); err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisTurnRepository) MessageCount(ctx context.Context, sessionID string) (int, error) {
	key := r.messagesKey(sessionID)
	n, err := r.rdb.LLen(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to get message count from redis")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

var _ model.TurnRepository = (*RedisTurnRepository)(nil)
