package repo

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/llamale/server/internal/assistant/model"
	logx "github.com/llamale/server/pkg/logger"
)

// New selects a repository backend: Redis when a client is provided,
// otherwise the in-memory fallback.
func New(rdb redis.Cmdable, ttl time.Duration) model.TurnRepository {
	if rdb != nil {
		logx.Info().Dur("ttl", ttl).Msg("using redis turn repository")
		return NewRedisTurnRepository(rdb, ttl)
	}
	logx.Info().Msg("using in-memory turn repository")
	return NewMemoryTurnRepository()
}
