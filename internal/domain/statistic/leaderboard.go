package statistic

import (
	"context"

	"github.com/campusnex/backend/internal/common"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/errorx"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/campusnex/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Leaderboard keeps the points ranking in a redis sorted set. The set is
// hydrated lazily from user_stats the first time it is read, then kept in
// sync incrementally on every award.
type Leaderboard interface {
	GetLeaderboard(ctx context.Context, offset, limit int) ([]model.UserStatistic, error)
	GetRank(ctx context.Context, userID string) (uint64, error)
	ChangePointLeaderboard(ctx context.Context, value int64, userID string) error
}

type leaderboard struct {
	userStatsRepo repository.UserStatsRepository
	redisClient   xredis.Client
	loadGroup     singleflight.Group
}

func New(
	userStatsRepo repository.UserStatsRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{userStatsRepo: userStatsRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderboard(
	ctx context.Context, offset, limit int,
) ([]model.UserStatistic, error) {
	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, common.RedisKeyLeaderboard, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	board := []model.UserStatistic{}
	for i, z := range results {
		board = append(board, model.UserStatistic{
			User:        model.ShortUser{ID: z.Member.(string)},
			TotalPoints: int(z.Score),
			Rank:        offset + i + 1,
		})
	}

	return board, nil
}

func (l *leaderboard) GetRank(ctx context.Context, userID string) (uint64, error) {
	if err := l.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, common.RedisKeyLeaderboard, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangePointLeaderboard(
	ctx context.Context, value int64, userID string,
) error {
	ok, err := l.redisClient.Exist(ctx, common.RedisKeyLeaderboard)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, no need to update. The next read
	// hydrates the set from database with the new value already applied.
	if !ok {
		return nil
	}

	if err := l.redisClient.ZIncrBy(ctx, common.RedisKeyLeaderboard, value, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

// ensureLoaded hydrates the sorted set from user_stats if redis lost it.
// Concurrent cold reads collapse into a single hydration.
func (l *leaderboard) ensureLoaded(ctx context.Context) error {
	_, err, _ := l.loadGroup.Do(common.RedisKeyLeaderboard, func() (interface{}, error) {
		return nil, l.hydrate(ctx)
	})

	return err
}

func (l *leaderboard) hydrate(ctx context.Context) error {
	ok, err := l.redisClient.Exist(ctx, common.RedisKeyLeaderboard)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	if ok {
		return nil
	}

	allStats, err := l.userStatsRepo.GetAllForRanking(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load stats from database: %v", err)
		return errorx.Unknown
	}

	for _, stats := range allStats {
		err := l.redisClient.ZAdd(ctx, common.RedisKeyLeaderboard,
			redis.Z{Member: stats.UserID, Score: float64(stats.TotalPoints)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
