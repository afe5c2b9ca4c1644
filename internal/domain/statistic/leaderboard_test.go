package statistic

import (
	"context"
	"testing"

	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_leaderboard_ChangePointLeaderboard_ColdCache(t *testing.T) {
	ctx := testutil.MockContext()

	// While the key is absent there is nothing to keep in sync. The next
	// read hydrates from database with the new points already applied.
	incremented := false
	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return false, nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			incremented = true
			return nil
		},
	}

	l := New(repository.NewUserStatsRepository(), redisClient)
	require.NoError(t, l.ChangePointLeaderboard(ctx, 10, "some-user"))
	require.False(t, incremented)
}

func Test_leaderboard_GetRank_UnrankedUser(t *testing.T) {
	ctx := testutil.MockContext()

	l := New(repository.NewUserStatsRepository(), testutil.NewInMemoryRedisClient())
	rank, err := l.GetRank(ctx, "never-scored")
	require.NoError(t, err)
	require.Equal(t, uint64(0), rank)
}
