package domain

import (
	"testing"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/testutil"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_userDomain_UpdateMe(t *testing.T) {
	ctx := testutil.MockContext()

	user, err := testutil.SampleUser(ctx, &entity.User{AvatarURL: "none"})
	require.NoError(t, err)

	statisticDomain := newTestStatisticDomain()
	userDomain := NewUserDomain(repository.NewUserRepository(), statisticDomain)

	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	resp, err := userDomain.UpdateMe(userCtx, &model.UpdateMeRequest{
		Name:      "Dana",
		Interests: []string{"arts", "sports"},
	})
	require.NoError(t, err)
	require.Equal(t, "Dana", resp.User.Name)
	require.Equal(t, []string{"arts", "sports"}, resp.User.Interests)

	// The completed profile earns points, but only on the first completion.
	statsResp, err := statisticDomain.GetMyStats(userCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, statsResp.Stats.TotalPoints)

	_, err = userDomain.UpdateMe(userCtx, &model.UpdateMeRequest{Name: "Dana D."})
	require.NoError(t, err)

	statsResp, err = statisticDomain.GetMyStats(userCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, statsResp.Stats.TotalPoints)

	meResp, err := userDomain.GetMe(userCtx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, "Dana D.", meResp.User.Name)
	require.Equal(t, user.Email, meResp.User.Email)
}
