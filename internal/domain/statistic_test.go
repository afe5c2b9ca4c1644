package domain

import (
	"testing"
	"time"

	"github.com/campusnex/backend/internal/common"
	"github.com/campusnex/backend/internal/domain/statistic"
	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/testutil"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestStatisticDomain() *statisticDomain {
	userStatsRepo := repository.NewUserStatsRepository()
	return NewStatisticDomain(
		repository.NewUserRepository(),
		userStatsRepo,
		repository.NewActivityRepository(),
		statistic.New(userStatsRepo, testutil.NewInMemoryRedisClient()),
	)
}

func Test_statisticDomain_AwardFlow_FullScenario(t *testing.T) {
	ctx := testutil.MockContext()

	organizer, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleOrganizer})
	require.NoError(t, err)
	student, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	statisticDomain := newTestStatisticDomain()
	eventDomain := NewEventDomain(
		repository.NewEventRepository(),
		repository.NewRSVPRepository(),
		repository.NewUserRepository(),
		statisticDomain,
	)

	// Creating an event awards the creation points and bumps the created
	// counter.
	organizerCtx := xcontext.WithRequestUserID(ctx, organizer.ID)
	start := time.Now().Add(48 * time.Hour)
	createResp, err := eventDomain.Create(organizerCtx, &model.CreateEventRequest{
		Title:     "Intro to Distributed Systems",
		Category:  "technology",
		StartTime: start.Format(model.DefaultTimeLayout),
		EndTime:   start.Add(2 * time.Hour).Format(model.DefaultTimeLayout),
	})
	require.NoError(t, err)

	statsResp, err := statisticDomain.GetMyStats(organizerCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 10, statsResp.Stats.TotalPoints)
	require.Equal(t, 1, statsResp.Stats.EventsCreated)

	// An attending rsvp more than a day before the event earns the early
	// bird bonus on top of the attendance points.
	studentCtx := xcontext.WithRequestUserID(ctx, student.ID)
	_, err = eventDomain.RSVP(studentCtx, &model.RSVPEventRequest{
		EventID: createResp.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.NoError(t, err)

	statsResp, err = statisticDomain.GetMyStats(studentCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 8, statsResp.Stats.TotalPoints)
	require.Equal(t, 1, statsResp.Stats.EventsAttended)

	// Flip away and back again. The attendance award is granted at most
	// once per event, so nothing changes.
	_, err = eventDomain.RSVP(studentCtx, &model.RSVPEventRequest{
		EventID: createResp.ID,
		Status:  string(entity.RSVPNotAttending),
	})
	require.NoError(t, err)

	_, err = eventDomain.RSVP(studentCtx, &model.RSVPEventRequest{
		EventID: createResp.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.NoError(t, err)

	statsResp, err = statisticDomain.GetMyStats(studentCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 8, statsResp.Stats.TotalPoints)
	require.Equal(t, 1, statsResp.Stats.EventsAttended)

	// The stats aggregate always equals the sum of the activity log.
	sum, err := repository.NewActivityRepository().SumPointsByUserID(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, int64(8), sum)

	// The activity log carries exactly one attendance entry, flagged as
	// early bird, and its points match the stats aggregate.
	activitiesResp, err := statisticDomain.GetMyActivities(studentCtx, &model.GetMyActivitiesRequest{})
	require.NoError(t, err)
	require.Len(t, activitiesResp.Activities, 1)
	require.Equal(t, string(entity.ActivityAttendEvent), activitiesResp.Activities[0].Kind)
	require.Equal(t, 8, activitiesResp.Activities[0].Points)
	require.Equal(t, true, activitiesResp.Activities[0].Metadata["early_bird"])
	require.Equal(t, createResp.ID, activitiesResp.Activities[0].EventID)
}

func Test_statisticDomain_AwardEventAttendance_NoEarlyBird(t *testing.T) {
	ctx := testutil.MockContext()

	student, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	// The event starts in two hours, too late for the early bird bonus.
	start := time.Now().Add(2 * time.Hour)
	event, err := testutil.SampleEvent(ctx, &entity.Event{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	statisticDomain := newTestStatisticDomain()
	studentCtx := xcontext.WithRequestUserID(ctx, student.ID)
	require.NoError(t,
		statisticDomain.AwardEventAttendance(studentCtx, student.ID, event.ID, event.StartTime))

	statsResp, err := statisticDomain.GetMyStats(studentCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, statsResp.Stats.TotalPoints)

	activitiesResp, err := statisticDomain.GetMyActivities(studentCtx, &model.GetMyActivitiesRequest{})
	require.NoError(t, err)
	require.Len(t, activitiesResp.Activities, 1)
	require.Nil(t, activitiesResp.Activities[0].Metadata)
}

func Test_statisticDomain_AwardEventAttendance_ConcurrentRequests(t *testing.T) {
	ctx := testutil.MockContext()

	student, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	start := time.Now().Add(2 * time.Hour)
	event, err := testutil.SampleEvent(ctx, &entity.Event{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	statisticDomain := newTestStatisticDomain()
	studentCtx := xcontext.WithRequestUserID(ctx, student.ID)

	// Two requests racing past the prior-award check both reach the insert.
	// The activities dedup key lets only the first one through.
	rule, err := entity.ActivityAttendEvent.Rule()
	require.NoError(t, err)
	require.NoError(t, statisticDomain.addPoints(
		studentCtx, student.ID, entity.ActivityAttendEvent, rule.BasePoints, event.ID, nil))
	require.NoError(t, statisticDomain.addPoints(
		studentCtx, student.ID, entity.ActivityAttendEvent, rule.BasePoints, event.ID, nil))

	statsResp, err := statisticDomain.GetMyStats(studentCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, statsResp.Stats.TotalPoints)
	require.Equal(t, 1, statsResp.Stats.EventsAttended)

	activitiesResp, err := statisticDomain.GetMyActivities(studentCtx, &model.GetMyActivitiesRequest{})
	require.NoError(t, err)
	require.Len(t, activitiesResp.Activities, 1)
}

func Test_statisticDomain_AwardProfileCompleted_OnlyOnce(t *testing.T) {
	ctx := testutil.MockContext()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	statisticDomain := newTestStatisticDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	require.NoError(t, statisticDomain.AwardProfileCompleted(userCtx, user.ID))
	require.NoError(t, statisticDomain.AwardProfileCompleted(userCtx, user.ID))

	statsResp, err := statisticDomain.GetMyStats(userCtx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, statsResp.Stats.TotalPoints)
}

func Test_statisticDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()

	redisClient := testutil.NewInMemoryRedisClient()
	userStatsRepo := repository.NewUserStatsRepository()
	statisticDomain := NewStatisticDomain(
		repository.NewUserRepository(),
		userStatsRepo,
		repository.NewActivityRepository(),
		statistic.New(userStatsRepo, redisClient),
	)

	users := make([]entity.User, 3)
	for i := range users {
		user, err := testutil.SampleUser(ctx, nil)
		require.NoError(t, err)
		users[i] = user

		// Award one creation per rank step, so users[0] ends up with 30
		// points, users[1] with 20 and users[2] with 10.
		for j := 0; j < 3-i; j++ {
			event, err := testutil.SampleEvent(ctx, &entity.Event{OrganizerID: user.ID})
			require.NoError(t, err)
			require.NoError(t, statisticDomain.AwardEventCreation(ctx, user.ID, event.ID))
		}
	}

	resp, err := statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 3)

	for i, expectedPoints := range []int{30, 20, 10} {
		require.Equal(t, users[i].ID, resp.Leaderboard[i].User.ID)
		require.Equal(t, users[i].Name, resp.Leaderboard[i].User.Name)
		require.Equal(t, expectedPoints, resp.Leaderboard[i].TotalPoints)
		require.Equal(t, i+1, resp.Leaderboard[i].Rank)
		require.Equal(t, 3-i, resp.Leaderboard[i].EventsCreated)
	}

	// The rank reported by stats matches the leaderboard position.
	for i, user := range users {
		statsResp, err := statisticDomain.GetMyStats(
			xcontext.WithRequestUserID(ctx, user.ID), &model.GetMyStatsRequest{})
		require.NoError(t, err)
		require.Equal(t, i+1, statsResp.Stats.Rank)
	}

	// Pagination slices the ranking without renumbering it.
	resp, err = statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)
	require.Equal(t, 2, resp.Leaderboard[0].Rank)
	require.Equal(t, 20, resp.Leaderboard[0].TotalPoints)

	// The page parameter maps onto offset.
	resp, err = statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 1)
	require.Equal(t, 3, resp.Leaderboard[0].Rank)
	require.Equal(t, 10, resp.Leaderboard[0].TotalPoints)

	// Awards after the first read are mirrored into the cached ranking.
	for i := 0; i < 3; i++ {
		event, err := testutil.SampleEvent(ctx, &entity.Event{OrganizerID: users[2].ID})
		require.NoError(t, err)
		require.NoError(t, statisticDomain.AwardEventCreation(ctx, users[2].ID, event.ID))
	}

	resp, err = statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Equal(t, users[2].ID, resp.Leaderboard[0].User.ID)
	require.Equal(t, 40, resp.Leaderboard[0].TotalPoints)
	require.Equal(t, 30, resp.Leaderboard[1].TotalPoints)

	score, err := redisClient.ZScore(ctx, common.RedisKeyLeaderboard, users[2].ID)
	require.NoError(t, err)
	require.Equal(t, float64(40), score)

	// Losing the redis key is harmless, the next read rehydrates the full
	// ranking from user_stats.
	require.NoError(t, redisClient.Del(ctx, common.RedisKeyLeaderboard))

	resp, err = statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 3)
	require.Equal(t, users[2].ID, resp.Leaderboard[0].User.ID)
	require.Equal(t, 40, resp.Leaderboard[0].TotalPoints)
}

func Test_statisticDomain_GetLeaderboard_InvalidLimit(t *testing.T) {
	ctx := testutil.MockContext()
	statisticDomain := newTestStatisticDomain()

	_, err := statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: -1})
	require.Equal(t, "Limit must be positive", err.Error())

	_, err = statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 51})
	require.Equal(t, "Exceed the maximum of limit (50)", err.Error())
}

func Test_statisticDomain_GetMyStats_NoActivityYet(t *testing.T) {
	ctx := testutil.MockContext()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	statisticDomain := newTestStatisticDomain()
	statsResp, err := statisticDomain.GetMyStats(
		xcontext.WithRequestUserID(ctx, user.ID), &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, statsResp.Stats.TotalPoints)
	require.Equal(t, 0, statsResp.Stats.EventsCreated)
	require.Equal(t, 0, statsResp.Stats.EventsAttended)
	require.Equal(t, user.ID, statsResp.Stats.User.ID)
}
