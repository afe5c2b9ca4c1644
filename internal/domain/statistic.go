package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/campusnex/backend/internal/domain/statistic"
	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/errorx"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetMyStats(context.Context, *model.GetMyStatsRequest) (*model.GetMyStatsResponse, error)
	GetMyActivities(context.Context, *model.GetMyActivitiesRequest) (*model.GetMyActivitiesResponse, error)
	InitializeStats(context.Context, *model.InitializeStatsRequest) (*model.InitializeStatsResponse, error)

	// Award methods are called by other domains after their primary action
	// succeeds. They are safe to call under an open transaction.
	AwardEventCreation(ctx context.Context, userID, eventID string) error
	AwardEventAttendance(ctx context.Context, userID, eventID string, startTime time.Time) error
	AwardProfileCompleted(ctx context.Context, userID string) error
}

type statisticDomain struct {
	userRepo      repository.UserRepository
	userStatsRepo repository.UserStatsRepository
	activityRepo  repository.ActivityRepository
	leaderboard   statistic.Leaderboard
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	userStatsRepo repository.UserStatsRepository,
	activityRepo repository.ActivityRepository,
	leaderboard statistic.Leaderboard,
) *statisticDomain {
	return &statisticDomain{
		userRepo:      userRepo,
		userStatsRepo: userStatsRepo,
		activityRepo:  activityRepo,
		leaderboard:   leaderboard,
	}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	if req.Offset == 0 && req.Page > 1 {
		req.Offset = (req.Page - 1) * req.Limit
	}

	board, err := d.leaderboard.GetLeaderboard(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	userIDs := []string{}
	for _, entry := range board {
		userIDs = append(userIDs, entry.User.ID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users of leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]entity.User{}
	for _, u := range users {
		userMap[u.ID] = u
	}

	allStats, err := d.userStatsRepo.GetByUserIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stats of leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	statsMap := map[string]entity.UserStats{}
	for _, stats := range allStats {
		statsMap[stats.UserID] = stats
	}

	for i := range board {
		if u, ok := userMap[board[i].User.ID]; ok {
			board[i].User = model.ConvertShortUser(&u)
		}

		if stats, ok := statsMap[board[i].User.ID]; ok {
			board[i].EventsCreated = stats.EventsCreated
			board[i].EventsAttended = stats.EventsAttended
		}
	}

	return &model.GetLeaderboardResponse{Leaderboard: board}, nil
}

func (d *statisticDomain) GetMyStats(
	ctx context.Context, req *model.GetMyStatsRequest,
) (*model.GetMyStatsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	result := model.UserStatistic{User: model.ConvertShortUser(user)}

	stats, err := d.userStatsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
			return nil, errorx.Unknown
		}

		// No stats row yet means the user has never earned points. Report
		// zero values rather than an error.
		return &model.GetMyStatsResponse{Stats: result}, nil
	}

	rank, err := d.leaderboard.GetRank(ctx, userID)
	if err != nil {
		return nil, err
	}

	result.TotalPoints = stats.TotalPoints
	result.EventsCreated = stats.EventsCreated
	result.EventsAttended = stats.EventsAttended
	result.Rank = int(rank)

	return &model.GetMyStatsResponse{Stats: result}, nil
}

func (d *statisticDomain) GetMyActivities(
	ctx context.Context, req *model.GetMyActivitiesRequest,
) (*model.GetMyActivitiesResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	activities, err := d.activityRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx), 0, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get activities: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.ActivityEntry{}
	for i := range activities {
		entries = append(entries, model.ConvertActivity(&activities[i]))
	}

	return &model.GetMyActivitiesResponse{Activities: entries}, nil
}

func (d *statisticDomain) InitializeStats(
	ctx context.Context, req *model.InitializeStatsRequest,
) (*model.InitializeStatsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	now := time.Now()
	err := d.userStatsRepo.Upsert(ctx, &entity.UserStats{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot initialize stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InitializeStatsResponse{}, nil
}

func (d *statisticDomain) AwardEventCreation(ctx context.Context, userID, eventID string) error {
	rule, err := entity.ActivityCreateEvent.Rule()
	if err != nil {
		return err
	}

	return d.addPoints(ctx, userID, entity.ActivityCreateEvent, rule.BasePoints, eventID, nil)
}

// AwardEventAttendance grants the attendance points, with the early bird
// bonus folded in when the rsvp lands more than 24 hours before the event
// starts. It is a no-op if the user was already awarded for this event.
func (d *statisticDomain) AwardEventAttendance(
	ctx context.Context, userID, eventID string, startTime time.Time,
) error {
	awarded, err := d.activityRepo.ExistsForEvent(ctx, userID, eventID, entity.ActivityAttendEvent)
	if err != nil {
		return err
	}

	if awarded {
		return nil
	}

	rule, err := entity.ActivityAttendEvent.Rule()
	if err != nil {
		return err
	}

	points := rule.BasePoints
	var metadata entity.Map
	if time.Now().Before(startTime.Add(-24 * time.Hour)) {
		earlyRule, err := entity.ActivityEarlyBird.Rule()
		if err != nil {
			return err
		}

		points += earlyRule.BasePoints
		metadata = entity.Map{"early_bird": true}
	}

	return d.addPoints(ctx, userID, entity.ActivityAttendEvent, points, eventID, metadata)
}

func (d *statisticDomain) AwardProfileCompleted(ctx context.Context, userID string) error {
	awarded, err := d.activityRepo.ExistsKind(ctx, userID, entity.ActivityProfileCompleted)
	if err != nil {
		return err
	}

	if awarded {
		return nil
	}

	rule, err := entity.ActivityProfileCompleted.Rule()
	if err != nil {
		return err
	}

	return d.addPoints(ctx, userID, entity.ActivityProfileCompleted, rule.BasePoints, "", nil)
}

// addPoints appends the activity row and bumps the stats aggregate in one
// transaction, then mirrors the delta into the redis leaderboard. It joins
// the transaction already open in ctx if there is one.
func (d *statisticDomain) addPoints(
	ctx context.Context,
	userID string,
	kind entity.ActivityKind,
	points int,
	eventID string,
	metadata entity.Map,
) error {
	rule, err := kind.Rule()
	if err != nil {
		return err
	}

	activity := &entity.Activity{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Kind:     kind,
		Points:   points,
		Metadata: metadata,
	}

	if eventID != "" {
		activity.EventID = sql.NullString{String: eventID, Valid: true}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	inserted, err := d.activityRepo.Create(ctx, activity)
	if err != nil {
		return err
	}

	// Another request recorded this award first. Leave the counters alone.
	if !inserted {
		return nil
	}

	err = d.userStatsRepo.ApplyAward(ctx, userID, points, rule.CounterColumn, time.Now())
	if err != nil {
		return err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return d.leaderboard.ChangePointLeaderboard(ctx, int64(points), userID)
}
