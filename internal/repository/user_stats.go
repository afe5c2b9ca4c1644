package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func toNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

type UserStatsRepository interface {
	ApplyAward(ctx context.Context, userID string, points int, counterColumn string, at time.Time) error
	GetByUserID(ctx context.Context, userID string) (*entity.UserStats, error)
	GetByUserIDs(ctx context.Context, userIDs []string) ([]entity.UserStats, error)
	GetAllForRanking(ctx context.Context) ([]entity.UserStats, error)
	Upsert(ctx context.Context, stats *entity.UserStats) error
}

type userStatsRepository struct{}

func NewUserStatsRepository() *userStatsRepository {
	return &userStatsRepository{}
}

// ApplyAward inserts the stats row if the user has none yet, otherwise
// increments it in place. Doing both in a single upsert keeps concurrent
// awards for the same user from losing updates.
func (r *userStatsRepository) ApplyAward(
	ctx context.Context, userID string, points int, counterColumn string, at time.Time,
) error {
	assignments := map[string]any{
		"total_points":  gorm.Expr("total_points + ?", points),
		"last_activity": at,
		"updated_at":    at,
	}

	record := entity.UserStats{
		CreatedAt:    at,
		UpdatedAt:    at,
		UserID:       userID,
		TotalPoints:  points,
		LastActivity: toNullTime(at),
	}

	switch counterColumn {
	case "events_created":
		record.EventsCreated = 1
		assignments[counterColumn] = gorm.Expr("events_created + 1")
	case "events_attended":
		record.EventsAttended = 1
		assignments[counterColumn] = gorm.Expr("events_attended + 1")
	}

	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&record).Error
}

func (r *userStatsRepository) GetByUserID(
	ctx context.Context, userID string,
) (*entity.UserStats, error) {
	var record entity.UserStats
	err := xcontext.DB(ctx).Take(&record, "user_id=?", userID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userStatsRepository) GetByUserIDs(
	ctx context.Context, userIDs []string,
) ([]entity.UserStats, error) {
	var records []entity.UserStats
	err := xcontext.DB(ctx).Find(&records, "user_id IN (?)", userIDs).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userStatsRepository) GetAllForRanking(ctx context.Context) ([]entity.UserStats, error) {
	var records []entity.UserStats
	err := xcontext.DB(ctx).
		Order("total_points DESC, user_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userStatsRepository) Upsert(ctx context.Context, stats *entity.UserStats) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(stats).Error
}
