package repository

import (
	"context"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) (inserted bool, err error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Activity, error)
	SumPointsByUserID(ctx context.Context, userID string) (int64, error)
	ExistsForEvent(ctx context.Context, userID, eventID string, kind entity.ActivityKind) (bool, error)
	ExistsKind(ctx context.Context, userID string, kind entity.ActivityKind) (bool, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

// Create inserts the activity. It reports false without an error when a row
// with the same (user_id, kind, event_id) dedup key already exists, so two
// requests racing past a prior-award check cannot both record the award.
func (r *activityRepository) Create(
	ctx context.Context, activity *entity.Activity,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(activity)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *activityRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Activity, error) {
	var records []entity.Activity
	err := xcontext.DB(ctx).Preload("Event").
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *activityRepository) SumPointsByUserID(ctx context.Context, userID string) (int64, error) {
	var result struct{ Total int64 }
	err := xcontext.DB(ctx).Model(&entity.Activity{}).
		Select("COALESCE(SUM(points), 0) as total").
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result.Total, nil
}

func (r *activityRepository) ExistsKind(
	ctx context.Context, userID string, kind entity.ActivityKind,
) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Activity{}).
		Where("user_id=? AND kind=?", userID, kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *activityRepository) ExistsForEvent(
	ctx context.Context, userID, eventID string, kind entity.ActivityKind,
) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Activity{}).
		Where("user_id=? AND event_id=? AND kind=?", userID, eventID, kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
