package repository

import (
	"context"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/pkg/xcontext"
)

type RSVPRepository interface {
	Get(ctx context.Context, userID, eventID string) (*entity.RSVP, error)
	GetListByEventID(ctx context.Context, eventID string) ([]entity.RSVP, error)
	Create(ctx context.Context, rsvp *entity.RSVP) error
	UpdateStatusIfDifferent(
		ctx context.Context, userID, eventID string, status entity.RSVPStatus,
	) (bool, error)
}

type rsvpRepository struct{}

func NewRSVPRepository() *rsvpRepository {
	return &rsvpRepository{}
}

func (r *rsvpRepository) Get(ctx context.Context, userID, eventID string) (*entity.RSVP, error) {
	var record entity.RSVP
	err := xcontext.DB(ctx).
		Take(&record, "user_id=? AND event_id=?", userID, eventID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *rsvpRepository) GetListByEventID(
	ctx context.Context, eventID string,
) ([]entity.RSVP, error) {
	var records []entity.RSVP
	err := xcontext.DB(ctx).Preload("User").
		Find(&records, "event_id=?", eventID).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *entity.RSVP) error {
	return xcontext.DB(ctx).Create(rsvp).Error
}

// UpdateStatusIfDifferent sets the status of an existing rsvp and reports
// whether a row actually changed. A concurrent request moving to the same
// status sees zero affected rows and must not award points twice.
func (r *rsvpRepository) UpdateStatusIfDifferent(
	ctx context.Context, userID, eventID string, status entity.RSVPStatus,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.RSVP{}).
		Where("user_id=? AND event_id=? AND status<>?", userID, eventID, status).
		Update("status", status)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
