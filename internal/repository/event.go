package repository

import (
	"context"
	"errors"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventOrder string

const (
	OrderChronological EventOrder = "chronological"
	OrderNewest        EventOrder = "newest"
	OrderRandom        EventOrder = "random"
	OrderPopular       EventOrder = "popular"
	OrderInterest      EventOrder = "interest"
)

type GetListEventFilter struct {
	Category    string
	OrganizerID string
	Statuses    []entity.EventStatus
	Order       EventOrder

	// Interests orders matching categories first when Order is interest.
	Interests []string

	Offset int
	Limit  int
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetList(ctx context.Context, filter GetListEventFilter) ([]entity.Event, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	CountAttending(ctx context.Context, eventIDs []string) (map[string]int, error)
}

type eventRepository struct{}

func NewEventRepository() *eventRepository {
	return &eventRepository{}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	var record entity.Event
	err := xcontext.DB(ctx).Preload("Organizer").Take(&record, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *eventRepository) GetList(
	ctx context.Context, filter GetListEventFilter,
) ([]entity.Event, error) {
	tx := xcontext.DB(ctx).Model(&entity.Event{}).Preload("Organizer")

	if filter.Category != "" {
		tx = tx.Where("category=?", filter.Category)
	}

	if filter.OrganizerID != "" {
		tx = tx.Where("organizer_id=?", filter.OrganizerID)
	}

	if len(filter.Statuses) != 0 {
		tx = tx.Where("status IN (?)", filter.Statuses)
	}

	switch filter.Order {
	case OrderNewest:
		tx = tx.Order("created_at DESC")
	case OrderRandom:
		if tx.Dialector.Name() == "sqlite" {
			tx = tx.Order("RANDOM()")
		} else {
			tx = tx.Order("RAND()")
		}
	case OrderPopular:
		tx = tx.Order("(SELECT COUNT(*) FROM rsvps WHERE rsvps.event_id = events.id" +
			" AND rsvps.status = 'attending' AND rsvps.deleted_at IS NULL) DESC")
	case OrderInterest:
		if len(filter.Interests) > 0 {
			// A single OrderBy expression, the start_time tiebreaker folded
			// in. Order() only accepts strings and OrderByColumn values.
			tx = tx.Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "CASE WHEN category IN ? THEN 0 ELSE 1 END, start_time",
				Vars: []any{filter.Interests},
			}})
		} else {
			tx = tx.Order("start_time ASC")
		}
	default:
		tx = tx.Order("start_time ASC")
	}

	var records []entity.Event
	if err := tx.Offset(filter.Offset).Limit(filter.Limit).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Event{}).
		Where("id=?", id).
		Updates(updates)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *eventRepository) CountAttending(
	ctx context.Context, eventIDs []string,
) (map[string]int, error) {
	if len(eventIDs) == 0 {
		return map[string]int{}, nil
	}

	var rows []struct {
		EventID string
		Count   int
	}

	err := xcontext.DB(ctx).Model(&entity.RSVP{}).
		Select("event_id, COUNT(*) as count").
		Where("event_id IN (?) AND status=?", eventIDs, entity.RSVPAttending).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[string]int{}
	for _, row := range rows {
		result[row.EventID] = row.Count
	}

	return result, nil
}
