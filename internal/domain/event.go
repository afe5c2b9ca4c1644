package domain

import (
	"context"
	"errors"
	"time"

	"github.com/campusnex/backend/internal/common"
	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/enum"
	"github.com/campusnex/backend/pkg/errorx"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type EventDomain interface {
	GetList(context.Context, *model.GetEventsRequest) (*model.GetEventsResponse, error)
	Get(context.Context, *model.GetEventRequest) (*model.GetEventResponse, error)
	Create(context.Context, *model.CreateEventRequest) (*model.CreateEventResponse, error)
	Update(context.Context, *model.UpdateEventRequest) (*model.UpdateEventResponse, error)
	Delete(context.Context, *model.DeleteEventRequest) (*model.DeleteEventResponse, error)
	RSVP(context.Context, *model.RSVPEventRequest) (*model.RSVPEventResponse, error)
}

type eventDomain struct {
	eventRepo       repository.EventRepository
	rsvpRepo        repository.RSVPRepository
	userRepo        repository.UserRepository
	statisticDomain StatisticDomain
	roleVerifier    *common.GlobalRoleVerifier
}

func NewEventDomain(
	eventRepo repository.EventRepository,
	rsvpRepo repository.RSVPRepository,
	userRepo repository.UserRepository,
	statisticDomain StatisticDomain,
) *eventDomain {
	return &eventDomain{
		eventRepo:       eventRepo,
		rsvpRepo:        rsvpRepo,
		userRepo:        userRepo,
		statisticDomain: statisticDomain,
		roleVerifier:    common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *eventDomain) GetList(
	ctx context.Context, req *model.GetEventsRequest,
) (*model.GetEventsResponse, error) {
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

	order, err := toEventOrder(req.OrderBy)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid order by: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid order_by %s", req.OrderBy)
	}

	filter := repository.GetListEventFilter{
		Category: req.Category,
		Statuses: []entity.EventStatus{entity.EventPublished},
		Order:    order,
		Offset:   req.Offset,
		Limit:    req.Limit,
	}

	// Interest ordering needs the caller's interests. Anonymous callers
	// fall back to the chronological default.
	if order == repository.OrderInterest {
		requestUserID := xcontext.RequestUserID(ctx)
		if requestUserID == "" {
			filter.Order = repository.OrderChronological
		} else {
			user, err := d.userRepo.GetByID(ctx, requestUserID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
				return nil, errorx.Unknown
			}

			filter.Interests = user.Interests
		}
	}

	events, err := d.eventRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get events: %v", err)
		return nil, errorx.Unknown
	}

	eventIDs := []string{}
	for _, event := range events {
		eventIDs = append(eventIDs, event.ID)
	}

	attendingCount, err := d.eventRepo.CountAttending(ctx, eventIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count attending rsvps: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Event{}
	for i := range events {
		converted := model.ConvertEvent(&events[i])
		converted.AttendingCount = attendingCount[events[i].ID]
		result = append(result, converted)
	}

	return &model.GetEventsResponse{Events: result}, nil
}

func (d *eventDomain) Get(
	ctx context.Context, req *model.GetEventRequest,
) (*model.GetEventResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id")
	}

	event, err := d.eventRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	requestUserID := xcontext.RequestUserID(ctx)

	// Draft events are only visible to their organizer and admins.
	if event.Status == entity.EventDraft && requestUserID != event.OrganizerID {
		if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}
	}

	rsvps, err := d.rsvpRepo.GetListByEventID(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rsvps of event: %v", err)
		return nil, errorx.Unknown
	}

	attending := 0
	eventRSVPs := []model.EventRSVP{}
	for i := range rsvps {
		if rsvps[i].Status == entity.RSVPAttending {
			attending++
		}

		eventRSVPs = append(eventRSVPs, model.EventRSVP{
			User:   model.ConvertShortUser(&rsvps[i].User),
			Status: string(rsvps[i].Status),
		})
	}

	converted := model.ConvertEvent(event)
	converted.AttendingCount = attending
	for i := range rsvps {
		if requestUserID != "" && rsvps[i].UserID == requestUserID {
			converted.MyRSVPStatus = string(rsvps[i].Status)
		}
	}

	return &model.GetEventResponse{Event: converted, RSVPs: eventRSVPs}, nil
}

func (d *eventDomain) Create(
	ctx context.Context, req *model.CreateEventRequest,
) (*model.CreateEventResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.EventManagerRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	startTime, endTime, err := parseEventTimes(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	status := entity.EventPublished
	if req.Status != "" {
		status, err = enum.ToEnum[entity.EventStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		if status != entity.EventDraft && status != entity.EventPublished {
			return nil, errorx.New(errorx.BadRequest, "Status must be draft or published")
		}
	}

	userID := xcontext.RequestUserID(ctx)
	event := &entity.Event{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		StartTime:   startTime,
		EndTime:     endTime,
		Capacity:    req.Capacity,
		Status:      status,
		ImageURL:    req.ImageURL,
		OrganizerID: userID,
	}

	if err := d.eventRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create event: %v", err)
		return nil, errorx.Unknown
	}

	// Points are best effort. The event is already created, so a failed
	// award must not fail the request.
	if err := d.statisticDomain.AwardEventCreation(ctx, userID, event.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot award event creation points: %v", err)
	}

	return &model.CreateEventResponse{ID: event.ID}, nil
}

func (d *eventDomain) Update(
	ctx context.Context, req *model.UpdateEventRequest,
) (*model.UpdateEventResponse, error) {
	event, err := d.getManagedEvent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != "" {
		updates["title"] = req.Title
	}

	if req.Description != "" {
		updates["description"] = req.Description
	}

	if req.Location != "" {
		updates["location"] = req.Location
	}

	if req.Category != "" {
		updates["category"] = req.Category
	}

	if req.Capacity != 0 {
		updates["capacity"] = req.Capacity
	}

	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}

	if req.StartTime != "" || req.EndTime != "" {
		startString, endString := req.StartTime, req.EndTime
		if startString == "" {
			startString = event.StartTime.Format(model.DefaultTimeLayout)
		}

		if endString == "" {
			endString = event.EndTime.Format(model.DefaultTimeLayout)
		}

		startTime, endTime, err := parseEventTimes(startString, endString)
		if err != nil {
			return nil, err
		}

		updates["start_time"] = startTime
		updates["end_time"] = endTime
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.EventStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		updates["status"] = status
	}

	if len(updates) == 0 {
		return &model.UpdateEventResponse{}, nil
	}

	if err := d.eventRepo.Update(ctx, event.ID, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update event: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateEventResponse{}, nil
}

func (d *eventDomain) Delete(
	ctx context.Context, req *model.DeleteEventRequest,
) (*model.DeleteEventResponse, error) {
	event, err := d.getManagedEvent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	err = d.eventRepo.Update(ctx, event.ID, map[string]any{"status": entity.EventCancelled})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel event: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteEventResponse{}, nil
}

func (d *eventDomain) RSVP(
	ctx context.Context, req *model.RSVPEventRequest,
) (*model.RSVPEventResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to sign in")
	}

	status, err := enum.ToEnum[entity.RSVPStatus](req.Status)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid rsvp status: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	event, err := d.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	if event.Status != entity.EventPublished {
		return nil, errorx.New(errorx.Unavailable, "Event is not open for rsvp")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	existing, err := d.rsvpRepo.Get(ctx, userID, req.EventID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get rsvp: %v", err)
		return nil, errorx.Unknown
	}

	if status == entity.RSVPAttending && event.Capacity > 0 {
		alreadyAttending := existing != nil && existing.Status == entity.RSVPAttending
		if !alreadyAttending {
			count, err := d.eventRepo.CountAttending(ctx, []string{event.ID})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot count attending rsvps: %v", err)
				return nil, errorx.Unknown
			}

			if count[event.ID] >= event.Capacity {
				return nil, errorx.New(errorx.Unavailable, "Event is full")
			}
		}
	}

	if existing == nil {
		err = d.rsvpRepo.Create(ctx, &entity.RSVP{
			UserID:  userID,
			EventID: req.EventID,
			Status:  status,
		})
		if err != nil {
			// A concurrent request may have inserted the row first. The
			// conditional update below settles the final status.
			xcontext.Logger(ctx).Debugf("Cannot create rsvp, fall back to update: %v", err)
			if _, err := d.rsvpRepo.UpdateStatusIfDifferent(ctx, userID, req.EventID, status); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update rsvp: %v", err)
				return nil, errorx.Unknown
			}
		}
	} else {
		_, err := d.rsvpRepo.UpdateStatusIfDifferent(ctx, userID, req.EventID, status)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update rsvp: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	// Attendance points are granted at most once per (user, event). The
	// award itself checks the activity log, so repeated or flip-flopping
	// rsvps cannot double award.
	if status == entity.RSVPAttending {
		err := d.statisticDomain.AwardEventAttendance(ctx, userID, event.ID, event.StartTime)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot award attendance points: %v", err)
		}
	}

	return &model.RSVPEventResponse{Status: string(status)}, nil
}

// getManagedEvent loads the event and checks that the requester may manage
// it, either as its organizer or as a global admin.
func (d *eventDomain) getManagedEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	if eventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id")
	}

	event, err := d.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	if xcontext.RequestUserID(ctx) != event.OrganizerID {
		if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	return event, nil
}

func toEventOrder(s string) (repository.EventOrder, error) {
	if s == "" {
		return repository.OrderChronological, nil
	}

	order := repository.EventOrder(s)
	valid := []repository.EventOrder{
		repository.OrderChronological,
		repository.OrderNewest,
		repository.OrderRandom,
		repository.OrderPopular,
		repository.OrderInterest,
	}

	if !slices.Contains(valid, order) {
		return "", errors.New("unknown event order " + s)
	}

	return order, nil
}

func parseEventTimes(start, end string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(model.DefaultTimeLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, errorx.New(errorx.BadRequest, "Invalid start_time")
	}

	endTime, err := time.Parse(model.DefaultTimeLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, errorx.New(errorx.BadRequest, "Invalid end_time")
	}

	if !endTime.After(startTime) {
		return time.Time{}, time.Time{}, errorx.New(errorx.BadRequest, "The end_time must be after start_time")
	}

	return startTime, endTime, nil
}
