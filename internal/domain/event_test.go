package domain

import (
	"testing"
	"time"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/testutil"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestEventDomain() *eventDomain {
	return NewEventDomain(
		repository.NewEventRepository(),
		repository.NewRSVPRepository(),
		repository.NewUserRepository(),
		newTestStatisticDomain(),
	)
}

func Test_eventDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()

	organizer, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleOrganizer})
	require.NoError(t, err)
	student, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	eventDomain := newTestEventDomain()
	start := time.Now().Add(24 * time.Hour)
	req := &model.CreateEventRequest{
		Title:     "Robotics Workshop",
		Category:  "technology",
		StartTime: start.Format(model.DefaultTimeLayout),
		EndTime:   start.Add(time.Hour).Format(model.DefaultTimeLayout),
	}

	// Students cannot create events.
	_, err = eventDomain.Create(xcontext.WithRequestUserID(ctx, student.ID), req)
	require.Equal(t, "Permission denied", err.Error())

	organizerCtx := xcontext.WithRequestUserID(ctx, organizer.ID)
	resp, err := eventDomain.Create(organizerCtx, req)
	require.NoError(t, err)

	getResp, err := eventDomain.Get(organizerCtx, &model.GetEventRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, "Robotics Workshop", getResp.Event.Title)
	require.Equal(t, string(entity.EventPublished), getResp.Event.Status)
	require.Equal(t, organizer.ID, getResp.Event.Organizer.ID)

	// No title, bad times, bad status.
	_, err = eventDomain.Create(organizerCtx, &model.CreateEventRequest{})
	require.Equal(t, "Not allow an empty title", err.Error())

	_, err = eventDomain.Create(organizerCtx, &model.CreateEventRequest{
		Title:     "Broken",
		StartTime: req.EndTime,
		EndTime:   req.StartTime,
	})
	require.Equal(t, "The end_time must be after start_time", err.Error())

	badStatus := *req
	badStatus.Status = string(entity.EventCancelled)
	_, err = eventDomain.Create(organizerCtx, &badStatus)
	require.Equal(t, "Status must be draft or published", err.Error())
}

func Test_eventDomain_Get_DraftVisibility(t *testing.T) {
	ctx := testutil.MockContext()

	organizer, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleOrganizer})
	require.NoError(t, err)
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)
	student, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	draft, err := testutil.SampleEvent(ctx, &entity.Event{
		OrganizerID: organizer.ID,
		Status:      entity.EventDraft,
	})
	require.NoError(t, err)

	eventDomain := newTestEventDomain()

	// Only the organizer and admins can see a draft.
	_, err = eventDomain.Get(
		xcontext.WithRequestUserID(ctx, student.ID), &model.GetEventRequest{ID: draft.ID})
	require.Equal(t, "Not found event", err.Error())

	_, err = eventDomain.Get(ctx, &model.GetEventRequest{ID: draft.ID})
	require.Equal(t, "Not found event", err.Error())

	_, err = eventDomain.Get(
		xcontext.WithRequestUserID(ctx, organizer.ID), &model.GetEventRequest{ID: draft.ID})
	require.NoError(t, err)

	_, err = eventDomain.Get(
		xcontext.WithRequestUserID(ctx, admin.ID), &model.GetEventRequest{ID: draft.ID})
	require.NoError(t, err)
}

func Test_eventDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()

	user, err := testutil.SampleUser(ctx, &entity.User{
		Interests: entity.Array[string]{"arts"},
	})
	require.NoError(t, err)

	soon := time.Now().Add(12 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	techEvent, err := testutil.SampleEvent(ctx, &entity.Event{
		Category:  "technology",
		StartTime: soon,
		EndTime:   soon.Add(time.Hour),
	})
	require.NoError(t, err)

	artsEvent, err := testutil.SampleEvent(ctx, &entity.Event{
		Category:  "arts",
		StartTime: later,
		EndTime:   later.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = testutil.SampleEvent(ctx, &entity.Event{Status: entity.EventDraft})
	require.NoError(t, err)

	eventDomain := newTestEventDomain()

	// Default ordering is chronological and drafts never appear.
	resp, err := eventDomain.GetList(ctx, &model.GetEventsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	require.Equal(t, techEvent.ID, resp.Events[0].ID)
	require.Equal(t, artsEvent.ID, resp.Events[1].ID)

	// Category filter.
	resp, err = eventDomain.GetList(ctx, &model.GetEventsRequest{Category: "arts"})
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	require.Equal(t, artsEvent.ID, resp.Events[0].ID)

	// Interest ordering puts the caller's categories first. Anonymous
	// callers silently fall back to chronological.
	resp, err = eventDomain.GetList(
		xcontext.WithRequestUserID(ctx, user.ID), &model.GetEventsRequest{OrderBy: "interest"})
	require.NoError(t, err)
	require.Equal(t, artsEvent.ID, resp.Events[0].ID)

	resp, err = eventDomain.GetList(ctx, &model.GetEventsRequest{OrderBy: "interest"})
	require.NoError(t, err)
	require.Equal(t, techEvent.ID, resp.Events[0].ID)

	_, err = eventDomain.GetList(ctx, &model.GetEventsRequest{OrderBy: "albatross"})
	require.Equal(t, "Invalid order_by albatross", err.Error())
}

func Test_eventDomain_RSVP(t *testing.T) {
	ctx := testutil.MockContext()

	first, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	second, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	event, err := testutil.SampleEvent(ctx, &entity.Event{Capacity: 1})
	require.NoError(t, err)

	eventDomain := newTestEventDomain()

	// Anonymous callers cannot rsvp.
	_, err = eventDomain.RSVP(ctx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.Equal(t, "You need to sign in", err.Error())

	firstCtx := xcontext.WithRequestUserID(ctx, first.ID)
	_, err = eventDomain.RSVP(firstCtx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  "maybe",
	})
	require.Equal(t, "Invalid status maybe", err.Error())

	resp, err := eventDomain.RSVP(firstCtx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.RSVPAttending), resp.Status)

	// Re-sending the same status while the event is full must not fail,
	// the caller already holds the spot.
	_, err = eventDomain.RSVP(firstCtx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.NoError(t, err)

	// The event is at capacity for everyone else. Interested is still
	// allowed, it does not take a spot.
	secondCtx := xcontext.WithRequestUserID(ctx, second.ID)
	_, err = eventDomain.RSVP(secondCtx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.Equal(t, "Event is full", err.Error())

	_, err = eventDomain.RSVP(secondCtx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  string(entity.RSVPInterested),
	})
	require.NoError(t, err)

	// The first user leaving frees the spot.
	_, err = eventDomain.RSVP(firstCtx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  string(entity.RSVPNotAttending),
	})
	require.NoError(t, err)

	_, err = eventDomain.RSVP(secondCtx, &model.RSVPEventRequest{
		EventID: event.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.NoError(t, err)

	getResp, err := eventDomain.Get(secondCtx, &model.GetEventRequest{ID: event.ID})
	require.NoError(t, err)
	require.Equal(t, 1, getResp.Event.AttendingCount)
	require.Equal(t, string(entity.RSVPAttending), getResp.Event.MyRSVPStatus)
	require.Len(t, getResp.RSVPs, 2)
}

func Test_eventDomain_RSVP_EventNotOpen(t *testing.T) {
	ctx := testutil.MockContext()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	draft, err := testutil.SampleEvent(ctx, &entity.Event{Status: entity.EventDraft})
	require.NoError(t, err)

	eventDomain := newTestEventDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	_, err = eventDomain.RSVP(userCtx, &model.RSVPEventRequest{
		EventID: draft.ID,
		Status:  string(entity.RSVPAttending),
	})
	require.Equal(t, "Event is not open for rsvp", err.Error())

	_, err = eventDomain.RSVP(userCtx, &model.RSVPEventRequest{
		EventID: "not-exist",
		Status:  string(entity.RSVPAttending),
	})
	require.Equal(t, "Not found event", err.Error())
}

func Test_eventDomain_UpdateAndDelete(t *testing.T) {
	ctx := testutil.MockContext()

	organizer, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleOrganizer})
	require.NoError(t, err)
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)
	student, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	event, err := testutil.SampleEvent(ctx, &entity.Event{OrganizerID: organizer.ID})
	require.NoError(t, err)

	eventDomain := newTestEventDomain()

	// Only the organizer or an admin may manage the event.
	_, err = eventDomain.Update(
		xcontext.WithRequestUserID(ctx, student.ID),
		&model.UpdateEventRequest{ID: event.ID, Title: "Hijacked"})
	require.Equal(t, "Permission denied", err.Error())

	organizerCtx := xcontext.WithRequestUserID(ctx, organizer.ID)
	_, err = eventDomain.Update(organizerCtx, &model.UpdateEventRequest{
		ID:       event.ID,
		Title:    "Renamed",
		Capacity: 120,
	})
	require.NoError(t, err)

	getResp, err := eventDomain.Get(organizerCtx, &model.GetEventRequest{ID: event.ID})
	require.NoError(t, err)
	require.Equal(t, "Renamed", getResp.Event.Title)
	require.Equal(t, 120, getResp.Event.Capacity)

	// Deleting cancels the event instead of removing the row.
	_, err = eventDomain.Delete(
		xcontext.WithRequestUserID(ctx, admin.ID), &model.DeleteEventRequest{ID: event.ID})
	require.NoError(t, err)

	getResp, err = eventDomain.Get(organizerCtx, &model.GetEventRequest{ID: event.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.EventCancelled), getResp.Event.Status)
}
