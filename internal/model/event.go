package model

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	ImageURL    string `json:"image_url"`

	Organizer ShortUser `json:"organizer"`

	AttendingCount int    `json:"attending_count"`
	MyRSVPStatus   string `json:"my_rsvp_status,omitempty"`
}

type EventRSVP struct {
	User   ShortUser `json:"user"`
	Status string    `json:"status"`
}

type GetEventsRequest struct {
	OrderBy  string `json:"order_by"`
	Category string `json:"category"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type GetEventsResponse struct {
	Events []Event `json:"events"`
}

type GetEventRequest struct {
	ID string `json:"id"`
}

type GetEventResponse struct {
	Event Event       `json:"event"`
	RSVPs []EventRSVP `json:"rsvps"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int    `json:"capacity"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
}

type CreateEventResponse struct {
	ID string `json:"id"`
}

type UpdateEventRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int    `json:"capacity"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
}

type UpdateEventResponse struct{}

type DeleteEventRequest struct {
	ID string `json:"id"`
}

type DeleteEventResponse struct{}

type RSVPEventRequest struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

type RSVPEventResponse struct {
	Status string `json:"status"`
}
