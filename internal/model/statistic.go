package model

type UserStatistic struct {
	User ShortUser `json:"user"`

	TotalPoints    int `json:"total_points"`
	EventsCreated  int `json:"events_created"`
	EventsAttended int `json:"events_attended"`

	// Rank is the 1-based position when ordering all users by descending
	// total points.
	Rank int `json:"rank"`
}

type GetLeaderboardRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	// Page is a 1-based alternative to offset, ignored when offset is given.
	Page int `json:"page"`
}

type GetLeaderboardResponse struct {
	Leaderboard []UserStatistic `json:"leaderboard"`
}

type GetMyStatsRequest struct{}

type GetMyStatsResponse struct {
	Stats UserStatistic `json:"stats"`
}

type ActivityEntry struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Points    int            `json:"points"`
	EventID   string         `json:"event_id,omitempty"`
	EventName string         `json:"event_name,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type GetMyActivitiesRequest struct {
	Limit int `json:"limit"`
}

type GetMyActivitiesResponse struct {
	Activities []ActivityEntry `json:"activities"`
}

type InitializeStatsRequest struct{}

type InitializeStatsResponse struct{}
