package model

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Role      string   `json:"role"`
	AvatarURL string   `json:"avatar_url"`
	Interests []string `json:"interests,omitempty"`
}

// ShortUser carries the display fields joined into lists.
type ShortUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type UpdateMeRequest struct {
	Name      string   `json:"name"`
	AvatarURL string   `json:"avatar_url"`
	Interests []string `json:"interests"`
}

type UpdateMeResponse struct {
	User User `json:"user"`
}
