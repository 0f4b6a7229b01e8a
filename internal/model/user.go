package model

import "time"

type User struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	GoogleID   string     `json:"google_id,omitempty"`
	ProfilePic string     `json:"profile_pic,omitempty"`
	Role       string     `json:"role,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// UserUpdate is the patch shape accepted by the profile endpoint.
type UserUpdate struct {
	Name       string `json:"name,omitempty"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// Session is the locally persisted login: one bearer token plus the
// user record it belongs to. It gates UI affordances only, never
// authorization, since the token is not verified client-side.
type Session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}
