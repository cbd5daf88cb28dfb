package models

// User is the author shape embedded in posts and comments.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// UserRef is the user shape used by the notification and chat endpoints,
// which identify users numerically and use snake_case field names.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// Account is the authenticated user's own profile as returned by the auth endpoints.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Theme    string `json:"theme,omitempty"`
}
