package models

import "time"

// Community is a joinable interest group.
//
// MembersCount and IsJoined always move together: a successful join both sets
// the flag and bumps the count, so IsJoined implies the count includes the
// current user.
type Community struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Avatar       string    `json:"avatar,omitempty"`
	MembersCount int       `json:"membersCount"`
	Tags         []string  `json:"tags,omitempty"`
	IsJoined     bool      `json:"isJoined"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// JoinResult is the payload returned by the join/leave endpoints.
type JoinResult struct {
	ID           string `json:"id"`
	MembersCount int    `json:"membersCount"`
	IsJoined     bool   `json:"isJoined"`
}
