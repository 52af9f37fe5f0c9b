package domain

import "time"

// BookGroup is a reading club. The creator is its sole admin and is always a member.
type BookGroup struct {
	Timestamps
	ID        string `json:"id"`
	Slug      string `json:"slug"` // Globally unique, renameable lookup key
	Name      string `json:"name"`
	CreatorID string `json:"creator_id"`
}

// IsGroupAdmin reports whether userID administers the group.
// Admin status is derived from creatorship and never stored.
func IsGroupAdmin(g *BookGroup, userID string) bool {
	return g != nil && userID != "" && g.CreatorID == userID
}

// Membership links a user to a group. One row per (group, user) pair.
type Membership struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// Member is the read model for a group's member list.
type Member struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	IsAdmin  bool      `json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`
}
