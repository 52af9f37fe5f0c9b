package domain

import "strings"

// User represents an account that can create or join book groups.
// Users are never deleted; only the password credential may change after signup.
type User struct {
	Timestamps
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

// DisplayName returns the name shown next to the user's opinions.
// Falls back to the local part of the email address when no name was given.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
