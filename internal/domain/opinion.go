package domain

import "time"

// Rate bounds, both inclusive.
const (
	MinRate = 0
	MaxRate = 10
)

// Opinion is a member's rating of a finished book. A user may leave several.
type Opinion struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	BookID      string    `json:"book_id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Rate        int       `json:"rate"`
}

// ValidRate reports whether rate lies in [MinRate, MaxRate].
func ValidRate(rate int) bool {
	return rate >= MinRate && rate <= MaxRate
}

// Severity classifies a rate for display.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RateSeverity maps a valid rate to its display class: below 4 is low,
// 4 through 6 is medium, 7 and above is high.
func RateSeverity(rate int) Severity {
	switch {
	case rate < 4:
		return SeverityLow
	case rate < 7:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// OpinionView is an opinion joined with its author's display name.
type OpinionView struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Rate        int       `json:"rate"`
}
