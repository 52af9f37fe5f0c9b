package domain

import "time"

// Book is the title chosen for a category. A category holds at most one book.
type Book struct {
	Timestamps
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Slug       string    `json:"slug"` // Derived from Title
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	DateStart  time.Time `json:"date_start"`
	DateEnd    time.Time `json:"date_end"`
}
