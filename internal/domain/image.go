package domain

import "time"

// Image illustrates categories. Bytes live in blob storage keyed by ID; this record
// holds the metadata. An image without a group belongs to the shared pool.
type Image struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id,omitempty"`
	ContentType string    `json:"content_type"`
	AltText     string    `json:"alt_text,omitempty"`
	BlurHash    string    `json:"blur_hash,omitempty"`
	Size        int64     `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
}

// IsShared reports whether the image belongs to the global pool.
func (i *Image) IsShared() bool {
	return i.GroupID == ""
}

// UsableBy reports whether categories of groupID may reference the image.
func (i *Image) UsableBy(groupID string) bool {
	return i.IsShared() || i.GroupID == groupID
}
