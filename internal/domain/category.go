package domain

import (
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
)

// CategoryState is the activation state of a category.
//
//	Dormant --activate--> Active --deactivate--> Picked --activate--> Active
//
// A category never returns to Dormant once it has been picked.
type CategoryState string

const (
	// CategoryDormant has never been selected.
	CategoryDormant CategoryState = "dormant"
	// CategoryActive is the group's current reading category.
	CategoryActive CategoryState = "active"
	// CategoryPicked was active at least once and is not active now.
	CategoryPicked CategoryState = "picked"
)

// BookCategory is a reading theme inside a group, illustrated by an image.
// At most one category per group is active at a time.
type BookCategory struct {
	Timestamps
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Slug      string `json:"slug"` // Unique within the group, renameable
	Name      string `json:"name"`
	ImageID   string `json:"image_id"`
	IsActive  bool   `json:"is_active"`
	WasPicked bool   `json:"was_picked"`
}

// State derives the activation state from the two stored flags.
func (c *BookCategory) State() CategoryState {
	switch {
	case c.IsActive:
		return CategoryActive
	case c.WasPicked:
		return CategoryPicked
	default:
		return CategoryDormant
	}
}

// Activate marks the category as the group's current one.
// Uniqueness across the group is the caller's concern; see graph.Activate.
func (c *BookCategory) Activate() error {
	if c.IsActive {
		return domainerrors.Conflictf("category %q is already active", c.Slug)
	}
	c.IsActive = true
	c.WasPicked = true
	c.Touch()
	return nil
}

// Deactivate ends the category's active period. WasPicked stays set.
func (c *BookCategory) Deactivate() error {
	if !c.IsActive {
		return domainerrors.Conflictf("category %q is not active", c.Slug)
	}
	c.IsActive = false
	c.Touch()
	return nil
}
