// Package id generates the opaque, immutable primary keys used by every entity.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix identifies the entity type an ID belongs to.
type Prefix string

// Entity prefixes. IDs never change after creation; human-readable slugs live in
// their own columns.
const (
	User     Prefix = "user"
	Group    Prefix = "grp"
	Category Prefix = "cat"
	Book     Prefix = "book"
	Opinion  Prefix = "op"
	Image    Prefix = "img"
	Token    Prefix = "tok"
)

// nanoidLength is the default gonanoid length.
const nanoidLength = 21

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "cat-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix Prefix) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return string(prefix) + "-" + nid, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Only used by seeding tools where failure should crash the program.
func MustGenerate(prefix Prefix) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Is reports whether s looks like an ID generated for prefix.
// The HTTP layer uses it to tell an image ID apart from garbage in a path segment.
func Is(s string, prefix Prefix) bool {
	rest, ok := strings.CutPrefix(s, string(prefix)+"-")
	return ok && len(rest) == nanoidLength
}
