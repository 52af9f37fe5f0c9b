// Package slug holds the identifier policy for human-readable keys.
//
// Entities are keyed by opaque IDs (package id). Slugs are secondary, indexed lookup
// keys used in URLs: group slugs are unique globally, category slugs within their
// group, and book slugs within their category. Book slugs are always derived from the
// title; group and category slugs are chosen by the admin and may be renamed.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds slugs so they stay usable as URL path segments.
const MaxLength = 64

var (
	// A valid slug: lowercase alphanumeric words joined by single hyphens.
	validRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	// Anything that is not an ASCII word character or whitespace.
	nonWordRe = regexp.MustCompile(`[^a-z0-9_\s]`)
	// Matches any non-alphanumeric run.
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)

	// Letters with no canonical decomposition.
	undecomposable = strings.NewReplacer("ł", "l", "Ł", "L", "ø", "o", "Ø", "O", "đ", "d", "Đ", "D")
)

// Normalize checks an admin-supplied slug against the policy and returns its canonical
// form (trimmed and lower-cased). It does not check uniqueness; the store enforces
// that within the entity's scope.
func Normalize(field, candidate string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(candidate))
	if s == "" {
		return "", domainerrors.InvalidKey(field, "is required")
	}
	if len(s) > MaxLength {
		return "", domainerrors.InvalidKey(field, "is too long")
	}
	if !validRe.MatchString(s) {
		return "", domainerrors.InvalidKey(field, "may only contain lowercase letters, digits and single hyphens")
	}
	return s, nil
}

// reservedCategorySlugs collide with fixed path segments under a group's categories.
var reservedCategorySlugs = map[string]bool{"active": true}

// NormalizeCategory is Normalize plus the category-only reserved words.
func NormalizeCategory(field, candidate string) (string, error) {
	s, err := Normalize(field, candidate)
	if err != nil {
		return "", err
	}
	if reservedCategorySlugs[s] {
		return "", domainerrors.InvalidKey(field, "is reserved")
	}
	return s, nil
}

// DeriveBookKey derives a book's slug from its title.
//
// The title is lower-cased, every character that is not an ASCII word character or
// whitespace is dropped, and each run of whitespace becomes a single hyphen.
// Underscores count as separators so the result stays within [a-z0-9-].
//
//	"The Name of the Wind"   → "the-name-of-the-wind"
//	"Solaris!"               → "solaris"
//	"Dune:  Part  Two"       → "dune-part-two"
//	"Zbrodnia i kara"        → "zbrodnia-i-kara"
func DeriveBookKey(title string) (string, error) {
	s := nonWordRe.ReplaceAllString(strings.ToLower(title), "")
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
	key := strings.Join(words, "-")
	if key == "" {
		return "", domainerrors.InvalidKey("title", "must contain at least one letter or digit")
	}
	if len(key) > MaxLength {
		key = strings.TrimRight(key[:MaxLength], "-")
	}
	return key, nil
}

// Suggest proposes a slug for a display name, transliterating accented characters
// where Unicode decomposition allows it. "Baśnie" -> "basnie".
// The result may be empty for names without any ASCII letters or digits.
func Suggest(name string) string {
	s := norm.NFKD.String(undecomposable.Replace(name))
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlphanumericRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}
