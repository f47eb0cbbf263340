package model

import (
	"strings"
	"time"
)

// Note colors form a closed set. Anything else is coerced to the default.
const (
	ColorYellow = "yellow"
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorPink   = "pink"
	ColorPurple = "purple"
	ColorGray   = "gray"

	DefaultColor = ColorYellow
)

var noteColors = map[string]bool{
	ColorYellow: true,
	ColorBlue:   true,
	ColorGreen:  true,
	ColorPink:   true,
	ColorPurple: true,
	ColorGray:   true,
}

type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Color     string    `bson:"color" json:"color"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	IsPinned  bool      `bson:"is_pinned" json:"is_pinned"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidColor reports whether color belongs to the closed color set.
func IsValidColor(color string) bool {
	return noteColors[color]
}

// NormalizeColor returns the color unchanged when valid, the default otherwise.
// Empty color on a stored record also falls back to the default.
func NormalizeColor(color string) string {
	if IsValidColor(color) {
		return color
	}
	return DefaultColor
}

// NormalizeTags trims whitespace, drops empties and removes duplicates while
// keeping insertion order. Duplicate tags are rejected at the add boundary,
// not at storage.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		normalized = append(normalized, trimmed)
	}
	return normalized
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
