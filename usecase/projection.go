package usecase

import (
	"sort"
	"strings"

	"main/model"
)

// ProjectNotes derives the display order from the raw collection and the
// current view controls. It never mutates its inputs and is re-derivable from
// scratch on every call: filter (search, color, tags), then sort, then
// partition pinned notes to the front.
func ProjectNotes(notes []*model.Note, controls model.ViewControls) []*model.Note {
	filtered := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if !matchesSearch(note, controls.SearchTerm) {
			continue
		}
		if controls.SelectedColor != "" && note.Color != controls.SelectedColor {
			continue
		}
		if !matchesTags(note, controls.SelectedTags) {
			continue
		}
		filtered = append(filtered, note)
	}

	sortNotes(filtered, controls.SortBy, controls.SortOrder)

	// Pin partition happens after sorting. Pin status is never a sort key:
	// pinned notes keep their relative sorted order, so do unpinned ones.
	projected := make([]*model.Note, 0, len(filtered))
	for _, note := range filtered {
		if note.IsPinned {
			projected = append(projected, note)
		}
	}
	for _, note := range filtered {
		if !note.IsPinned {
			projected = append(projected, note)
		}
	}
	return projected
}

// matchesSearch checks the term as a case-insensitive substring of the title,
// the content or any tag. An empty term matches everything; empty fields never
// match.
func matchesSearch(note *model.Note, term string) bool {
	if term == "" {
		return true
	}
	search := strings.ToLower(term)
	if note.Title != "" && strings.Contains(strings.ToLower(note.Title), search) {
		return true
	}
	if note.Content != "" && strings.Contains(strings.ToLower(note.Content), search) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// matchesTags keeps a note when its tags intersect the selected set on at
// least one element (OR semantics). An empty selection matches everything.
func matchesTags(note *model.Note, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range selected {
		if note.HasTag(tag) {
			return true
		}
	}
	return false
}

func sortNotes(notes []*model.Note, sortBy string, sortOrder string) {
	descending := sortOrder == model.SortOrderDesc
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		var less, equal bool
		switch sortBy {
		case model.SortByTitle:
			at := strings.ToLower(a.Title)
			bt := strings.ToLower(b.Title)
			less = at < bt
			equal = at == bt
		case model.SortByCreatedAt:
			less = a.CreatedAt.Before(b.CreatedAt)
			equal = a.CreatedAt.Equal(b.CreatedAt)
		default: // updatedAt
			less = a.UpdatedAt.Before(b.UpdatedAt)
			equal = a.UpdatedAt.Equal(b.UpdatedAt)
		}
		if equal {
			// Ties fall back to id ordering so equal keys always project
			// the same way regardless of input order.
			return a.ID < b.ID
		}
		if descending {
			return !less
		}
		return less
	})
}
