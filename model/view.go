package model

// Sort keys for the note list view.
const (
	SortByUpdatedAt = "updatedAt"
	SortByCreatedAt = "createdAt"
	SortByTitle     = "title"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ViewControls is the ephemeral per-session view state driving the derived
// note list. It is never persisted across sessions.
type ViewControls struct {
	SearchTerm    string   `json:"search_term"`
	SortBy        string   `json:"sort_by"`
	SortOrder     string   `json:"sort_order"`
	SelectedColor string   `json:"selected_color"`
	SelectedTags  []string `json:"selected_tags"`
}

// DefaultViewControls returns the session-start view state.
func DefaultViewControls() ViewControls {
	return ViewControls{
		SortBy:    SortByUpdatedAt,
		SortOrder: SortOrderDesc,
	}
}

// IsValidSortBy reports whether the key is an accepted sort field.
func IsValidSortBy(sortBy string) bool {
	switch sortBy {
	case SortByUpdatedAt, SortByCreatedAt, SortByTitle:
		return true
	}
	return false
}

// IsValidSortOrder reports whether the value is an accepted sort direction.
func IsValidSortOrder(sortOrder string) bool {
	return sortOrder == SortOrderAsc || sortOrder == SortOrderDesc
}
