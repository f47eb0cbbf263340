package dto

import (
	"errors"
	"strings"

	"main/model"
)

// CreateNoteRequest is the form payload for a new note. A note needs a title
// or content; everything else defaults server-side.
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Color   string   `json:"color"`
	Tags    []string `json:"tags"`
}

func (r *CreateNoteRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Content) == "" {
		return errors.New("a note needs a title or content")
	}
	if r.Color != "" && !model.IsValidColor(r.Color) {
		return errors.New("invalid note color")
	}
	return nil
}

func (r *CreateNoteRequest) Fields() model.NoteFields {
	return model.NoteFields{
		Title:   r.Title,
		Content: r.Content,
		Color:   r.Color,
		Tags:    r.Tags,
	}
}

// UpdateNoteRequest is a partial patch. Absent fields stay untouched.
type UpdateNoteRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Color    *string   `json:"color"`
	Tags     *[]string `json:"tags"`
	IsPinned *bool     `json:"is_pinned"`
}

func (r *UpdateNoteRequest) Validate() error {
	if r.Title != nil && r.Content != nil &&
		strings.TrimSpace(*r.Title) == "" && strings.TrimSpace(*r.Content) == "" {
		return errors.New("a note needs a title or content")
	}
	if r.Color != nil && !model.IsValidColor(*r.Color) {
		return errors.New("invalid note color")
	}
	return nil
}

func (r *UpdateNoteRequest) Patch() model.NotePatch {
	return model.NotePatch{
		Title:    r.Title,
		Content:  r.Content,
		Color:    r.Color,
		Tags:     r.Tags,
		IsPinned: r.IsPinned,
	}
}

// ViewControlsRequest updates any subset of the view controls.
type ViewControlsRequest struct {
	SearchTerm    *string   `json:"search_term"`
	SortBy        *string   `json:"sort_by"`
	SortOrder     *string   `json:"sort_order"`
	SelectedColor *string   `json:"selected_color"`
	SelectedTags  *[]string `json:"selected_tags"`
}

func (r *ViewControlsRequest) Validate() error {
	if r.SortBy != nil && !model.IsValidSortBy(*r.SortBy) {
		return errors.New("invalid sort field")
	}
	if r.SortOrder != nil && !model.IsValidSortOrder(*r.SortOrder) {
		return errors.New("invalid sort order")
	}
	if r.SelectedColor != nil && *r.SelectedColor != "" && !model.IsValidColor(*r.SelectedColor) {
		return errors.New("invalid color filter")
	}
	if (r.SortBy == nil) != (r.SortOrder == nil) {
		return errors.New("sort_by and sort_order must be set together")
	}
	return nil
}
