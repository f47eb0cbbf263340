package model

// NoteFields carries the caller-supplied fields for a new note. The backing
// store assigns id, timestamps and pin status.
type NoteFields struct {
	Title   string
	Content string
	Color   string
	Tags    []string
}

// NotePatch is a partial update. Nil fields are left untouched.
type NotePatch struct {
	Title    *string
	Content  *string
	Color    *string
	Tags     *[]string
	IsPinned *bool
}

// IsEmpty reports whether the patch touches nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Color == nil &&
		p.Tags == nil && p.IsPinned == nil
}
