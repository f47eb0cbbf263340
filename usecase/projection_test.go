package usecase

import (
	"testing"
	"time"

	"main/model"
)

var (
	t1 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	t3 = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
)

func makeNote(id, title, content string, opts ...func(*model.Note)) *model.Note {
	n := &model.Note{
		ID:        id,
		UserID:    "user-1",
		Title:     title,
		Content:   content,
		Color:     model.DefaultColor,
		CreatedAt: t1,
		UpdatedAt: t1,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func withUpdatedAt(t time.Time) func(*model.Note) {
	return func(n *model.Note) { n.UpdatedAt = t }
}

func withCreatedAt(t time.Time) func(*model.Note) {
	return func(n *model.Note) { n.CreatedAt = t }
}

func withPinned() func(*model.Note) {
	return func(n *model.Note) { n.IsPinned = true }
}

func withColor(color string) func(*model.Note) {
	return func(n *model.Note) { n.Color = color }
}

func withTags(tags ...string) func(*model.Note) {
	return func(n *model.Note) { n.Tags = tags }
}

func ids(notes []*model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func assertOrder(t *testing.T, got []*model.Note, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d notes, got %d (%v)", len(want), len(got), ids(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s (full order %v)", i, id, got[i].ID, ids(got))
		}
	}
}

func TestProjectNotesDefaultControls(t *testing.T) {
	notes := []*model.Note{
		makeNote("a", "Alpha", "", withUpdatedAt(t1)),
		makeNote("b", "Beta", "", withUpdatedAt(t3)),
		makeNote("c", "Gamma", "", withUpdatedAt(t2)),
	}

	got := ProjectNotes(notes, model.DefaultViewControls())
	assertOrder(t, got, "b", "c", "a")
}

func TestProjectNotesPinnedBeatsSortOrder(t *testing.T) {
	// Beta already sorts first on updatedAt desc; pinning must not change
	// its position, and Alpha must not jump ahead of it.
	notes := []*model.Note{
		makeNote("alpha", "Alpha", "", withUpdatedAt(t1)),
		makeNote("beta", "Beta", "", withUpdatedAt(t2), withPinned()),
	}

	got := ProjectNotes(notes, model.DefaultViewControls())
	assertOrder(t, got, "beta", "alpha")

	if !got[0].IsPinned || got[1].IsPinned {
		t.Error("pinned note must lead the projection")
	}
}

func TestProjectNotesPinnedSortedAmongThemselves(t *testing.T) {
	notes := []*model.Note{
		makeNote("zeta", "Zeta", "", withUpdatedAt(t1), withPinned()),
		makeNote("alpha", "Alpha", "", withUpdatedAt(t2), withPinned()),
	}

	got := ProjectNotes(notes, model.DefaultViewControls())
	assertOrder(t, got, "alpha", "zeta")
}

func TestProjectNotesPartitionInvariant(t *testing.T) {
	notes := []*model.Note{
		makeNote("a", "A", "", withUpdatedAt(t3)),
		makeNote("b", "B", "", withUpdatedAt(t2), withPinned()),
		makeNote("c", "C", "", withUpdatedAt(t1)),
		makeNote("d", "D", "", withUpdatedAt(t1), withPinned()),
	}

	got := ProjectNotes(notes, model.DefaultViewControls())

	seenUnpinned := false
	for _, n := range got {
		if !n.IsPinned {
			seenUnpinned = true
		} else if seenUnpinned {
			t.Fatalf("unpinned note precedes pinned note in %v", ids(got))
		}
	}
}

func TestProjectNotesSearchMatchesTitleContentOrTag(t *testing.T) {
	notes := []*model.Note{
		makeNote("title-hit", "My Project Plan", ""),
		makeNote("content-hit", "", "notes about the proJECT"),
		makeNote("tag-hit", "", "", withTags("project")),
		makeNote("miss", "Groceries", "milk, eggs"),
	}

	controls := model.DefaultViewControls()
	controls.SearchTerm = "proj"

	got := ProjectNotes(notes, controls)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %v", ids(got))
	}
	for _, n := range got {
		if n.ID == "miss" {
			t.Error("non-matching note leaked through the search filter")
		}
	}
}

func TestProjectNotesSearchTagOnlyNote(t *testing.T) {
	// Empty title and content never match, but a tag hit is enough.
	notes := []*model.Note{
		makeNote("n1", "", "", withTags("project")),
	}

	controls := model.DefaultViewControls()
	controls.SearchTerm = "proj"

	got := ProjectNotes(notes, controls)
	assertOrder(t, got, "n1")
}

func TestProjectNotesColorFilterExactMatch(t *testing.T) {
	notes := []*model.Note{
		makeNote("y", "Yellow", "", withColor(model.ColorYellow)),
		makeNote("b", "Blue", "", withColor(model.ColorBlue)),
	}

	controls := model.DefaultViewControls()
	controls.SelectedColor = model.ColorBlue

	got := ProjectNotes(notes, controls)
	assertOrder(t, got, "b")
}

func TestProjectNotesTagFilterOrSemantics(t *testing.T) {
	notes := []*model.Note{
		makeNote("work", "", "x", withTags("work")),
		makeNote("home", "", "x", withTags("home")),
		makeNote("both", "", "x", withTags("work", "home")),
		makeNote("none", "", "x", withTags("misc")),
	}

	controls := model.DefaultViewControls()
	controls.SelectedTags = []string{"work", "home"}

	got := ProjectNotes(notes, controls)
	if len(got) != 3 {
		t.Fatalf("expected OR semantics to keep 3 notes, got %v", ids(got))
	}
	for _, n := range got {
		if n.ID == "none" {
			t.Error("note without any selected tag leaked through")
		}
	}
}

func TestProjectNotesTitleAscendingCaseInsensitive(t *testing.T) {
	notes := []*model.Note{
		makeNote("c", "cherry", ""),
		makeNote("a", "Apple", ""),
		makeNote("b", "BANANA", ""),
	}

	controls := model.DefaultViewControls()
	controls.SortBy = model.SortByTitle
	controls.SortOrder = model.SortOrderAsc

	got := ProjectNotes(notes, controls)
	assertOrder(t, got, "a", "b", "c")
}

func TestProjectNotesCreatedAtSort(t *testing.T) {
	notes := []*model.Note{
		makeNote("old", "Old", "", withCreatedAt(t1)),
		makeNote("new", "New", "", withCreatedAt(t2)),
	}

	controls := model.DefaultViewControls()
	controls.SortBy = model.SortByCreatedAt
	controls.SortOrder = model.SortOrderAsc

	got := ProjectNotes(notes, controls)
	assertOrder(t, got, "old", "new")
}

func TestProjectNotesTieBreakById(t *testing.T) {
	// Equal sort keys fall back to id ordering in both directions, so the
	// projection does not depend on input order.
	notes := []*model.Note{
		makeNote("b", "Same", "", withUpdatedAt(t1)),
		makeNote("a", "Same", "", withUpdatedAt(t1)),
	}

	for _, order := range []string{model.SortOrderAsc, model.SortOrderDesc} {
		controls := model.DefaultViewControls()
		controls.SortOrder = order
		got := ProjectNotes(notes, controls)
		assertOrder(t, got, "a", "b")
	}
}

func TestProjectNotesIdempotent(t *testing.T) {
	notes := []*model.Note{
		makeNote("a", "Alpha", "", withUpdatedAt(t2), withPinned()),
		makeNote("b", "Beta", "", withUpdatedAt(t1)),
		makeNote("c", "Gamma", "", withUpdatedAt(t3)),
	}

	controls := model.DefaultViewControls()
	controls.SearchTerm = "a"

	first := ProjectNotes(notes, controls)
	second := ProjectNotes(notes, controls)

	if len(first) != len(second) {
		t.Fatal("projection is not deterministic")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("projection changed between calls: %v vs %v", ids(first), ids(second))
		}
	}
}

func TestProjectNotesDoesNotMutateInput(t *testing.T) {
	notes := []*model.Note{
		makeNote("a", "A", "", withUpdatedAt(t1)),
		makeNote("b", "B", "", withUpdatedAt(t2)),
	}

	ProjectNotes(notes, model.DefaultViewControls())

	if notes[0].ID != "a" || notes[1].ID != "b" {
		t.Error("input slice was reordered by the projection")
	}
}
