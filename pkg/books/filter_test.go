package books

import "testing"

func filterList() []Book {
	return []Book{
		{ID: 1, BookName: "Physics Part 1", Subject: "Physics", Publisher: "Oxford"},
		{ID: 2, BookName: "Chemistry Part 1", Subject: "Chemistry", Publisher: "NCERT"},
	}
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	got := Filter(filterList(), Filters{BookName: "phys"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only Physics Part 1, got %+v", got)
	}

	got = Filter(filterList(), Filters{BookName: "PHYS"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("uppercase pattern must match too, got %+v", got)
	}
}

func TestFilter_EmptyPassesEverything(t *testing.T) {
	got := Filter(filterList(), Filters{})
	if len(got) != 2 {
		t.Fatalf("empty filters must pass all records, got %d", len(got))
	}
}

func TestFilter_AllFieldsMustMatch(t *testing.T) {
	got := Filter(filterList(), Filters{BookName: "part 1", Publisher: "ncert"})
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only the NCERT record, got %+v", got)
	}

	got = Filter(filterList(), Filters{BookName: "phys", Publisher: "ncert"})
	if len(got) != 0 {
		t.Fatalf("conflicting filters must match nothing, got %+v", got)
	}
}
