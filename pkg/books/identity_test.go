package books

import "testing"

func TestIdentity_Deterministic(t *testing.T) {
	a := Identity("Physics Part 1", "Oxford", Textbook, 0)
	b := Identity("Physics Part 1", "Oxford", Textbook, 0)
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}

func TestIdentity_StripsDisallowedChars(t *testing.T) {
	got := Identity("Physics Part 1", "Oxford & Sons", Textbook, 0)
	want := "PhysicsPart1-OxfordSons-Textbook"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestIdentity_NotebookPages(t *testing.T) {
	with := Identity("Graph Book", "Classmate", Notebook, 200)
	without := Identity("Graph Book", "Classmate", Notebook, 0)
	if with == without {
		t.Fatalf("expected pages to change notebook identity")
	}
	if with != "GraphBook-Classmate-Notebook-200" {
		t.Fatalf("unexpected key %q", with)
	}
}

func TestIdentity_TextbookIgnoresPages(t *testing.T) {
	a := Identity("Mathematics", "NCERT", Textbook, 300)
	b := Identity("Mathematics", "NCERT", Textbook, 0)
	if a != b {
		t.Fatalf("expected pages to be ignored for textbooks, got %q vs %q", a, b)
	}
}

func TestIdentity_SubjectNeverParticipates(t *testing.T) {
	a := Book{BookName: "Mathematics", Subject: "Math", Publisher: "NCERT", Type: Textbook}
	b := Book{BookName: "Mathematics", Subject: "Algebra", Publisher: "NCERT", Type: Textbook}
	if a.Identity() != b.Identity() {
		t.Fatalf("subject must not affect identity: %q vs %q", a.Identity(), b.Identity())
	}
}

func TestIdentity_EmptyInputs(t *testing.T) {
	got := Identity("", "", "", 0)
	// Separators survive the strip, a fully empty key needs empty type too.
	if got != "--" {
		t.Fatalf("expected %q, got %q", "--", got)
	}
}
