package tabular

import "testing"

func TestImportJSON(t *testing.T) {
	data := []byte(`{
		"textbooks": [
			{"bookName": "Physics Part 1", "subject": "Physics", "publisher": "Oxford", "price": 150},
			{"bookName": "Mystery Book", "price": 10}
		],
		"notebooks": [
			{"bookName": "Graph Book", "subject": "Math", "price": 35, "pages": 200}
		]
	}`)

	textbooks, notebooks, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(textbooks) != 2 || len(notebooks) != 1 {
		t.Fatalf("expected 2/1 rows, got %d/%d", len(textbooks), len(notebooks))
	}
	if textbooks[0].BookName != "Physics Part 1" || textbooks[0].Price != 150 {
		t.Fatalf("bad first textbook: %+v", textbooks[0])
	}
	if textbooks[1].Subject != "N/A" || textbooks[1].Publisher != "N/A" {
		t.Fatalf("defaults not applied: %+v", textbooks[1])
	}
	if notebooks[0].Pages != 200 {
		t.Fatalf("pages not read for notebook: %+v", notebooks[0])
	}
}

func TestImportJSON_NeitherList(t *testing.T) {
	if _, _, err := ImportJSON([]byte(`{"other": []}`)); err != ErrInvalidFileFormat {
		t.Fatalf("expected ErrInvalidFileFormat, got %v", err)
	}
}

func TestImportJSON_SingleList(t *testing.T) {
	textbooks, notebooks, err := ImportJSON([]byte(`{"notebooks": [{"bookName": "A", "price": 1}]}`))
	if err != nil {
		t.Fatalf("one list is enough: %v", err)
	}
	if len(textbooks) != 0 || len(notebooks) != 1 {
		t.Fatalf("expected 0/1 rows, got %d/%d", len(textbooks), len(notebooks))
	}
}
