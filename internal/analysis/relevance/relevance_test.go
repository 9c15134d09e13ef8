package relevance

import "testing"

func TestFuzzySimilarityRange(t *testing.T) {
	f := NewFuzzy()

	tests := []struct {
		query string
		text  string
	}{
		{"Tesla", "Tesla reports record quarterly deliveries"},
		{"Tesla", "Unrelated story about agriculture subsidies"},
		{"Reliance Industries", "Reliance Industries posts strong refining margins"},
	}

	for _, tt := range tests {
		score, err := f.Similarity(tt.query, tt.text)
		if err != nil {
			t.Fatalf("Similarity(%q, %q): unexpected error %v", tt.query, tt.text, err)
		}
		if score < 0 || score > 100 {
			t.Errorf("Similarity(%q, %q) = %v, outside [0, 100]", tt.query, tt.text, score)
		}
	}
}

func TestFuzzyQueryTokensSubset(t *testing.T) {
	f := NewFuzzy()

	// Token set scoring gives a full match when every query token appears in
	// the candidate text.
	score, err := f.Similarity("Tesla", "Tesla announces new factory in Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 100 {
		t.Errorf("subset query score = %v, want 100", score)
	}
}

func TestFuzzyOrdering(t *testing.T) {
	f := NewFuzzy()

	onTopic, err := f.Similarity("Tesla earnings", "Tesla earnings beat analyst expectations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offTopic, err := f.Similarity("Tesla earnings", "Local bakery wins pastry award")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if onTopic <= offTopic {
		t.Errorf("on-topic %v should outscore off-topic %v", onTopic, offTopic)
	}
}

func TestFuzzyEmptyInputs(t *testing.T) {
	f := NewFuzzy()

	for _, tt := range []struct{ query, text string }{
		{"", "some text"},
		{"query", ""},
		{"", ""},
	} {
		score, err := f.Similarity(tt.query, tt.text)
		if err != nil {
			t.Fatalf("Similarity(%q, %q): unexpected error %v", tt.query, tt.text, err)
		}
		if score != 0 {
			t.Errorf("Similarity(%q, %q) = %v, want 0", tt.query, tt.text, score)
		}
	}
}
