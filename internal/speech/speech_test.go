package speech

import (
	"context"
	"strings"
	"testing"
)

func TestDecodeTranslation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			"single segment",
			`[[["namaste","hello",null,null,10]],null,"en"]`,
			"namaste",
			false,
		},
		{
			"multiple segments concatenated",
			`[[["pehla vakya. ","first sentence. "],["doosra vakya.","second sentence."]],null,"en"]`,
			"pehla vakya. doosra vakya.",
			false,
		},
		{
			"not json",
			`<html>blocked</html>`,
			"",
			true,
		},
		{
			"empty array",
			`[]`,
			"",
			true,
		},
		{
			"wrong shape",
			`["just a string"]`,
			"",
			true,
		},
		{
			"segments without text",
			`[[[]]]`,
			"",
			true,
		},
	}

	for _, tt := range tests {
		got, err := decodeTranslation([]byte(tt.body))
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %q", tt.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTranslateEmptyTextShortCircuits(t *testing.T) {
	tr := NewGoogleTranslator()
	got, err := tr.Translate(context.Background(), "   ", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "   " {
		t.Errorf("got %q, want input returned unchanged", got)
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			"under limit",
			"short text",
			200,
			[]string{"short text"},
		},
		{
			"splits on word boundary",
			"one two three four",
			9,
			[]string{"one two", "three", "four"},
		},
		{
			"oversized single word stands alone",
			"tiny extraordinarily-long-word end",
			10,
			[]string{"tiny", "extraordinarily-long-word", "end"},
		},
	}

	for _, tt := range tests {
		got := splitChunks(tt.text, tt.limit)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %d chunks %v, want %v", tt.name, len(got), got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: chunk %d = %q, want %q", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSplitChunksRespectsLimit(t *testing.T) {
	text := strings.Repeat("word ", 200)
	for _, chunk := range splitChunks(strings.TrimSpace(text), 50) {
		if len(chunk) > 50 {
			t.Errorf("chunk %q exceeds limit", chunk)
		}
		if chunk == "" {
			t.Error("empty chunk produced")
		}
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	g := NewGoogleTTS()
	if err := g.Synthesize(context.Background(), "  ", "hi", t.TempDir()+"/out.mp3"); err == nil {
		t.Fatal("expected error for empty text")
	}
}
