package alignment

import (
	"reflect"
	"strings"
	"testing"
)

func TestSeparateWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Yes! The Way will not change.", []string{"Yes!", "The", "Way", "will", "not", "change."}},
		{`say "hello there" now`, []string{"say", "hello there", "now"}},
		{"well-known fact", []string{"well", "known", "fact"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := SeparateWords(tt.input)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SeparateWords(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Yes! The Way will not change.", []string{"Yes!", "The Way will not change."}},
		{`He said "stop." Then left.`, []string{`He said "stop."`, "Then left."}},
		{"No terminal punctuation", []string{"No terminal punctuation"}},
		{"One. Two? Three!", []string{"One.", "Two?", "Three!"}},
	}

	for _, tt := range tests {
		got := SplitSentences(tt.input)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SplitSentences(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestPreprocessText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Costs $400 & more", "Costs 400 dollars and more"},
		{"Just $1 today", "Just 1 dollar today"},
		{"No changes here.", "No changes here."},
	}

	for _, tt := range tests {
		got := PreprocessText(tt.input)
		if got != tt.expected {
			t.Errorf("PreprocessText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildRowsBoundary(t *testing.T) {
	rows := BuildRows("Yes! The Way will not change.", 15)
	expected := []string{"Yes! The Way", "will not", "change."}
	if !reflect.DeepEqual(rows, expected) {
		t.Fatalf("BuildRows cap=15 = %v, want %v", rows, expected)
	}
}

func TestBuildRowsPreservesWords(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog near the river bank today"
	for _, cap := range []int{10, 15, 42} {
		rows := BuildRows(text, cap)
		joined := strings.Join(rows, " ")
		if !reflect.DeepEqual(SeparateWords(joined), SeparateWords(text)) {
			t.Errorf("cap=%d: joining rows does not reproduce word sequence: %v", cap, rows)
		}
		for i, row := range rows {
			if i < len(rows)-1 && len(row) > cap {
				t.Errorf("cap=%d: row %d exceeds cap: %q", cap, i, row)
			}
		}
	}
}

func TestBuildRowsDefaultCapSingleRow(t *testing.T) {
	rows := BuildRows("short text", DefaultSubtitleCap)
	if len(rows) != 1 || rows[0] != "short text" {
		t.Fatalf("expected single row, got %v", rows)
	}
}
