package alignment

import (
	"reflect"
	"strings"
	"testing"

	"videogen-service/ddd/domain/vo"
)

func TestFormatSRT(t *testing.T) {
	segments := []vo.Segment{
		{Text: "Yes! The Way", StartMs: 0, EndMs: 2000},
		{Text: "will not change.", StartMs: 2000, EndMs: 3661},
	}

	got := FormatSRT(segments)
	expected := "1\n00:00:00,000 --> 00:00:02,000\nYes! The Way\n\n" +
		"2\n00:00:02,000 --> 00:00:03,661\nwill not change.\n\n"
	if got != expected {
		t.Fatalf("FormatSRT = %q, want %q", got, expected)
	}
}

func TestSRTRoundTrip(t *testing.T) {
	segments := []vo.Segment{
		{Text: "Yes! The Way", StartMs: 0, EndMs: 2000},
		{Text: "will not", StartMs: 2000, EndMs: 2900},
		{Text: "change.", StartMs: 2900, EndMs: 3661},
	}

	parsed := ParseSRT(FormatSRT(segments))
	if !reflect.DeepEqual(parsed, segments) {
		t.Fatalf("round trip = %v, want %v", parsed, segments)
	}
}

func TestFormatSRTTimestampPadding(t *testing.T) {
	tests := []struct {
		ms       int64
		expected string
	}{
		{0, "00:00:00,000"},
		{7, "00:00:00,007"},
		{61007, "00:01:01,007"},
		{3661007, "01:01:01,007"},
	}

	for _, tt := range tests {
		if got := formatSRTTimestamp(tt.ms); got != tt.expected {
			t.Errorf("formatSRTTimestamp(%d) = %q, want %q", tt.ms, got, tt.expected)
		}
	}
}

func TestFormatCSV(t *testing.T) {
	records := []*CSVRecord{
		NewCSVRecord().Set("text", "Yes! The Way").SetBool("final", false),
		NewCSVRecord().Set("text", `he said "so"`).SetBool("final", true),
	}

	got := FormatCSV(records)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != `"text","final"` {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"Yes! The Way","0"` {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != `"he said ""so""","1"` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestRowsToCSV(t *testing.T) {
	got := RowsToCSV([]string{"first row", "second row"})
	expected := "\"text\"\n\"first row\"\n\"second row\"\n"
	if got != expected {
		t.Fatalf("RowsToCSV = %q, want %q", got, expected)
	}
}
