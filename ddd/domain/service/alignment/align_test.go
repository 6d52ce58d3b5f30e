package alignment

import (
	"errors"
	"reflect"
	"testing"

	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
)

func recognizedWords() []vo.Word {
	words := []vo.Word{
		{Text: "yes", StartMs: 0, EndMs: 570},
		{Text: "the", StartMs: 1590, EndMs: 1707},
		{Text: "way", StartMs: 2000, EndMs: 2300},
		{Text: "will", StartMs: 2500, EndMs: 2750},
		{Text: "not", StartMs: 2900, EndMs: 3100},
		{Text: "change", StartMs: 3300, EndMs: 3700},
	}
	return vo.AppendSentinel(words)
}

func TestMatchWordsRows(t *testing.T) {
	targets := []string{"Yes! The Way", "will not", "change."}
	words := recognizedWords()

	segments, err := MatchWords(targets, words)
	if err != nil {
		t.Fatalf("MatchWords: %v", err)
	}
	if len(segments) != len(targets) {
		t.Fatalf("expected %d segments, got %d", len(targets), len(segments))
	}

	if segments[0].Text != "Yes! The Way" || segments[0].StartMs != 0 {
		t.Errorf("segment 0 = %+v, want text %q start 0", segments[0], targets[0])
	}

	for i, seg := range segments {
		if seg.Text != targets[i] {
			t.Errorf("segment %d text = %q, want %q", i, seg.Text, targets[i])
		}
		if seg.EndMs < seg.StartMs {
			t.Errorf("segment %d end %d before start %d", i, seg.EndMs, seg.StartMs)
		}
		if i > 0 && seg.StartMs != segments[i-1].EndMs {
			t.Errorf("segment %d start %d != segment %d end %d", i, seg.StartMs, i-1, segments[i-1].EndMs)
		}
	}
}

func TestMatchWordsDeterministic(t *testing.T) {
	targets := []string{"Yes! The Way", "will not", "change."}

	first, err := MatchWords(targets, recognizedWords())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := MatchWords(targets, recognizedWords())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("alignment is not deterministic: %v != %v", first, second)
	}
}

func TestMatchWordsTargetMismatch(t *testing.T) {
	// Words run out before the second target can be matched.
	targets := []string{"hello world", "completely different text"}
	words := vo.AppendSentinel([]vo.Word{
		{Text: "hello", StartMs: 0, EndMs: 300},
		{Text: "world", StartMs: 300, EndMs: 600},
	})

	_, err := MatchWords(targets, words)
	if err == nil {
		t.Fatal("expected mismatch error, got nil")
	}
	if !errors.Is(err, errno.ErrAlignmentMismatch) {
		t.Fatalf("expected ErrAlignmentMismatch, got %v", err)
	}
}

func TestMatchSpanTimes(t *testing.T) {
	plainText := "In the beginning was the Word. Seek first Matthew 6:33 and all else follows."
	spans := []vo.MarkedSpan{{Kind: "citation", Text: "Matthew 6:33"}}

	words := vo.AppendSentinel([]vo.Word{
		{Text: "in", StartMs: 0, EndMs: 200},
		{Text: "the", StartMs: 200, EndMs: 350},
		{Text: "beginning", StartMs: 350, EndMs: 800},
		{Text: "was", StartMs: 800, EndMs: 950},
		{Text: "the", StartMs: 950, EndMs: 1100},
		{Text: "word", StartMs: 1100, EndMs: 1500},
		{Text: "seek", StartMs: 1700, EndMs: 2000},
		{Text: "first", StartMs: 2000, EndMs: 2400},
		{Text: "matthew", StartMs: 2600, EndMs: 3000},
		{Text: "six", StartMs: 3000, EndMs: 3300},
		{Text: "thirty", StartMs: 3300, EndMs: 3600},
		{Text: "three", StartMs: 3600, EndMs: 3900},
		{Text: "and", StartMs: 4100, EndMs: 4250},
		{Text: "all", StartMs: 4250, EndMs: 4400},
		{Text: "else", StartMs: 4400, EndMs: 4700},
		{Text: "follows", StartMs: 4700, EndMs: 5200},
	})

	timed, err := MatchSpanTimes(spans, plainText, words)
	if err != nil {
		t.Fatalf("MatchSpanTimes: %v", err)
	}
	if len(timed) != 1 {
		t.Fatalf("expected 1 timed span, got %d", len(timed))
	}

	span := timed[0]
	if span.Kind != "citation" || span.Text != "Matthew 6:33" {
		t.Errorf("span lost identity: %+v", span)
	}
	if span.EndMs <= span.StartMs {
		t.Errorf("span times not increasing: %+v", span)
	}
	// Gap before the span covers "In the beginning ... Seek first"; the span
	// timing must begin at the gap boundary and end before trailing words.
	if span.StartMs < 2000 || span.StartMs > 2600 {
		t.Errorf("span start %d outside expected boundary window", span.StartMs)
	}
	if span.EndMs > 4100 {
		t.Errorf("span end %d overlaps trailing words", span.EndMs)
	}
}

func TestMatchSpanTimesSpanMissing(t *testing.T) {
	spans := []vo.MarkedSpan{{Kind: "image", Text: "not in script"}}
	_, err := MatchSpanTimes(spans, "some plain script", vo.AppendSentinel(nil))
	if !errors.Is(err, errno.ErrAlignmentMismatch) {
		t.Fatalf("expected ErrAlignmentMismatch, got %v", err)
	}
}

func TestBuildWordTimings(t *testing.T) {
	segments := []vo.Segment{
		{Text: "Yes! The Way", StartMs: 0, EndMs: 2000},
		{Text: "will not", StartMs: 2000, EndMs: 2900},
	}

	words := BuildWordTimings(segments)
	if len(words) != 5 {
		t.Fatalf("expected 5 word timings, got %d", len(words))
	}

	expected := []vo.Segment{
		{Text: "Yes!", StartMs: 1, EndMs: 668},
		{Text: "The", StartMs: 668, EndMs: 1334},
		{Text: "Way", StartMs: 1334, EndMs: 2001},
		{Text: "will", StartMs: 2001, EndMs: 2451},
		{Text: "not", StartMs: 2451, EndMs: 2900},
	}
	if !reflect.DeepEqual(words, expected) {
		t.Fatalf("BuildWordTimings = %v, want %v", words, expected)
	}

	for i := 1; i < len(words); i++ {
		if words[i].StartMs < words[i-1].StartMs {
			t.Errorf("word %d starts before word %d", i, i-1)
		}
	}
}

func TestBuildContexts(t *testing.T) {
	segments := []vo.Segment{
		{Text: "first row"},
		{Text: "second row"},
		{Text: "third row"},
	}

	contexts := BuildContexts(segments)
	expected := []vo.TextContext{
		{Current: "first row", After: "second row"},
		{Before: "first row", Current: "second row", After: "third row"},
		{Before: "second row", Current: "third row"},
	}
	if !reflect.DeepEqual(contexts, expected) {
		t.Fatalf("BuildContexts = %v, want %v", contexts, expected)
	}
}
