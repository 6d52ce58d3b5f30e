package vo

import "math"

// SentinelWordText is appended after the recognizer's output. Its text never
// scores against a real target, so it forces the final open segment to flush.
const SentinelWordText = "dummydummydummydummydummydummydummy"

// Word 识别器输出的单词, 时间单位毫秒
type Word struct {
	Text       string  `json:"text"`
	StartMs    int64   `json:"start_ms"`
	EndMs      int64   `json:"end_ms"`
	Confidence float64 `json:"confidence"`
}

// WordFromSeconds builds a Word from recognizer output in seconds.
func WordFromSeconds(text string, startSec, endSec, confidence float64) Word {
	return Word{
		Text:       text,
		StartMs:    int64(math.Round(startSec * 1000)),
		EndMs:      int64(math.Round(endSec * 1000)),
		Confidence: confidence,
	}
}

// AppendSentinel returns words with the zero-length sentinel word appended.
// The sentinel reuses the last real word's end time so ordering stays
// non-decreasing.
func AppendSentinel(words []Word) []Word {
	var at int64
	if len(words) > 0 {
		at = words[len(words)-1].EndMs
	}
	out := make([]Word, len(words), len(words)+1)
	copy(out, words)
	return append(out, Word{Text: SentinelWordText, StartMs: at, EndMs: at})
}
