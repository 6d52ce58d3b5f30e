package alignment

import (
	"regexp"
	"strings"
)

// wordPattern keeps quoted multi-word spans as single tokens; whitespace and
// hyphens separate everything else.
var wordPattern = regexp.MustCompile(`"(?:\\"|[^"])+"|[^\s\-()|]+`)

// sentencePattern splits text into sentences keeping terminal punctuation and
// trailing closing quotes/brackets; the trailing alternative catches an
// unterminated tail.
var sentencePattern = regexp.MustCompile("[^.?!]+[.!?]+[\\])'\"`’”]*|.+")

var dollarPattern = regexp.MustCompile(`^\$(\d+(?:[.,]\d+)*)$`)

// SeparateWords 把文本切成单词, 带引号的多词片段算一个token, 引号剥掉
func SeparateWords(text string) []string {
	if text == "" {
		return nil
	}
	match := wordPattern.FindAllString(text, -1)
	if match == nil {
		return nil
	}
	out := make([]string, 0, len(match))
	for _, w := range match {
		w = strings.TrimPrefix(w, `"`)
		w = strings.TrimSuffix(w, `"`)
		out = append(out, w)
	}
	return out
}

// SplitSentences 按句切分, 保留句尾标点, 去掉首尾空白
func SplitSentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// PreprocessText rewrites tokens the recognizer will never emit verbatim:
// "&" becomes "and", "$400" becomes "400 dollars" ("$1" becomes "1 dollar").
// The result is re-joined with single spaces so offsets stay comparable with
// SeparateWords output.
func PreprocessText(text string) string {
	in := SeparateWords(text)
	out := make([]string, 0, len(in))
	for _, word := range in {
		if word == "&" {
			word = "and"
		}
		if m := dollarPattern.FindStringSubmatch(word); m != nil {
			num := m[1]
			out = append(out, num)
			if num == "1" {
				word = "dollar"
			} else {
				word = "dollars"
			}
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}
