package alignment

import "strings"

// DefaultSubtitleCap 默认每行字幕的字符预算
const DefaultSubtitleCap = 42

// BuildRows 把文本贪心地按cap打包成行. 超出预算的单词另起一行,
// 收尾时剩余文本总是作为最后一行输出。
func BuildRows(text string, cap int) []string {
	words := SeparateWords(text)
	if len(words) == 0 {
		return nil
	}

	rows := make([]string, 0, len(text)/cap+1)
	line := ""
	for _, word := range words {
		if len(line)+len(word)+1 <= cap {
			line = line + " " + word
		} else {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				rows = append(rows, trimmed)
			}
			line = word
		}
	}
	rows = append(rows, strings.TrimSpace(line))
	return rows
}
