package alignment

import (
	"fmt"
	"math"
	"strings"

	"videogen-service/ddd/domain/vo"
	"videogen-service/pkg/errno"
)

// MatchWords 把识别出的单词流对齐到有序目标串(行/句/标记子串), 确定每个目标的
// 起止时间。在线单遍贪心算法:
//   - 逐词扩展累积串, 与当前目标打分(一次只盯一个目标);
//   - 分数不降则继续扩展并记住最好的匹配;
//   - 分数首次下降即冲刷: 产出一段, 段尾取上一个词的开始时间, 切到下一个目标;
//   - 目标用尽立即终止;
//   - 词流末尾的哨兵词保证最后一个目标一定被冲刷。
//
// 平局(分数相等)偏向继续当前段而不是冲刷。算法不保证全局最优。
func MatchWords(targets []string, words []vo.Word) ([]vo.Segment, error) {
	aligned := make([]vo.Segment, 0, len(targets))

	accumulated := make([]string, 0, 16)
	oldScore := 0
	matched := ""
	var active *candidate
	targetIdx := 0
	var rowStartMs int64

scan:
	for idx, word := range words {
		accumulated = append(accumulated, word.Text)

		for {
			if active == nil {
				if targetIdx >= len(targets) {
					break scan
				}
				active = newCandidate(targets[targetIdx])
				targetIdx++
			}

			query := strings.Join(accumulated, " ")
			currentScore := 0
			text := ""
			if score, ok := active.Match(query); ok {
				// 分数取一位小数(×10取整), 降低灵敏度减少误切
				currentScore = int(math.Round(score * 10))
				text = active.text
			}

			if currentScore >= oldScore {
				matched = text
				oldScore = currentScore
				break
			}
			if matched == "" {
				break
			}

			prev := words[idx-1]
			aligned = append(aligned, vo.Segment{
				Text:    matched,
				StartMs: rowStartMs,
				EndMs:   prev.StartMs,
			})
			rowStartMs = prev.StartMs
			matched = ""
			oldScore = 0
			accumulated = accumulated[:0]
			accumulated = append(accumulated, word.Text)
			active = nil
			// 冲刷后当前词立即对下一个目标打分, 保证单词目标也能被哨兵冲刷
		}
	}

	if len(aligned) != len(targets) {
		return nil, fmt.Errorf("aligned %d segments for %d targets: %w", len(aligned), len(targets), errno.ErrAlignmentMismatch)
	}
	return aligned, nil
}

// MatchSpanTimes 为嵌在脚本里的标记子串(图片/引文/免责声明)求时间.
// 按文档顺序构造"子串前的间隔文本"和子串本身交错的目标序列, 跑同一个对齐,
// 子串继承各自位置的时间, 间隔丢弃。
func MatchSpanTimes(spans []vo.MarkedSpan, plainText string, words []vo.Word) ([]vo.MarkedSpan, error) {
	if len(spans) == 0 {
		return nil, nil
	}

	searchStart := 0
	interleaved := make([]string, 0, len(spans)*2)
	for _, span := range spans {
		pos := strings.Index(plainText[searchStart:], span.Text)
		if pos < 0 {
			return nil, fmt.Errorf("span %q not found in script: %w", span.Text, errno.ErrAlignmentMismatch)
		}
		pos += searchStart
		if gap := strings.TrimSpace(plainText[searchStart:pos]); gap != "" {
			interleaved = append(interleaved, gap)
		}
		interleaved = append(interleaved, span.Text)
		searchStart = pos + len(span.Text)
		if searchStart < len(plainText) {
			searchStart++
		}
	}

	segments, err := MatchWords(interleaved, words)
	if err != nil {
		return nil, err
	}

	out := make([]vo.MarkedSpan, 0, len(spans))
	for _, seg := range segments {
		for _, span := range spans {
			if span.Text == seg.Text {
				timed := span
				timed.StartMs = seg.StartMs
				timed.EndMs = seg.EndMs
				out = append(out, timed)
			}
		}
	}
	return out, nil
}

// BuildWordTimings 在每个已计时的段内把时长均分到单词上, 游标跨段累计,
// 段首+1ms, 最后一个词的结束时间-1ms, 保证词边界不互相贴死。
func BuildWordTimings(segments []vo.Segment) []vo.Segment {
	out := make([]vo.Segment, 0, len(segments)*8)
	for _, seg := range segments {
		words := SeparateWords(seg.Text)
		if len(words) == 0 {
			continue
		}
		perWord := float64(seg.EndMs-seg.StartMs) / float64(len(words))
		cursor := float64(seg.StartMs) + 1
		for _, w := range words {
			start := int64(math.Round(cursor))
			cursor += perWord
			out = append(out, vo.Segment{
				Text:    w,
				StartMs: start,
				EndMs:   int64(math.Round(cursor)),
			})
		}
	}
	if len(out) > 0 {
		out[len(out)-1].EndMs--
	}
	return out
}

// BuildContexts 为每行附上前后邻居文本, 供下游提示词使用
func BuildContexts(segments []vo.Segment) []vo.TextContext {
	out := make([]vo.TextContext, 0, len(segments))
	for i, seg := range segments {
		ctx := vo.TextContext{Current: seg.Text}
		if i > 0 {
			ctx.Before = segments[i-1].Text
		}
		if i < len(segments)-1 {
			ctx.After = segments[i+1].Text
		}
		out = append(out, ctx)
	}
	return out
}
