package alignment

import (
	"fmt"
	"strings"

	"videogen-service/ddd/domain/vo"
)

// FormatSRT renders segments as SRT blocks:
//
//	index
//	HH:MM:SS,mmm --> HH:MM:SS,mmm
//	text
func FormatSRT(segments []vo.Segment) string {
	var sb strings.Builder
	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTimestamp(seg.StartMs), formatSRTTimestamp(seg.EndMs)))
		sb.WriteString(seg.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ParseSRT reads SRT text back into segments. Blocks that do not parse are
// skipped.
func ParseSRT(input string) []vo.Segment {
	content := strings.TrimSpace(strings.ReplaceAll(input, "\r\n", "\n"))
	if content == "" {
		return nil
	}

	var segments []vo.Segment
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		var index int
		if _, err := fmt.Sscanf(lines[0], "%d", &index); err != nil {
			continue
		}

		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			continue
		}
		start, err := parseSRTTimestamp(parts[0])
		if err != nil {
			continue
		}
		end, err := parseSRTTimestamp(parts[1])
		if err != nil {
			continue
		}

		segments = append(segments, vo.Segment{
			Text:    strings.Join(lines[2:], "\n"),
			StartMs: start,
			EndMs:   end,
		})
	}
	return segments
}

func formatSRTTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func parseSRTTimestamp(s string) (int64, error) {
	var hours, minutes, seconds, millis int64
	s = strings.TrimSpace(s)
	if _, err := fmt.Sscanf(s, "%d:%d:%d,%d", &hours, &minutes, &seconds, &millis); err != nil {
		return 0, fmt.Errorf("bad srt timestamp %q: %w", s, err)
	}
	return hours*3600000 + minutes*60000 + seconds*1000 + millis, nil
}
