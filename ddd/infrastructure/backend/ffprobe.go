package backend

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"videogen-service/ddd/domain/gateway"
)

// FFprobeProber 用ffprobe探测音频时长
type FFprobeProber struct {
	bin string
}

func NewFFprobeProber(bin string) gateway.AudioProber {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFprobeProber{bin: bin}
}

func (p *FFprobeProber) DurationMs(ctx context.Context, audioPath string) (int64, error) {
	cmd := exec.CommandContext(ctx, p.bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("run %s: %w", p.bin, err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return int64(math.Round(seconds * 1000)), nil
}
