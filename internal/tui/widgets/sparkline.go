// ABOUTME: Sparkline widget for month-by-month trends
// ABOUTME: Scales values into eight block heights

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks from lowest to highest
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values (oldest first) into width cells. Short series are
// left-padded with their minimum so the padding draws as a flat baseline.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := resample(values, width)
	lo, hi := bounds(sampled)

	var sb strings.Builder
	for _, v := range sampled {
		sb.WriteRune(block(v, lo, hi))
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(sb.String())
}

func resample(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}

	out := make([]float64, width)
	if len(values) < width {
		lo, _ := bounds(values)
		pad := width - len(values)
		for i := 0; i < pad; i++ {
			out[i] = lo
		}
		copy(out[pad:], values)
		return out
	}

	ratio := float64(len(values)) / float64(width)
	for i := range out {
		idx := int(float64(i) * ratio)
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[i] = values[idx]
	}
	return out
}

func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func block(v, lo, hi float64) rune {
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(SparklineBlocks)-1))
	idx = max(0, min(idx, len(SparklineBlocks)-1))
	return SparklineBlocks[idx]
}
