package harness

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders grouped numbers with a fixed locale so reports stay deterministic
var printer = message.NewPrinter(language.English)

// groupInt renders n with thousands separators: 1100 -> "1,100", -1 -> "-1"
func groupInt(n int) string {
	return printer.Sprintf("%d", n)
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

// formatFPS renders one decimal with grouping and at least two integer digits
func formatFPS(fps float64) string {
	if math.IsNaN(fps) || math.IsInf(fps, 0) {
		return strconv.FormatFloat(fps, 'f', 1, 64)
	}
	s := printer.Sprintf("%.1f", fps)
	if fps >= 0 && fps < 9.95 {
		s = "0" + s
	}
	return s
}

// formatFrameTime renders seconds with four decimals
func formatFrameTime(dt float64) string {
	return strconv.FormatFloat(dt, 'f', 4, 64)
}
