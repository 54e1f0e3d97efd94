package utils

import (
	"fmt"
	"strconv"
	"time"
)

// FormatNumber renders n with thousands separators.
func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if n < 0 {
		str = str[1:]
	}

	var result []byte
	for i := len(str) - 1; i >= 0; i-- {
		if (len(str)-i-1)%3 == 0 && i != len(str)-1 {
			result = append([]byte{','}, result...)
		}
		result = append([]byte{str[i]}, result...)
	}

	if n < 0 {
		return "-" + string(result)
	}
	return string(result)
}

// AbbreviateNumber renders large values as 1.2K / 3.4M for compact
// embed fields.
func AbbreviateNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// ProgressBar renders a fixed-width bar for percent in [0,100].
func ProgressBar(percent float64, length int) string {
	if length <= 0 {
		length = 10
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(float64(length) * percent / 100)
	bar := make([]rune, 0, length)
	for i := 0; i < length; i++ {
		if i < filled {
			bar = append(bar, '█')
		} else {
			bar = append(bar, '░')
		}
	}
	return string(bar)
}

// FormatDuration renders d at the coarsest sensible unit.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

// Percent guards the zero-target case.
func Percent(current, target int64) float64 {
	if target <= 0 {
		return 0
	}
	p := float64(current) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}
