// Package format renders game numbers and durations for logs and bridge frames.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var suffixes = []string{"", "k", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc"}

// Cookies renders a cookie count with short-scale suffixes: 999, 1.5k, 23M.
// Values below 1000 are floored; larger ones keep three significant digits.
func Cookies(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "∞"
	}
	if n < 0 {
		return "-" + Cookies(-n)
	}
	if n < 1000 {
		return humanize.Comma(int64(math.Floor(n)))
	}

	exp := 0
	short := n
	for short >= 1000 && exp < len(suffixes)-1 {
		short /= 1000
		exp++
	}
	short = roundSignificant(short)
	if short >= 1000 {
		if exp == len(suffixes)-1 {
			return fmt.Sprintf("%.2e", n)
		}
		short /= 1000
		exp++
	}
	return humanize.FtoaWithDigits(short, 1) + suffixes[exp]
}

// roundSignificant keeps three significant digits of a value in [1, 1000).
func roundSignificant(v float64) float64 {
	var scale float64
	switch {
	case v >= 100:
		scale = 1
	case v >= 10:
		scale = 10
	default:
		scale = 100
	}
	return math.Round(v*scale) / scale
}

// Rate renders a per-second production rate.
func Rate(n float64) string {
	if n > 0 && n < 10 {
		return humanize.FtoaWithDigits(n, 1) + "/s"
	}
	return Cookies(n) + "/s"
}

// Duration renders "13s" below a minute and "1m 17s" above.
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(math.Ceil(d.Seconds()))
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// Crystals renders a crystal count with thousands separators.
func Crystals(n int) string {
	return humanize.Comma(int64(n))
}

// Ago renders how long ago t was, relative to now.
func Ago(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// Bytes renders a blob size.
func Bytes(n int) string {
	return humanize.Bytes(uint64(max(n, 0)))
}
