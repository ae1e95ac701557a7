// Package units converts between byte counts and the short human-readable
// capacity strings printed by df -h ("512M", "1.5G").
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	KiB uint64 = 1 << 10
	MiB uint64 = 1 << 20
	GiB uint64 = 1 << 30
	TiB uint64 = 1 << 40
)

var suffixes = []string{"B", "K", "M", "G", "T"}

// Parse decodes a capacity string into a byte count. K, M, G and T are binary
// multiples of 1024; a bare number (or a trailing B) is a raw byte count. Fractional values
// ("1.5G") are accepted and truncated to whole bytes.
func Parse(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := uint64(1)
	number := s
	switch s[len(s)-1] {
	case 'B':
		number = s[:len(s)-1]
	case 'K':
		multiplier = KiB
	case 'M':
		multiplier = MiB
	case 'G':
		multiplier = GiB
	case 'T':
		multiplier = TiB
	}
	if multiplier != 1 {
		number = s[:len(s)-1]
	}

	if n, err := strconv.ParseUint(number, 10, 64); err == nil {
		if n > math.MaxUint64/multiplier {
			return 0, fmt.Errorf("size %q overflows", s)
		}
		return n * multiplier, nil
	}

	f, err := strconv.ParseFloat(number, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	bytes := f * float64(multiplier)
	if bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("size %q overflows", s)
	}
	return uint64(bytes), nil
}

// Format renders a byte count with the largest unit that keeps the value
// at or above 1, one decimal place for anything above bytes.
// Example: Format(1536) returns "1.5K".
func Format(bytes uint64) string {
	size := float64(bytes)
	idx := 0
	for size >= 1024 && idx < len(suffixes)-1 {
		size /= 1024
		idx++
	}

	if idx == 0 {
		return fmt.Sprintf("%.0f%s", size, suffixes[idx])
	}
	return fmt.Sprintf("%.1f%s", size, suffixes[idx])
}
