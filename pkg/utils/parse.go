package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// amountSuffixes are the multipliers accepted by ParseAmount.
var amountSuffixes = map[byte]float64{
	'k': 1e3,
	'm': 1e6,
	'b': 1e9,
}

// ParseAmount parses a plain number or one with a k/m/b suffix,
// e.g. "150000", "150k", "1.2M". Thousands separators are not accepted.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	mult := 1.0
	last := s[len(s)-1]
	if m, ok := amountSuffixes[last|0x20]; ok && (last < '0' || last > '9') {
		mult = m
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v * mult, nil
}

// ParseFloatList parses a comma separated list of amounts,
// e.g. "150k, 180k,210000". Empty input yields an empty list.
func ParseFloatList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []float64{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := ParseAmount(p)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}
