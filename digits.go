package pager

import (
	"fmt"
	"strconv"
	"strings"
)

// OrderKey is the integer pulled from a filename to decide page order.
type OrderKey int64

// Strategy selects how digit runs in a filename become an OrderKey.
type Strategy int

const (
	// ConcatenatedDigits joins every digit run: page_12_v3.jpg -> 123
	ConcatenatedDigits Strategy = iota + 1
	// FirstDigitRunOnly uses the first digit run: page_12_v3.jpg -> 12
	FirstDigitRunOnly
)

var strategyNames = map[Strategy]string{
	ConcatenatedDigits: "concatenated",
	FirstDigitRunOnly:  "first",
}

var strategyValues = map[string]Strategy{
	"concatenated": ConcatenatedDigits,
	"concat":       ConcatenatedDigits,
	"first":        FirstDigitRunOnly,
}

func (s Strategy) String() string {
	if name, known := strategyNames[s]; known {
		return name
	}
	return "Unknown"
}

func (s *Strategy) Set(v string) error {
	if strategy, known := strategyValues[strings.ToLower(v)]; known {
		*s = strategy
	} else {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, v)
	}
	return nil
}

// Type satisfies pflag.Value
func (s *Strategy) Type() string {
	return "strategy"
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	return s.Set(string(b))
}

// Key extracts the order key from name. The bool is false when name has no
// digits, or when the digits do not fit in an int64.
func (s Strategy) Key(name string) (OrderKey, bool) {
	runs := digitRuns(name)
	if len(runs) == 0 {
		return 0, false
	}
	var digits string
	switch s {
	case FirstDigitRunOnly:
		digits = runs[0]
	default:
		digits = strings.Join(runs, "")
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return OrderKey(n), true
}

// digitRuns returns the maximal runs of ASCII digits in s, left to right.
func digitRuns(s string) []string {
	var (
		runs  []string
		start = -1
	)
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}
