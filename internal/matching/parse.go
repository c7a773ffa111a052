package matching

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// singlePriceBand is the relative band placed around a single average price.
const singlePriceBand = 0.3

// PriceRange is a parsed supplier price range. Bounded is false for "min+" ranges.
type PriceRange struct {
	Min     float64
	Max     float64
	Bounded bool
}

// Contains reports whether v falls inside the range.
func (p PriceRange) Contains(v float64) bool {
	if v < p.Min {
		return false
	}
	return !p.Bounded || v <= p.Max
}

var priceNumberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePriceRange parses "min-max", "min+" or a single average value.
// Currency symbols and prefixes such as "Rs." or "INR", thousands separators and spaces
// are ignored. A single value v becomes the band [0.7v, 1.3v].
func ParsePriceRange(s string) (PriceRange, bool) {
	locs := priceNumberPattern.FindAllStringIndex(s, -1)
	nums := make([]float64, 0, len(locs))
	for _, loc := range locs {
		v, err := strconv.ParseFloat(strings.ReplaceAll(s[loc[0]:loc[1]], ",", ""), 64)
		if err != nil {
			return PriceRange{}, false
		}
		nums = append(nums, v)
	}

	switch len(nums) {
	case 1:
		if strings.Contains(s[locs[0][1]:], "+") {
			return PriceRange{Min: nums[0]}, true
		}
		if nums[0] <= 0 {
			return PriceRange{}, false
		}
		return PriceRange{
			Min:     nums[0] * (1 - singlePriceBand),
			Max:     nums[0] * (1 + singlePriceBand),
			Bounded: true,
		}, true
	case 2:
		min, max := nums[0], nums[1]
		if min > max {
			min, max = max, min
		}
		return PriceRange{Min: min, Max: max, Bounded: true}, true
	default:
		return PriceRange{}, false
	}
}

var daysPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(d|days?|w|weeks?)$`)

// ParseDays parses a day count given as a number ("10"), "N days" or "N weeks".
func ParseDays(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}
	m := daysPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(strings.ToLower(m[2]), "w") {
		v *= 7
	}
	return v, true
}

var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDeadlineDays parses an RFQ delivery deadline into days from now.
// It accepts a calendar date or anything ParseDays does. Dates are tried first so a
// compact "20250301" is read as a date rather than a day count. Dates in the past yield
// a negative count.
func ParseDeadlineDays(s string, now time.Time) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, trimmed, now.Location())
		if err != nil {
			continue
		}
		return math.Ceil(t.Sub(now).Hours() / 24), true
	}
	return ParseDays(s)
}
