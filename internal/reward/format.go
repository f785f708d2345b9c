package reward

import (
	"fmt"
	"math"
)

// Placeholders for missing comparison data.
const (
	unknownName  = "Unknown"
	missingValue = "N/A"
	noComparison = "Not enough data to compare"
)

// FormatMoney formats a monetary amount with a B/M/K suffix and one decimal,
// e.g. 1500000000 -> "$1.5B". Amounts under a thousand are shown whole.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missingValue
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%s$%.1fB", sign, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s$%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.1fK", sign, v/1e3)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// phrasing holds the verdict wording for one tier.
type phrasing struct {
	multiple string // "%s earned %.1fx more"
	strong   string
	slight   string
	similar  string
}

var boxOfficePhrasing = phrasing{
	multiple: "%s earned %.1fx more",
	strong:   "%s holds a strong lead",
	slight:   "%s slightly outperformed",
	similar:  "Both performed similarly",
}

var netWorthPhrasing = phrasing{
	multiple: "%s is worth %.1fx more",
	strong:   "%s holds a strong lead",
	slight:   "%s is slightly ahead",
	similar:  "Both are similarly wealthy",
}

// compare produces a qualitative verdict from the ratio of two amounts.
func compare(p phrasing, leftName string, left float64, rightName string, right float64) string {
	if !validAmount(left) || !validAmount(right) {
		return noComparison
	}
	leader, hi, lo := leftName, left, right
	if right > left {
		leader, hi, lo = rightName, right, left
	}
	ratio := hi / lo
	switch {
	case ratio > 2:
		return fmt.Sprintf(p.multiple, leader, ratio)
	case ratio > 1.5:
		return fmt.Sprintf(p.strong, leader)
	case ratio > 1.1:
		return fmt.Sprintf(p.slight, leader)
	default:
		return p.similar
	}
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func moneyOrPlaceholder(v float64) string {
	if !validAmount(v) {
		return missingValue
	}
	return FormatMoney(v)
}

func nameOrPlaceholder(s string) string {
	if s == "" {
		return unknownName
	}
	return s
}
