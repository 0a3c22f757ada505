// Package search implements the relevance engine: query intent
// extraction, profile scoring, two-tier (strict then relaxed) search,
// and context summarization for the LLM prompt.
package search

import (
	"regexp"
	"strconv"
	"strings"
)

// monthNames maps month keywords to month numbers. Full names are
// listed before their abbreviations so substring matching finds the
// full form first; both map to the same number. "may" has no
// abbreviation.
var monthNames = []struct {
	name string
	num  int
}{
	{"january", 1}, {"jan", 1},
	{"february", 2}, {"feb", 2},
	{"march", 3}, {"mar", 3},
	{"april", 4}, {"apr", 4},
	{"may", 5},
	{"june", 6}, {"jun", 6},
	{"july", 7}, {"jul", 7},
	{"august", 8}, {"aug", 8},
	{"september", 9}, {"sep", 9},
	{"october", 10}, {"oct", 10},
	{"november", 11}, {"nov", 11},
	{"december", 12}, {"dec", 12},
}

const monthAlternation = "january|jan|february|feb|march|mar|april|apr|may|june|jun|july|jul|august|aug|september|sep|october|oct|november|nov|december|dec"

// Tried in order; the first pattern that matches wins.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})\s+(` + monthAlternation + `)\s+(20\d{2})`),
	regexp.MustCompile(`(` + monthAlternation + `)\s+(\d{1,2})\s+(20\d{2})`),
	regexp.MustCompile(`(20\d{2})-(\d{1,2})-(\d{1,2})`),
}

var (
	yearPattern       = regexp.MustCompile(`\b(20\d{2})\b`)
	lastMonthsPattern = regexp.MustCompile(`last\s+(\d+)\s+months?`)
)

var genericKeywords = []string{
	"summary", "overview", "tell me about", "show me",
	"uploaded", "this file", "analyze", "what is",
}

var comparisonKeywords = []string{"compare", "difference", "vs", "versus"}

var summaryKeywords = []string{"summary", "overview", "tell me", "analyze", "analysis"}

// Date is an explicit calendar date found in a query.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Intent is the temporal/stylistic signal extracted from one query.
// It is derived per request and never stored.
type Intent struct {
	// SpecificDate is set only when the query contains a literal
	// calendar date; when set, Months is always empty.
	SpecificDate *Date

	// Years holds every 4-digit year token in order of first
	// appearance. Consumers treat presence, not count, as significant.
	Years []int

	// Months holds month numbers found as name substrings, deduplicated
	// in name-table iteration order.
	Months []int

	IsGeneric    bool
	IsComparison bool
}

// HasTemporalSignal reports whether the intent carries any temporal
// filter; only then is the relaxed fallback search worth attempting.
func (in Intent) HasTemporalSignal() bool {
	return in.SpecificDate != nil || len(in.Years) > 0 || len(in.Months) > 0
}

// HasYear reports whether year is among the extracted years.
func (in Intent) HasYear(year int) bool {
	for _, y := range in.Years {
		if y == year {
			return true
		}
	}
	return false
}

// Extract parses a free-form query into an Intent. A query with no
// recognizable signal produces an empty intent; that is not an error.
func Extract(query string) Intent {
	lower := strings.ToLower(query)
	in := Intent{}

	in.SpecificDate = extractDate(lower)

	for _, m := range yearPattern.FindAllString(query, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		in.Years = append(in.Years, y)
	}

	if in.SpecificDate == nil {
		seen := map[int]bool{}
		for _, mn := range monthNames {
			if strings.Contains(lower, mn.name) && !seen[mn.num] {
				seen[mn.num] = true
				in.Months = append(in.Months, mn.num)
			}
		}
	}

	// "last N months" with at least one literal year overrides the
	// month set with the trailing numeric range of that year.
	if m := lastMonthsPattern.FindStringSubmatch(lower); m != nil && len(in.Years) > 0 {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			in.Months = in.Months[:0]
			for mo := max(1, 13-n); mo <= 12; mo++ {
				in.Months = append(in.Months, mo)
			}
		}
	}

	in.IsGeneric = containsAny(lower, genericKeywords)
	in.IsComparison = containsAny(lower, comparisonKeywords) && len(in.Years) > 0

	return in
}

// extractDate tries the three literal date patterns in order. Captured
// group roles are disambiguated by which group is the 4-digit year.
func extractDate(lower string) *Date {
	for _, pat := range datePatterns {
		m := pat.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		g := m[1:]

		var d Date
		switch {
		case len(g[0]) == 4 && isDigits(g[0]):
			// YYYY-M-D
			d.Year, _ = strconv.Atoi(g[0])
			d.Month, _ = strconv.Atoi(g[1])
			d.Day, _ = strconv.Atoi(g[2])
		case strings.HasPrefix(g[2], "20"):
			if isDigits(g[0]) {
				// D Month YYYY
				d.Day, _ = strconv.Atoi(g[0])
				d.Month = monthNumber(g[1])
			} else {
				// Month D YYYY
				d.Month = monthNumber(g[0])
				d.Day, _ = strconv.Atoi(g[1])
			}
			d.Year, _ = strconv.Atoi(g[2])
		default:
			continue
		}
		return &d
	}
	return nil
}

// monthNumber converts a month name or abbreviation to its number,
// defaulting to January for unknown input.
func monthNumber(name string) int {
	for _, mn := range monthNames {
		if mn.name == strings.ToLower(name) {
			return mn.num
		}
	}
	return 1
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
