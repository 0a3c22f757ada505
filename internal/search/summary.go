package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/floatchat-ai/floatchat/internal/models"
)

// NoDataSentinel is the fixed summary for an empty profile list.
const NoDataSentinel = "No relevant data found in the specified time period."

const segmentSeparator = " || "

const (
	maxSummaryProfiles   = 10
	maxComparisonPerYear = 3
)

// Summarize condenses a ranked profile list into a bounded text block
// for the LLM prompt. Comparison queries (comparison keywords plus
// literal years) are grouped by year with up to three profiles per
// year; everything else takes the first ten profiles in rank order.
// Segments are joined with " || ".
func Summarize(profiles []models.Profile, query string) string {
	if len(profiles) == 0 {
		return NoDataSentinel
	}

	queryLower := strings.ToLower(query)
	in := Extract(query)
	isSummary := containsAny(queryLower, summaryKeywords)

	var parts []string

	// Group by zero-padded year-month; lexicographic key order is also
	// chronological order. Profiles missing year or month stay out of
	// the grouping but still get their own segment below.
	groups := map[string]int{}
	for i := range profiles {
		y, m := profiles[i].Temporal.Year, profiles[i].Temporal.Month
		if y != nil && m != nil {
			groups[fmt.Sprintf("%d-%02d", *y, *m)]++
		}
	}
	if len(groups) > 1 {
		keys := make([]string, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts = append(parts, fmt.Sprintf("TEMPORAL RANGE: %s to %s (%d profiles)",
			keys[0], keys[len(keys)-1], len(profiles)))
	}

	if in.IsComparison {
		parts = append(parts, comparisonSegments(profiles, queryLower, in, isSummary)...)
	} else {
		n := len(profiles)
		if n > maxSummaryProfiles {
			n = maxSummaryProfiles
		}
		for i := 0; i < n; i++ {
			parts = append(parts, profileSegment(&profiles[i]))
		}
	}

	return strings.Join(parts, segmentSeparator)
}

// comparisonSegments groups the matching profiles by queried year and
// emits up to three segments per year in ascending year order.
func comparisonSegments(profiles []models.Profile, queryLower string, in Intent, isSummary bool) []string {
	byYear := map[int][]*models.Profile{}
	for i := range profiles {
		y := profiles[i].Temporal.Year
		if y != nil && in.HasYear(*y) {
			byYear[*y] = append(byYear[*y], &profiles[i])
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var parts []string
	for _, y := range years {
		group := byYear[y]
		if len(group) > maxComparisonPerYear {
			group = group[:maxComparisonPerYear]
		}
		for _, p := range group {
			// Comparison segments gate stats on query keywords or
			// summary intent rather than emitting them unconditionally.
			seg := fmt.Sprintf("REAL DATA [%d] - Profile %s from %s", y, p.Date(), p.Regions())
			if p.UploadedFile != "" {
				seg += fmt.Sprintf(" (File: %s)", p.UploadedFile)
			}
			if containsAny(queryLower, []string{"temperature", "temp"}) || isSummary {
				seg += tempSegment(p)
			}
			if containsAny(queryLower, []string{"salinity", "salt"}) || isSummary {
				seg += salSegment(p)
			}
			if isSummary {
				seg += depthSegment(p)
			}
			parts = append(parts, seg)
		}
	}
	return parts
}

// profileSegment renders one non-comparison segment. Stats are always
// emitted when the variable is present; absent statistics are omitted
// rather than rendered as placeholders.
func profileSegment(p *models.Profile) string {
	seg := fmt.Sprintf("REAL DATA [%s] - Profile %s from %s", dateTag(p), p.Date(), p.Regions())
	if p.UploadedFile != "" {
		seg += fmt.Sprintf(" (File: %s)", p.UploadedFile)
	}
	seg += tempSegment(p)
	seg += salSegment(p)
	seg += depthSegment(p)
	return seg
}

// dateTag renders the year-month-day tag, falling back to the datetime
// prefix when any component is missing.
func dateTag(p *models.Profile) string {
	y, m, d := p.Temporal.Year, p.Temporal.Month, p.Temporal.Day
	if y != nil && m != nil && d != nil {
		return fmt.Sprintf("%d-%02d-%02d", *y, *m, *d)
	}
	return p.Date()
}

func tempSegment(p *models.Profile) string {
	v, ok := p.CoreVar(models.VarTemp)
	if !ok || !v.Present || v.Statistics == nil {
		return ""
	}
	s := v.Statistics
	return fmt.Sprintf(" | TEMP: %.2f-%.2f°C (mean: %.2f°C)", s.Min, s.Max, s.Mean)
}

func salSegment(p *models.Profile) string {
	v, ok := p.CoreVar(models.VarSalinity)
	if !ok || !v.Present || v.Statistics == nil {
		return ""
	}
	s := v.Statistics
	return fmt.Sprintf(" | SAL: %.2f-%.2f PSU (mean: %.2f PSU)", s.Min, s.Max, s.Mean)
}

func depthSegment(p *models.Profile) string {
	v, ok := p.CoreVar(models.VarPressure)
	if !ok || !v.Present || v.Statistics == nil {
		return ""
	}
	return fmt.Sprintf(" | DEPTH: 0-%.0fm", v.Statistics.Max)
}
