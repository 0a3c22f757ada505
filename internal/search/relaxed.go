package search

import (
	"fmt"

	"github.com/floatchat-ai/floatchat/internal/models"
)

var relaxedParamKeywords = []string{"temperature", "salinity", "analysis"}

// scoreRelaxed assigns the relaxed relevance score used by the fallback
// search. Unlike the strict scorer's exclusive exact-date tier, the
// relaxed date bonuses stack: year, month, and day-within-14 each add
// their own weight. Temporal tolerance widens to ±1 year, ±2 months,
// and ±14 days at reduced weights.
func scoreRelaxed(p *models.Profile, queryLower string, in Intent) int {
	score := 0
	year, month, day := p.Temporal.Year, p.Temporal.Month, p.Temporal.Day

	switch {
	case in.SpecificDate != nil:
		d := *in.SpecificDate
		if year != nil && *year == d.Year {
			score += 6
			switch {
			case month != nil && *month == d.Month:
				score += 8
				if day != nil && abs(*day-d.Day) <= 14 {
					score += 10
				}
			case month != nil && abs(*month-d.Month) <= 1:
				score += 4
			}
		}
	case len(in.Years) > 0 && year != nil:
		if in.HasYear(*year) {
			score += 8
		} else if withinAny(in.Years, *year, 1) {
			score += 4
		}
	}

	if len(in.Months) > 0 && month != nil {
		if containsInt(in.Months, *month) {
			score += 6
		} else if withinAny(in.Months, *month, 2) {
			score += 3
		}
	}

	score += regionScore(p, queryLower, 4)

	if containsAny(queryLower, relaxedParamKeywords) {
		if p.HasCore(models.VarTemp) {
			score += 2
		}
		if p.HasCore(models.VarSalinity) {
			score += 2
		}
	}

	return score
}

// relaxedNotice describes the widened search window shown to the user
// when the strict pass comes up empty.
func relaxedNotice(in Intent) string {
	if d := in.SpecificDate; d != nil {
		return fmt.Sprintf("No data for exact date %d/%d/%d. Searching %d-%02d (±7 days)...",
			d.Day, d.Month, d.Year, d.Year, d.Month)
	}
	return "Expanding search to nearby months/regions..."
}
