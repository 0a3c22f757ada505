package search

import (
	"strings"

	"github.com/floatchat-ai/floatchat/internal/models"
)

// parameterFamilies maps keyword families to the variable whose
// presence earns the match bonus. CHLA lives in the BGC block, the
// rest are core variables.
var parameterFamilies = []struct {
	keywords []string
	code     string
	bgc      bool
}{
	{[]string{"temperature", "temp"}, models.VarTemp, false},
	{[]string{"salinity", "salt", "psal"}, models.VarSalinity, false},
	{[]string{"oxygen", "doxy"}, models.VarOxygen, false},
	{[]string{"chlorophyll", "chla"}, models.VarChla, true},
	{[]string{"pressure", "depth", "pres"}, models.VarPressure, false},
}

// Score assigns the strict relevance score for one profile. Scoring is
// additive across rules; only the exact-date tier is exclusive, picking
// the single best day bucket. The result is always >= 0.
func Score(p *models.Profile, queryLower string, in Intent) int {
	score := 0

	if in.IsGeneric && p.IsUploaded {
		score += 10
	}

	switch {
	case in.SpecificDate != nil:
		score += dateTierScore(p, *in.SpecificDate)
	case len(in.Years) > 0:
		score += yearTierScore(p, in)
	}

	score += regionScore(p, queryLower, 5)
	score += parameterScore(p, queryLower)

	// Keep temperature-bearing profiles minimally visible rather than
	// fully excluded.
	if score == 0 && p.HasCore(models.VarTemp) {
		score = 1
	}

	return score
}

// dateTierScore applies the exclusive exact-date tier: the profile must
// match year and month, then the single closest day bucket fires.
func dateTierScore(p *models.Profile, d Date) int {
	year, month, day := p.Temporal.Year, p.Temporal.Month, p.Temporal.Day
	if year == nil || month == nil || *year != d.Year || *month != d.Month {
		return 0
	}

	switch {
	case day != nil && *day == d.Day:
		return 20
	case day != nil && abs(*day-d.Day) <= 3:
		return 15
	case day != nil && abs(*day-d.Day) <= 7:
		return 10
	default:
		return 8
	}
}

// yearTierScore applies the year/month tier used when the query names
// years but no specific date.
func yearTierScore(p *models.Profile, in Intent) int {
	year, month := p.Temporal.Year, p.Temporal.Month
	if year == nil || !in.HasYear(*year) {
		return 0
	}

	score := 10
	if len(in.Months) == 0 {
		return score + 5
	}
	if month != nil {
		if containsInt(in.Months, *month) {
			score += 8
		} else if withinAny(in.Months, *month, 1) {
			score += 5
		}
	}
	return score
}

// regionScore adds weight for every region whose normalized name
// (underscores to spaces, lower-cased) appears as a substring of the
// query. No word-boundary check: a superstring of a region name still
// matches, and ranking depends on that.
func regionScore(p *models.Profile, queryLower string, weight int) int {
	score := 0
	for _, region := range p.Geospatial.RegionalSeas {
		clean := strings.ToLower(strings.ReplaceAll(region, "_", " "))
		if clean != "" && strings.Contains(queryLower, clean) {
			score += weight
		}
	}
	return score
}

func parameterScore(p *models.Profile, queryLower string) int {
	score := 0
	for _, fam := range parameterFamilies {
		if !containsAny(queryLower, fam.keywords) {
			continue
		}
		present := p.HasCore(fam.code)
		if fam.bgc {
			present = p.HasBGC(fam.code)
		}
		if present {
			score += 3
		}
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func containsInt(ns []int, n int) bool {
	for _, v := range ns {
		if v == n {
			return true
		}
	}
	return false
}

func withinAny(ns []int, n, dist int) bool {
	for _, v := range ns {
		if abs(n-v) <= dist {
			return true
		}
	}
	return false
}
