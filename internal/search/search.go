package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/floatchat-ai/floatchat/internal/models"
)

// maxResults caps how many ranked profiles feed the context summary.
const maxResults = 15

type scorerFunc func(p *models.Profile, queryLower string, in Intent) int

// Result is the outcome of one relevance search.
type Result struct {
	// Profiles are ranked by descending relevance score; ties keep
	// their original ingestion order.
	Profiles []models.Profile

	// Intent is the extracted query intent, reused by the summarizer.
	Intent Intent

	// Notice is a user-visible message set when the strict pass found
	// nothing and the relaxed fallback widened the window.
	Notice string
}

// Search runs the strict scorer over profiles and ranks the matches.
// When the strict pass yields nothing but the query carried a temporal
// signal, the relaxed fallback runs instead and the result carries a
// notice describing the widened window. An empty relaxed result is
// final; there is no further escalation.
func Search(query string, profiles []models.Profile) Result {
	queryLower := strings.ToLower(query)
	in := Extract(query)

	ranked := rank(profiles, queryLower, in, Score)
	if len(ranked) == 0 && in.HasTemporalSignal() {
		notice := relaxedNotice(in)
		slog.Info("strict search empty, widening window", "query_len", len(query))
		return Result{
			Profiles: rank(profiles, queryLower, in, scoreRelaxed),
			Intent:   in,
			Notice:   notice,
		}
	}

	return Result{Profiles: ranked, Intent: in}
}

// rank scores every profile, keeps positive scores, sorts descending
// with stable tie order, and truncates to maxResults.
func rank(profiles []models.Profile, queryLower string, in Intent, score scorerFunc) []models.Profile {
	type scored struct {
		profile models.Profile
		score   int
	}

	matches := make([]scored, 0, len(profiles))
	for i := range profiles {
		if s := score(&profiles[i], queryLower, in); s > 0 {
			matches = append(matches, scored{profiles[i], s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	out := make([]models.Profile, len(matches))
	for i, m := range matches {
		out[i] = m.profile
	}
	return out
}
