package search

import (
	"strings"
	"testing"

	"github.com/floatchat-ai/floatchat/internal/models"
)

func withDatetime(dt string) profileOpt {
	return func(p *models.Profile) { p.Temporal.Datetime = dt }
}

func TestSummarize_EmptyList(t *testing.T) {
	if got := Summarize(nil, "temperature in 2023"); got != NoDataSentinel {
		t.Errorf("got %q, want sentinel", got)
	}
}

func TestSummarize_SingleProfileSegment(t *testing.T) {
	p := newProfile(
		withDate(2023, 3, 15),
		withDatetime("2023-03-15T10:00:00"),
		withRegions("Bay_of_Bengal"),
		withCore(models.VarTemp, &models.Statistics{Min: 20, Max: 28.5, Mean: 24.3}),
		withCore(models.VarSalinity, &models.Statistics{Min: 34.5, Max: 35.2, Mean: 34.9}),
		withCore(models.VarPressure, &models.Statistics{Max: 1500}),
	)

	got := Summarize([]models.Profile{p}, "bay of bengal march 2023")
	want := "REAL DATA [2023-03-15] - Profile 2023-03-15 from Bay_of_Bengal" +
		" | TEMP: 20.00-28.50°C (mean: 24.30°C)" +
		" | SAL: 34.50-35.20 PSU (mean: 34.90 PSU)" +
		" | DEPTH: 0-1500m"
	if got != want {
		t.Errorf("segment mismatch\ngot:  %q\nwant: %q", got, want)
	}
}

func TestSummarize_AbsentStatisticsOmitted(t *testing.T) {
	p := newProfile(
		withDate(2023, 3, 15),
		withCore(models.VarTemp, nil),
		withCore(models.VarSalinity, &models.Statistics{Min: 34, Max: 35, Mean: 34.5}),
	)

	got := Summarize([]models.Profile{p}, "salinity data")
	if strings.Contains(got, "TEMP:") {
		t.Errorf("stat-less TEMP rendered: %q", got)
	}
	if !strings.Contains(got, "SAL: 34.00-35.00 PSU") {
		t.Errorf("missing SAL segment: %q", got)
	}
}

func TestSummarize_UploadedFileTag(t *testing.T) {
	p := newProfile(withDate(2023, 3, 15), withUploaded("cast_0042.json"))

	got := Summarize([]models.Profile{p}, "summary of this file")
	if !strings.Contains(got, "(File: cast_0042.json)") {
		t.Errorf("missing file tag: %q", got)
	}
}

func TestSummarize_TemporalRangeHeader(t *testing.T) {
	multi := []models.Profile{
		newProfile(withYearMonth(2023, 11)),
		newProfile(withYearMonth(2022, 3)),
		newProfile(withYearMonth(2023, 2)),
	}
	got := Summarize(multi, "ocean data")
	if !strings.HasPrefix(got, "TEMPORAL RANGE: 2022-03 to 2023-11 (3 profiles)") {
		t.Errorf("missing or wrong range header: %q", got)
	}

	// A single year-month group gets no header.
	single := []models.Profile{
		newProfile(withYearMonth(2023, 3)),
		newProfile(withYearMonth(2023, 3)),
	}
	got = Summarize(single, "ocean data")
	if strings.Contains(got, "TEMPORAL RANGE") {
		t.Errorf("unexpected range header: %q", got)
	}
}

func TestSummarize_TruncatesToTen(t *testing.T) {
	profiles := make([]models.Profile, 25)
	for i := range profiles {
		profiles[i] = newProfile(withYearMonth(2023, 3))
	}

	got := Summarize(profiles, "march 2023")
	segments := strings.Split(got, segmentSeparator)
	if len(segments) != maxSummaryProfiles {
		t.Errorf("got %d segments, want %d", len(segments), maxSummaryProfiles)
	}
}

func TestSummarize_ComparisonGroupsByYear(t *testing.T) {
	stats := &models.Statistics{Min: 20, Max: 28, Mean: 24}
	profiles := []models.Profile{
		newProfile(withDate(2023, 6, 1), withCore(models.VarTemp, stats)),
		newProfile(withDate(2022, 6, 1), withCore(models.VarTemp, stats)),
		newProfile(withDate(2022, 7, 1), withCore(models.VarTemp, stats)),
		newProfile(withDate(2022, 8, 1), withCore(models.VarTemp, stats)),
		newProfile(withDate(2022, 9, 1), withCore(models.VarTemp, stats)), // over the per-year cap
		newProfile(withDate(2010, 1, 1), withCore(models.VarTemp, stats)), // not a queried year
	}

	got := Summarize(profiles, "compare temperature 2022 vs 2023")
	segments := strings.Split(got, segmentSeparator)

	// Range header, then three 2022 segments, then one 2023 segment.
	if len(segments) != 5 {
		t.Fatalf("got %d segments, want 5: %q", len(segments), got)
	}
	if !strings.HasPrefix(segments[0], "TEMPORAL RANGE") {
		t.Errorf("first segment %q, want range header", segments[0])
	}
	for _, seg := range segments[1:4] {
		if !strings.HasPrefix(seg, "REAL DATA [2022]") {
			t.Errorf("segment %q, want 2022 group", seg)
		}
	}
	if !strings.HasPrefix(segments[4], "REAL DATA [2023]") {
		t.Errorf("segment %q, want 2023 group", segments[4])
	}
	if strings.Contains(got, "REAL DATA [2010]") {
		t.Error("unqueried year leaked into comparison segments")
	}

	// Temperature keyword gates the stats in, salinity/depth stay out.
	if !strings.Contains(segments[1], "TEMP: 20.00-28.00°C") {
		t.Errorf("missing gated TEMP stats: %q", segments[1])
	}
	if strings.Contains(got, "SAL:") || strings.Contains(got, "DEPTH:") {
		t.Errorf("ungated stats leaked: %q", got)
	}
}

func TestSummarize_ComparisonSummaryIntentOpensAllStats(t *testing.T) {
	profiles := []models.Profile{
		newProfile(withDate(2022, 6, 1),
			withCore(models.VarTemp, &models.Statistics{Min: 20, Max: 28, Mean: 24}),
			withCore(models.VarSalinity, &models.Statistics{Min: 34, Max: 35, Mean: 34.5}),
			withCore(models.VarPressure, &models.Statistics{Max: 1800})),
		newProfile(withDate(2023, 6, 1),
			withCore(models.VarTemp, &models.Statistics{Min: 21, Max: 29, Mean: 25})),
	}

	got := Summarize(profiles, "compare 2022 vs 2023 overview")
	if !strings.Contains(got, "TEMP:") || !strings.Contains(got, "SAL:") {
		t.Errorf("summary intent should open temp and sal stats: %q", got)
	}
	if !strings.Contains(got, "DEPTH: 0-1800m") {
		t.Errorf("summary intent should open depth stats: %q", got)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	profiles := []models.Profile{
		newProfile(withDate(2022, 6, 1), withCore(models.VarTemp, &models.Statistics{Min: 20, Max: 28, Mean: 24})),
		newProfile(withDate(2023, 6, 1), withRegions("Arabian_Sea")),
	}
	query := "compare temperature 2022 vs 2023"

	first := Summarize(profiles, query)
	second := Summarize(profiles, query)
	if first != second {
		t.Errorf("summaries differ:\n%q\n%q", first, second)
	}
}

func TestSummarize_DateTagFallsBackToDatetime(t *testing.T) {
	p := newProfile(withDatetime("2023-03-15T10:00:00Z"))
	got := Summarize([]models.Profile{p}, "anything")
	if !strings.HasPrefix(got, "REAL DATA [2023-03-15] -") {
		t.Errorf("datetime fallback tag missing: %q", got)
	}

	blank := newProfile()
	got = Summarize([]models.Profile{blank}, "anything")
	if !strings.HasPrefix(got, "REAL DATA [unknown] - Profile unknown from Ocean") {
		t.Errorf("unknown fallback missing: %q", got)
	}
}
