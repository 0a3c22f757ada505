package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/floatchat-ai/floatchat/internal/models"
)

const profileJSON = `{
	"temporal": {"year": 2023, "month": 3, "day": 15, "datetime": "2023-03-15T10:00:00"},
	"geospatial": {"regional_seas": ["Bay_of_Bengal"]},
	"measurements": {"core_variables": {"TEMP": {"present": true, "statistics": {"min": 20, "max": 28.5, "mean": 24.3}}}}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", profileJSON)
	writeFile(t, dir, "notes.txt", "ignored")
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "b.json", profileJSON)

	s := New()
	n, err := s.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d profiles, want 2", n)
	}

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d profiles, want 2", len(all))
	}
	if all[0].SourcePath == "" {
		t.Error("source path not recorded")
	}
	if !all[0].HasCore(models.VarTemp) {
		t.Error("TEMP not decoded as present")
	}
	if y := all[0].Temporal.Year; y == nil || *y != 2023 {
		t.Errorf("year not decoded: %v", y)
	}
}

func TestLoadDir_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", profileJSON)
	writeFile(t, dir, "bad.json", "{not json")

	s := New()
	n, err := s.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if n != 1 {
		t.Errorf("loaded %d profiles, want 1", n)
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	s := New()
	if _, err := s.LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestAddUploaded_DuplicateFilename(t *testing.T) {
	s := New()
	p := models.Profile{IsUploaded: true, UploadedFile: "cast.json"}

	if err := s.AddUploaded(p); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	err := s.AddUploaded(p)
	if !errors.Is(err, ErrDuplicateUpload) {
		t.Errorf("second upload err = %v, want ErrDuplicateUpload", err)
	}
	if got := len(s.Uploaded()); got != 1 {
		t.Errorf("uploaded count = %d, want 1", got)
	}
}

func TestByUploadedFile(t *testing.T) {
	s := New()
	if err := s.AddUploaded(models.Profile{UploadedFile: "a.json"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddUploaded(models.Profile{UploadedFile: "b.json"}); err != nil {
		t.Fatal(err)
	}

	got := s.ByUploadedFile("b.json")
	if len(got) != 1 || got[0].UploadedFile != "b.json" {
		t.Errorf("ByUploadedFile = %+v", got)
	}
	if got := s.ByUploadedFile("missing.json"); len(got) != 0 {
		t.Errorf("unexpected profiles for unknown file: %+v", got)
	}
}

func TestAll_UploadedAfterBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.json", profileJSON)

	s := New()
	if _, err := s.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := s.AddUploaded(models.Profile{IsUploaded: true, UploadedFile: "up.json"}); err != nil {
		t.Fatal(err)
	}

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d, want 2", len(all))
	}
	if all[0].IsUploaded || !all[1].IsUploaded {
		t.Error("uploaded profiles must follow the base set")
	}
}

func TestStats(t *testing.T) {
	year2022, year2023 := 2022, 2023
	s := New()
	s.base = []models.Profile{
		{Temporal: models.Temporal{Year: &year2022}, Geospatial: models.Geospatial{RegionalSeas: []string{"Bay_of_Bengal"}}},
		{Temporal: models.Temporal{Year: &year2023}, Geospatial: models.Geospatial{RegionalSeas: []string{"Bay_of_Bengal", "Arabian_Sea"}}},
		{},
	}
	s.uploaded = []models.Profile{
		{Temporal: models.Temporal{Year: &year2023}, IsUploaded: true, UploadedFile: "c.json"},
	}

	got := s.Stats()
	want := Stats{Profiles: 4, Uploaded: 1, Years: 2, Regions: 2}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
