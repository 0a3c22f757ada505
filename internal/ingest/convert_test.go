package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/floatchat-ai/floatchat/internal/models"
)

func writeUpload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestJSONConverter(t *testing.T) {
	path := writeUpload(t, "cast.json", `{
		"temporal": {"year": 2023, "month": 8, "day": 15},
		"measurements": {"core_variables": {"TEMP": {"present": true}}}
	}`)

	p, err := JSONConverter{}.Convert(path)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if y := p.Temporal.Year; y == nil || *y != 2023 {
		t.Errorf("year = %v, want 2023", y)
	}
	if !p.HasCore(models.VarTemp) {
		t.Error("TEMP not decoded")
	}
	if p.IsUploaded {
		t.Error("converter must not set provenance")
	}
}

func TestJSONConverter_RejectsOtherExtensions(t *testing.T) {
	path := writeUpload(t, "cast.nc", "binary")
	_, err := JSONConverter{}.Convert(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestJSONConverter_RejectsEmptyProfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty object", `{}`, true},
		{"unrelated payload", `{"foo": "bar"}`, true},
		{"malformed", `{broken`, true},
		{"temporal only", `{"temporal": {"year": 2020}}`, false},
		{"measurements only", `{"measurements": {"core_variables": {"PSAL": {"present": true}}}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeUpload(t, "up.json", tt.content)
			_, err := JSONConverter{}.Convert(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTag(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	p := Tag(models.Profile{}, "cast.json", now)

	if !p.IsUploaded {
		t.Error("IsUploaded not set")
	}
	if p.UploadedFile != "cast.json" {
		t.Errorf("UploadedFile = %q", p.UploadedFile)
	}
	if p.UploadTimestamp == nil || !p.UploadTimestamp.Equal(now) {
		t.Errorf("UploadTimestamp = %v", p.UploadTimestamp)
	}
}
