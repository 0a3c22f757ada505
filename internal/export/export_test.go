package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/floatchat-ai/floatchat/internal/models"
)

func sampleProfiles() []models.Profile {
	year, month, day := 2023, 3, 15
	return []models.Profile{
		{
			Temporal:   models.Temporal{Year: &year, Month: &month, Day: &day, Datetime: "2023-03-15T10:00:00"},
			Geospatial: models.Geospatial{RegionalSeas: []string{"Bay_of_Bengal"}},
			Measurements: models.Measurements{
				CoreVariables: map[string]models.Variable{
					models.VarTemp:     {Present: true, Statistics: &models.Statistics{Min: 20, Max: 28.5, Mean: 24.3}},
					models.VarSalinity: {Present: true, Statistics: &models.Statistics{Min: 34.5, Max: 35.2, Mean: 34.9}},
					models.VarPressure: {Present: true}, // no statistics, must be skipped
				},
				BGCVariables: map[string]models.Variable{
					models.VarChla: {Present: true, Statistics: &models.Statistics{Min: 0.1, Max: 0.8, Mean: 0.3}},
				},
			},
		},
		{
			Temporal:     models.Temporal{Datetime: "2023-04-02T00:00:00"},
			IsUploaded:   true,
			UploadedFile: "cast.json",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"ascii", FormatASCII, false},
		{"json", FormatJSON, false},
		{"xlsx", FormatXLSX, false},
		{"parquet", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWrite_RejectsEmptySet(t *testing.T) {
	if _, err := Write(t.TempDir(), FormatCSV, nil, "q"); err == nil {
		t.Error("expected error for empty profile set")
	}
}

func TestWrite_ASCII(t *testing.T) {
	path, err := Write(t.TempDir(), FormatASCII, sampleProfiles(), "temperature bay of bengal")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Ext(path) != ".ascii" {
		t.Errorf("path = %q, want .ascii extension", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	for _, want := range []string{
		"ARGO PROFILE EXPORT",
		"Query:    temperature bay of bengal",
		"Profiles: 2",
		"Date:    2023-03-15",
		"Regions: Bay_of_Bengal",
		"Source:  uploaded file cast.json",
		"min=20.00 max=28.50 mean=24.30",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "PRES") {
		t.Error("stat-less variable exported")
	}
}

func TestWrite_CSV(t *testing.T) {
	path, err := Write(t.TempDir(), FormatCSV, sampleProfiles(), "q")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	// Header plus one row per variable with statistics: PSAL, TEMP, CHLA.
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	if records[0][0] != "date" || records[0][3] != "variable" {
		t.Errorf("header = %v", records[0])
	}

	// Core codes come sorted, then BGC codes.
	wantVars := []string{"PSAL", "TEMP", "CHLA"}
	for i, want := range wantVars {
		if records[i+1][3] != want {
			t.Errorf("row %d variable = %q, want %q", i+1, records[i+1][3], want)
		}
	}
	if records[2][4] != "20.00" || records[2][5] != "28.50" || records[2][6] != "24.30" {
		t.Errorf("TEMP row = %v", records[2])
	}
}

func TestWrite_JSON(t *testing.T) {
	path, err := Write(t.TempDir(), FormatJSON, sampleProfiles(), "salinity 2023")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Query    string           `json:"query"`
		Count    int              `json:"count"`
		Profiles []models.Profile `json:"profiles"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.Query != "salinity 2023" {
		t.Errorf("query = %q", doc.Query)
	}
	if doc.Count != 2 || len(doc.Profiles) != 2 {
		t.Errorf("count = %d, profiles = %d", doc.Count, len(doc.Profiles))
	}
	if !doc.Profiles[0].HasCore(models.VarTemp) {
		t.Error("profile detail lost in round trip")
	}
	if doc.Profiles[1].UploadedFile != "cast.json" {
		t.Error("upload provenance lost in round trip")
	}
}

func TestWrite_XLSX(t *testing.T) {
	path, err := Write(t.TempDir(), FormatXLSX, sampleProfiles(), "q")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("workbook is empty")
	}
	if filepath.Ext(path) != ".xlsx" {
		t.Errorf("path = %q, want .xlsx extension", path)
	}
}

func TestWrite_CreatesExportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	if _, err := Write(dir, FormatJSON, sampleProfiles(), "q"); err != nil {
		t.Fatalf("Write into missing dir: %v", err)
	}
}
