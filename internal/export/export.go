// Package export serializes profile result sets to interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/floatchat-ai/floatchat/internal/models"
)

// Format identifies an export target format.
type Format string

const (
	FormatASCII Format = "ascii"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatASCII:
		return FormatASCII, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q (ascii, csv, json, xlsx)", s)
	}
}

// Write serializes profiles to dir in the given format and returns the
// written path. The originating query is embedded in formats that carry
// metadata.
func Write(dir string, format Format, profiles []models.Profile, query string) (string, error) {
	if len(profiles) == 0 {
		return "", fmt.Errorf("no profiles to export")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	name := fmt.Sprintf("argo_export_%s.%s", time.Now().Format("20060102_150405"), format)
	path := filepath.Join(dir, name)

	var err error
	switch format {
	case FormatASCII:
		err = writeASCII(path, profiles, query)
	case FormatCSV:
		err = writeCSV(path, profiles)
	case FormatJSON:
		err = writeJSON(path, profiles, query)
	case FormatXLSX:
		err = writeXLSX(path, profiles)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeASCII(path string, profiles []models.Profile, query string) error {
	var b strings.Builder
	b.WriteString("ARGO PROFILE EXPORT\n")
	b.WriteString("===================\n")
	fmt.Fprintf(&b, "Query:    %s\n", query)
	fmt.Fprintf(&b, "Exported: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Profiles: %d\n\n", len(profiles))

	for i := range profiles {
		p := &profiles[i]
		fmt.Fprintf(&b, "Profile %d\n", i+1)
		fmt.Fprintf(&b, "  Date:    %s\n", p.Date())
		fmt.Fprintf(&b, "  Regions: %s\n", p.Regions())
		if p.UploadedFile != "" {
			fmt.Fprintf(&b, "  Source:  uploaded file %s\n", p.UploadedFile)
		}
		for _, row := range statRows(p) {
			fmt.Fprintf(&b, "  %-5s min=%s max=%s mean=%s\n", row.code+":", row.min, row.max, row.mean)
		}
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeCSV(path string, profiles []models.Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"date", "regions", "uploaded_file", "variable", "min", "max", "mean"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range profiles {
		p := &profiles[i]
		for _, row := range statRows(p) {
			record := []string{p.Date(), p.Regions(), p.UploadedFile, row.code, row.min, row.max, row.mean}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

func writeJSON(path string, profiles []models.Profile, query string) error {
	doc := struct {
		Query      string           `json:"query"`
		ExportedAt time.Time        `json:"exported_at"`
		Count      int              `json:"count"`
		Profiles   []models.Profile `json:"profiles"`
	}{
		Query:      query,
		ExportedAt: time.Now(),
		Count:      len(profiles),
		Profiles:   profiles,
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	return os.WriteFile(path, raw, 0644)
}

func writeXLSX(path string, profiles []models.Profile) error {
	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Profiles"
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Date", "Regions", "Uploaded File", "Variable", "Min", "Max", "Mean"}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rowIdx := 2
	for i := range profiles {
		p := &profiles[i]
		for _, row := range statRows(p) {
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			values := []any{p.Date(), p.Regions(), p.UploadedFile, row.code, row.min, row.max, row.mean}
			if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", rowIdx, err)
			}
			rowIdx++
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

type statRow struct {
	code, min, max, mean string
}

// statRows flattens a profile's present variables into one row per
// variable. Variables without statistics are skipped.
func statRows(p *models.Profile) []statRow {
	var rows []statRow
	collect := func(vars map[string]models.Variable) {
		for _, code := range sortedCodes(vars) {
			v := vars[code]
			if !v.Present || v.Statistics == nil {
				continue
			}
			rows = append(rows, statRow{
				code: code,
				min:  formatStat(v.Statistics.Min),
				max:  formatStat(v.Statistics.Max),
				mean: formatStat(v.Statistics.Mean),
			})
		}
	}
	collect(p.Measurements.CoreVariables)
	collect(p.Measurements.BGCVariables)
	return rows
}

func sortedCodes(vars map[string]models.Variable) []string {
	codes := make([]string, 0, len(vars))
	for code := range vars {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
