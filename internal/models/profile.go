// Package models defines data structures for ARGO float profiles and chat messages.
package models

import (
	"time"
)

// Core variable codes as they appear in the ARGO interchange JSON.
const (
	VarTemp     = "TEMP"
	VarSalinity = "PSAL"
	VarPressure = "PRES"
	VarOxygen   = "DOXY"
	VarChla     = "CHLA"
)

// Statistics holds summary statistics for one measured variable.
type Statistics struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Variable describes one measured quantity within a profile.
// Statistics is nil when the source file carried no summary block.
type Variable struct {
	Present    bool        `json:"present"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

// Temporal holds the measurement timestamp. Year/Month/Day are pointers
// because source files may omit any of them; a profile missing year or
// month is excluded from time grouping but still eligible for
// keyword/region/parameter scoring.
type Temporal struct {
	Year     *int   `json:"year,omitempty"`
	Month    *int   `json:"month,omitempty"`
	Day      *int   `json:"day,omitempty"`
	Datetime string `json:"datetime,omitempty"`
}

// Geospatial holds the profile location metadata.
type Geospatial struct {
	RegionalSeas []string `json:"regional_seas,omitempty"`
}

// Measurements groups variables by class: core physical variables
// (TEMP, PSAL, PRES, DOXY) and biogeochemical variables (CHLA, NITRATE).
type Measurements struct {
	CoreVariables map[string]Variable `json:"core_variables,omitempty"`
	BGCVariables  map[string]Variable `json:"bgc_variables,omitempty"`
}

// Profile is one oceanographic measurement event. Profiles are immutable
// after ingestion; uploaded profiles are appended to the session set,
// never merged into it.
type Profile struct {
	Temporal     Temporal     `json:"temporal"`
	Geospatial   Geospatial   `json:"geospatial"`
	Measurements Measurements `json:"measurements"`

	// Provenance
	SourcePath      string     `json:"_file_path,omitempty"`
	IsUploaded      bool       `json:"_is_uploaded,omitempty"`
	UploadedFile    string     `json:"_uploaded_filename,omitempty"`
	UploadTimestamp *time.Time `json:"_upload_timestamp,omitempty"`
}

// CoreVar returns the named core variable, reporting whether the nested
// measurement block exists at all.
func (p *Profile) CoreVar(code string) (Variable, bool) {
	if p.Measurements.CoreVariables == nil {
		return Variable{}, false
	}
	v, ok := p.Measurements.CoreVariables[code]
	return v, ok
}

// BGCVar returns the named biogeochemical variable.
func (p *Profile) BGCVar(code string) (Variable, bool) {
	if p.Measurements.BGCVariables == nil {
		return Variable{}, false
	}
	v, ok := p.Measurements.BGCVariables[code]
	return v, ok
}

// HasCore reports whether the named core variable is marked present.
func (p *Profile) HasCore(code string) bool {
	v, ok := p.CoreVar(code)
	return ok && v.Present
}

// HasBGC reports whether the named BGC variable is marked present.
func (p *Profile) HasBGC(code string) bool {
	v, ok := p.BGCVar(code)
	return ok && v.Present
}

// Date returns the profile's ISO datetime truncated to the day, or
// "unknown" when no datetime was recorded.
func (p *Profile) Date() string {
	if p.Temporal.Datetime == "" {
		return "unknown"
	}
	if len(p.Temporal.Datetime) > 10 {
		return p.Temporal.Datetime[:10]
	}
	return p.Temporal.Datetime
}

// Regions returns the profile's region names joined for display,
// defaulting to "Ocean" when none are recorded.
func (p *Profile) Regions() string {
	if len(p.Geospatial.RegionalSeas) == 0 {
		return "Ocean"
	}
	out := p.Geospatial.RegionalSeas[0]
	for _, r := range p.Geospatial.RegionalSeas[1:] {
		out += ", " + r
	}
	return out
}
