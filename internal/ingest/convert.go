// Package ingest converts user-uploaded measurement files into profiles.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/floatchat-ai/floatchat/internal/models"
)

// ErrUnsupportedFormat is returned for upload formats no converter handles.
var ErrUnsupportedFormat = errors.New("unsupported upload format")

// Converter turns one raw uploaded measurement file into a profile.
// Implementations validate the payload but do not set provenance; the
// caller tags the result before appending it to the session set.
type Converter interface {
	Convert(path string) (models.Profile, error)
}

// JSONConverter reads profiles already in the ARGO interchange JSON
// form produced by the NetCDF conversion pipeline.
type JSONConverter struct{}

// Convert decodes path into a profile. The file must contain a single
// profile object with at least a temporal or measurements block.
func (JSONConverter) Convert(path string) (models.Profile, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return models.Profile{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Profile{}, fmt.Errorf("read upload: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Profile{}, fmt.Errorf("decode upload: %w", err)
	}

	if p.Temporal == (models.Temporal{}) && p.Measurements.CoreVariables == nil && p.Measurements.BGCVariables == nil {
		return models.Profile{}, fmt.Errorf("decode upload: no profile data in %s", filepath.Base(path))
	}

	return p, nil
}

// Tag stamps upload provenance onto a converted profile.
func Tag(p models.Profile, filename string, now time.Time) models.Profile {
	p.IsUploaded = true
	p.UploadedFile = filename
	p.UploadTimestamp = &now
	return p
}
