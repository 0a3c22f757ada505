// Package store holds the session-scoped in-memory profile collection.
//
// The base set is a read-only snapshot loaded once per session from a
// directory of ARGO interchange JSON files. Uploaded profiles are
// appended to a separate slice; the combined view is rebuilt on demand
// so the base snapshot is never mutated.
package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/floatchat-ai/floatchat/internal/models"
)

// Store owns the profile collection for one session. It is not safe for
// concurrent use; the chat session's single-flight discipline guarantees
// one logical request at a time.
type Store struct {
	base     []models.Profile
	uploaded []models.Profile
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// LoadDir walks dir recursively for *.json files and decodes each into a
// profile. Unreadable or undecodable files are skipped with a debug log,
// matching the tolerant bulk-load behavior of the dataset pipeline.
func (s *Store) LoadDir(dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("data path %s is not a directory", dir)
	}

	loaded := 0
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("skipping unreadable profile file", "path", path, "error", err)
			return nil
		}

		var p models.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			slog.Debug("skipping undecodable profile file", "path", path, "error", err)
			return nil
		}

		p.SourcePath = path
		s.base = append(s.base, p)
		loaded++
		return nil
	})
	if walkErr != nil {
		return loaded, fmt.Errorf("walk data dir: %w", walkErr)
	}

	slog.Info("profile data loaded", "dir", dir, "profiles", loaded)
	return loaded, nil
}

// AddUploaded appends an uploaded profile. ErrDuplicateUpload is
// returned when a profile with the same uploaded filename already
// exists; uploads are append-only and never replace earlier ones.
func (s *Store) AddUploaded(p models.Profile) error {
	for _, existing := range s.uploaded {
		if existing.UploadedFile == p.UploadedFile {
			return fmt.Errorf("%w: %s", ErrDuplicateUpload, p.UploadedFile)
		}
	}
	s.uploaded = append(s.uploaded, p)
	return nil
}

// All returns the combined base + uploaded view in ingestion order.
func (s *Store) All() []models.Profile {
	out := make([]models.Profile, 0, len(s.base)+len(s.uploaded))
	out = append(out, s.base...)
	out = append(out, s.uploaded...)
	return out
}

// Uploaded returns only the uploaded profiles.
func (s *Store) Uploaded() []models.Profile {
	out := make([]models.Profile, len(s.uploaded))
	copy(out, s.uploaded)
	return out
}

// ByUploadedFile returns the uploaded profiles tagged with filename.
func (s *Store) ByUploadedFile(filename string) []models.Profile {
	var out []models.Profile
	for _, p := range s.uploaded {
		if p.UploadedFile == filename {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarizes the dataset for the status display.
type Stats struct {
	Profiles int
	Uploaded int
	Years    int
	Regions  int
}

// Stats computes dataset counts over the combined view.
func (s *Store) Stats() Stats {
	years := map[int]struct{}{}
	regions := map[string]struct{}{}
	all := s.All()
	for i := range all {
		if y := all[i].Temporal.Year; y != nil {
			years[*y] = struct{}{}
		}
		for _, r := range all[i].Geospatial.RegionalSeas {
			regions[r] = struct{}{}
		}
	}
	return Stats{
		Profiles: len(all),
		Uploaded: len(s.uploaded),
		Years:    len(years),
		Regions:  len(regions),
	}
}
