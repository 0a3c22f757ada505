// Package chat owns the interactive session: the profile snapshot, the
// transcript, and the per-query pipeline from intent extraction to the
// streamed LLM reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/floatchat-ai/floatchat/internal/export"
	"github.com/floatchat-ai/floatchat/internal/ingest"
	"github.com/floatchat-ai/floatchat/internal/llm"
	"github.com/floatchat-ai/floatchat/internal/metrics"
	"github.com/floatchat-ai/floatchat/internal/models"
	"github.com/floatchat-ai/floatchat/internal/search"
	"github.com/floatchat-ai/floatchat/internal/store"
)

// ErrBusy is returned when a query arrives while another is in flight.
// There is no cancellation of an in-flight request; the caller waits.
var ErrBusy = errors.New("a query is already being processed")

// ErrNothingToExport is returned when export is requested before any
// query has produced a result set.
var ErrNothingToExport = errors.New("no query results to export")

// NoRelevantDataMsg is the assistant reply when even the relaxed
// search finds nothing.
const NoRelevantDataMsg = "No relevant data found. Try specific regions, years, or parameters."

// Session is the per-process conversation state. It is used by one
// logical request at a time; the processing flag enforces single-flight
// and no locking is needed.
type Session struct {
	ID string

	store      *store.Store
	dispatcher *llm.Dispatcher
	converter  ingest.Converter
	exportDir  string
	collector  *metrics.Collector

	messages     []models.Message
	history      []string
	lastProfiles []models.Profile
	lastQuery    string
	activeFile   string
	processing   bool

	// OnNotice receives transient user-visible notices: search-window
	// widening, provider fallback.
	OnNotice func(string)
}

// NewSession builds a session over an already-loaded store.
func NewSession(st *store.Store, dispatcher *llm.Dispatcher, converter ingest.Converter, exportDir string) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		store:      st,
		dispatcher: dispatcher,
		converter:  converter,
		exportDir:  exportDir,
		collector:  metrics.NewCollector(),
	}
	dispatcher.OnNotice = s.notice
	return s
}

// Ask runs the full pipeline for one query: extract, search, summarize,
// dispatch, accumulate. onDelta is invoked for each streamed chunk; the
// accumulated reply is returned when the stream terminates. A second
// call while one is in flight fails with ErrBusy.
func (s *Session) Ask(ctx context.Context, query string, onDelta func(string)) (string, error) {
	if s.processing {
		return "", ErrBusy
	}
	s.processing = true
	defer func() { s.processing = false }()

	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: query, At: time.Now()})
	s.history = append(s.history, query)
	s.lastQuery = query

	searchStart := time.Now()
	contextData, found := s.buildContext(query)
	s.collector.RecordTiming(metrics.OpSearch, time.Since(searchStart))
	if !found {
		s.appendAssistant(NoRelevantDataMsg)
		if onDelta != nil {
			onDelta(NoRelevantDataMsg)
		}
		return NoRelevantDataMsg, nil
	}

	dispatchStart := time.Now()
	stream := s.dispatcher.Send(ctx, llm.SystemPrompt, contextData, query)
	var reply []byte
	for delta := range stream.Deltas() {
		if delta.Done {
			break
		}
		reply = append(reply, delta.Content...)
		if onDelta != nil {
			onDelta(delta.Content)
		}
	}

	full := string(reply)
	s.collector.RecordDispatch(time.Since(dispatchStart), len(contextData), len(full))
	s.appendAssistant(full)
	slog.Info("query answered", "session", s.ID, "reply_len", len(full))
	return full, nil
}

// buildContext searches the active corpus and summarizes the matches.
// The second return is false when nothing matched and the LLM should
// not be called.
func (s *Session) buildContext(query string) (string, bool) {
	if s.activeFile != "" {
		fileProfiles := s.store.ByUploadedFile(s.activeFile)
		if len(fileProfiles) > 0 {
			result := search.Search(query, fileProfiles)
			if result.Notice != "" {
				s.notice(result.Notice)
			}
			if len(result.Profiles) == 0 {
				return "", false
			}
			s.lastProfiles = result.Profiles
			prefix := fmt.Sprintf("Data from '%s': ", s.activeFile)
			return prefix + search.Summarize(result.Profiles, query), true
		}
	}

	result := search.Search(query, s.store.All())
	if result.Notice != "" {
		s.notice(result.Notice)
	}
	if len(result.Profiles) == 0 {
		return "", false
	}
	s.lastProfiles = result.Profiles
	return search.Summarize(result.Profiles, query), true
}

// Upload converts a raw measurement file, tags it with upload
// provenance, appends it to the session set, and makes it the active
// file filter.
func (s *Session) Upload(path string) error {
	start := time.Now()
	p, err := s.converter.Convert(path)
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	p = ingest.Tag(p, filename, time.Now())
	if err := s.store.AddUploaded(p); err != nil {
		return err
	}

	s.activeFile = filename
	s.collector.RecordTiming(metrics.OpUpload, time.Since(start))
	slog.Info("file uploaded", "session", s.ID, "file", filename)
	return nil
}

// Export writes the last result set to disk and returns the path.
func (s *Session) Export(format export.Format) (string, error) {
	if len(s.lastProfiles) == 0 {
		return "", ErrNothingToExport
	}
	start := time.Now()
	path, err := export.Write(s.exportDir, format, s.lastProfiles, s.lastQuery)
	if err != nil {
		return "", err
	}
	s.collector.RecordTiming(metrics.OpExport, time.Since(start))
	return path, nil
}

// ActiveFile returns the active uploaded-file filter, or "".
func (s *Session) ActiveFile() string { return s.activeFile }

// ClearActiveFile removes the uploaded-file filter; subsequent queries
// search the whole dataset again.
func (s *Session) ClearActiveFile() { s.activeFile = "" }

// Messages returns the transcript so far.
func (s *Session) Messages() []models.Message { return s.messages }

// History returns the raw queries issued this session.
func (s *Session) History() []string { return s.history }

// Stats reports dataset counts for the status display.
func (s *Session) Stats() store.Stats { return s.store.Stats() }

// Metrics reports pipeline timing aggregates for the status display.
func (s *Session) Metrics() metrics.Snapshot { return s.collector.Snapshot() }

// Reset clears the transcript and query history. The profile set,
// including uploads, is kept; uploads are append-only for the life of
// the session.
func (s *Session) Reset() {
	s.messages = nil
	s.history = nil
	s.lastProfiles = nil
	s.lastQuery = ""
}

func (s *Session) appendAssistant(content string) {
	s.messages = append(s.messages, models.Message{Role: models.RoleAssistant, Content: content, At: time.Now()})
}

func (s *Session) notice(msg string) {
	if s.OnNotice != nil {
		s.OnNotice(msg)
	}
}
