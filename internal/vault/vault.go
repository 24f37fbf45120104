// Package vault is the capped, obfuscated archive of captured snippets and
// analysis logs, kept as one encoded string under one key of a Backend.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/4upp/zart/internal/observability"
	"github.com/4upp/zart/internal/types"
	"go.uber.org/zap"
)

const (
	// DefaultKey is the backend key holding the whole archive.
	DefaultKey = "zart_archive_v1"
	// DefaultCapacity is the maximum number of archived entries.
	DefaultCapacity = 100
)

// ErrNoData is returned by ExportAll when there is nothing to export.
var ErrNoData = errors.New("no data in archive")

// Archive is the store abstraction consumers depend on.
type Archive interface {
	// Append adds an entry. It never fails outward; failures are logged.
	Append(ctx context.Context, entry Entry)
	// ReadAll returns the archived entries; malformed data reads as empty.
	ReadAll(ctx context.Context) []Entry
	// ExportAll serializes the archive as a downloadable JSON artifact.
	ExportAll(ctx context.Context) (*types.Artifact, error)
	// Clear removes the archive.
	Clear(ctx context.Context) error
}

// EntryKind distinguishes archive entries.
type EntryKind string

// Entry kinds.
const (
	KindSnippet EntryKind = "snippet"
	KindLog     EntryKind = "log"
)

// Entry is one archive element.
type Entry struct {
	Kind    EntryKind              `json:"kind"`
	Snippet *types.CapturedSnippet `json:"snippet,omitempty"`
	Log     *types.ArchiveLogEntry `json:"log,omitempty"`
}

// SnippetEntry wraps a captured snippet.
func SnippetEntry(s types.CapturedSnippet) Entry {
	return Entry{Kind: KindSnippet, Snippet: &s}
}

// LogEntry wraps an analysis log entry.
func LogEntry(l types.ArchiveLogEntry) Entry {
	return Entry{Kind: KindLog, Log: &l}
}

// Timestamp returns the entry's timestamp.
func (e Entry) Timestamp() string {
	switch {
	case e.Snippet != nil:
		return e.Snippet.Timestamp
	case e.Log != nil:
		return e.Log.Timestamp
	}
	return ""
}

// Summary is a one-line description for listings.
func (e Entry) Summary() string {
	switch {
	case e.Snippet != nil:
		return fmt.Sprintf("%s  snippet  %-20s  %d chars", e.Snippet.Timestamp, e.Snippet.Label, e.Snippet.Length)
	case e.Log != nil:
		return fmt.Sprintf("%s  log      %s (%s)", e.Log.Timestamp, e.Log.Extracted.Name, e.Log.Extracted.ID)
	}
	return string(e.Kind)
}

// Store implements Archive over a Backend and a Codec.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	codec    Codec
	key      string
	capacity int
	now      func() time.Time
	log      *zap.Logger
}

var _ Archive = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCodec replaces the default ObfuscationCodec.
func WithCodec(c Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithKey replaces DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithCapacity replaces DefaultCapacity.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock sets the time source used for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store over backend.
func New(backend Backend, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		backend:  backend,
		codec:    ObfuscationCodec{},
		key:      DefaultKey,
		capacity: DefaultCapacity,
		now:      time.Now,
		log:      logger.Named("vault"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append places a snippet at the tail or a log entry at the head, then drops
// the oldest entries beyond capacity.
func (s *Store) Append(ctx context.Context, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, _, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.fail("failed to read archive", err)
		return
	}
	entries := s.decode(raw)

	if entry.Kind == KindLog {
		entries = append([]Entry{entry}, entries...)
		if len(entries) > s.capacity {
			entries = entries[:s.capacity]
		}
	} else {
		entries = append(entries, entry)
		if len(entries) > s.capacity {
			entries = entries[len(entries)-s.capacity:]
		}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		s.fail("failed to serialize archive", err)
		return
	}
	if err := s.backend.Set(ctx, s.key, s.codec.Encode(string(data))); err != nil {
		s.fail("failed to write archive", err)
		return
	}
	s.log.Debug("Entry archived", zap.String("kind", string(entry.Kind)), zap.Int("entries", len(entries)))
}

// ReadAll returns the decoded archive. Backend and decode failures yield an
// empty slice.
func (s *Store) ReadAll(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.fail("failed to read archive", err)
		return []Entry{}
	}
	if !ok {
		return []Entry{}
	}
	return s.decode(raw)
}

// ExportAll returns the archive as pretty-printed JSON named
// SECURE_LOGS_<timestamp>.json. It returns ErrNoData when the archive is
// absent or empty.
func (s *Store) ExportAll(ctx context.Context) (*types.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.fail("failed to read archive for export", err)
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if !ok {
		return nil, ErrNoData
	}
	entries := s.decode(raw)
	if len(entries) == 0 {
		return nil, ErrNoData
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return &types.Artifact{
		Filename:    ExportFilename(s.now()),
		ContentType: types.ContentTypeJSON,
		Data:        data,
	}, nil
}

// Clear deletes the archive key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear archive: %w", err)
	}
	return nil
}

// decode turns a stored value into entries; anything malformed is empty.
func (s *Store) decode(raw string) []Entry {
	if raw == "" {
		return []Entry{}
	}
	plain, err := s.codec.Decode(raw)
	if err != nil {
		s.log.Warn("Archive payload could not be decoded, treating as empty", zap.Error(err))
		return []Entry{}
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(plain), &entries); err != nil {
		s.log.Warn("Archive payload is not a valid entry list, treating as empty", zap.Error(err))
		return []Entry{}
	}
	if entries == nil {
		return []Entry{}
	}
	return entries
}

func (s *Store) fail(msg string, err error) {
	observability.RecordArchiveFailure()
	s.log.Error(msg, zap.Error(err))
}

// ExportFilename returns the export artifact name for t.
func ExportFilename(t time.Time) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(types.FormatTimestamp(t))
	return "SECURE_LOGS_" + stamp + ".json"
}
