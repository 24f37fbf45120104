// Package types provides type definitions for structured data shared by the capture, archive and analysis packages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for every archived timestamp
// (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// labelRunes is the number of leading characters kept as a snippet label.
const labelRunes = 20

// UntitledLabel is used when a snippet has no usable label characters.
const UntitledLabel = "Untitled Snippet"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ExtractedRecord is the name/identifier pair produced by analysis, real or
// fabricated. The service reports "not found" with the NotFound sentinel
// rather than an error.
type ExtractedRecord struct {
	Name string `json:"gameName" validate:"required"`
	ID   string `json:"gameId" validate:"required"`
}

// NotFound is the sentinel the extraction service returns for missing fields.
const NotFound = "N/A"

// CapturedSnippet is a silently captured piece of input text.
type CapturedSnippet struct {
	Label     string `json:"label"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Length    int    `json:"length"`
}

// NewCapturedSnippet builds a snippet for content captured at now.
func NewCapturedSnippet(content string, now time.Time) CapturedSnippet {
	return CapturedSnippet{
		Label:     SnippetLabel(content),
		Content:   content,
		Timestamp: FormatTimestamp(now),
		Length:    len([]rune(content)),
	}
}

// SnippetLabel returns the first 20 characters of content with newlines
// replaced by spaces.
func SnippetLabel(content string) string {
	runes := []rune(content)
	if len(runes) > labelRunes {
		runes = runes[:labelRunes]
	}
	label := strings.ReplaceAll(string(runes), "\n", " ")
	if label == "" {
		return UntitledLabel
	}
	return label
}

// ArchiveLogEntry records a completed analysis: the raw pasted text and what
// was extracted from it.
type ArchiveLogEntry struct {
	Timestamp string          `json:"timestamp"`
	Packet    string          `json:"packet"`
	Extracted ExtractedRecord `json:"extracted"`
}

// NewArchiveLogEntry builds a log entry stamped with now.
func NewArchiveLogEntry(packet string, extracted ExtractedRecord, now time.Time) ArchiveLogEntry {
	return ArchiveLogEntry{
		Timestamp: FormatTimestamp(now),
		Packet:    packet,
		Extracted: extracted,
	}
}
