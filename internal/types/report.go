package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ThreatLevel is the severity shown on a scan report.
type ThreatLevel string

// Threat levels in ascending severity.
const (
	ThreatLow      ThreatLevel = "Low"
	ThreatMedium   ThreatLevel = "Medium"
	ThreatHigh     ThreatLevel = "High"
	ThreatCritical ThreatLevel = "Critical"
)

// ThreatLevels lists every level in ascending severity.
var ThreatLevels = []ThreatLevel{ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical}

// MetadataField is one key/value pair of report metadata.
type MetadataField struct {
	Key   string
	Value string
}

// Metadata is an ordered string mapping. It marshals to a JSON object whose
// keys keep insertion order.
type Metadata []MetadataField

// Get returns the value for key.
func (m Metadata) Get(key string) (string, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value for key or appends a new field.
func (m Metadata) Set(key, value string) Metadata {
	for i, f := range m {
		if f.Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, MetadataField{Key: key, Value: value})
}

// MarshalJSON writes the fields as an object in order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the key order of the document.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata must be a JSON object")
	}

	var out Metadata
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("metadata key must be a string")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("metadata value for %q: %w", key, err)
		}
		out = append(out, MetadataField{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// ScanReport is the report produced by an analysis cycle.
type ScanReport struct {
	ThreatLevel ThreatLevel `json:"threatLevel"`
	Summary     string      `json:"summary"`
	Metadata    Metadata    `json:"metadata"`
}

// Report is what a report source hands back to the state machine: the scan
// report and, when an extraction service produced it, the extracted record.
type Report struct {
	Scan      ScanReport       `json:"scan"`
	Extracted *ExtractedRecord `json:"extracted,omitempty"`
}

// ScanResult is the merged payload of a completed cycle.
type ScanResult struct {
	FileName       string           `json:"fileName"`
	FileSize       string           `json:"fileSize"`
	ThreatLevel    ThreatLevel      `json:"threatLevel"`
	Summary        string           `json:"summary"`
	Metadata       Metadata         `json:"metadata"`
	DownloadSizeKB int              `json:"downloadSizeKb"`
	Extracted      *ExtractedRecord `json:"extracted,omitempty"`
	Exported       bool             `json:"exported,omitempty"`
}

// FormatFileSize renders an input length as kilobytes with two decimals.
func FormatFileSize(length int) string {
	return fmt.Sprintf("%.2f KB", float64(length)/1024)
}
