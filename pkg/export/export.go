// Package export saves a finished lookup as a JSON or YAML document
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"instarecon/pkg/recon"
)

// Format is a supported export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the exported form of a lookup
type Document struct {
	Query        Query                  `json:"query" yaml:"query"`
	UserID       string                 `json:"user_id" yaml:"user_id"`
	FetchedAt    time.Time              `json:"fetched_at" yaml:"fetched_at"`
	Profile      map[string]interface{} `json:"profile" yaml:"profile"`
	Contact      map[string]interface{} `json:"contact,omitempty" yaml:"contact,omitempty"`
	ContactError string                 `json:"contact_error,omitempty" yaml:"contact_error,omitempty"`
}

// Query records what was looked up
type Query struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// FormatFor picks the encoding from the file extension
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: use .json, .yaml or .yml", ext)
	}
}

// NewDocument converts a lookup result into its exported form
func NewDocument(res *recon.Result) *Document {
	doc := &Document{
		Query: Query{
			Kind:  res.Query.Kind().String(),
			Value: res.Query.Value(),
		},
		UserID:    res.UserID,
		FetchedAt: res.FetchedAt,
		Profile:   res.Profile,
		Contact:   res.Contact.Payload,
	}
	if res.Contact.Err != nil {
		doc.ContactError = res.Contact.Err.Error()
	}
	return doc
}

// Write encodes res to path. Parent directories are created and the file is
// replaced atomically with owner-only permissions.
func Write(path string, res *recon.Result) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(NewDocument(res), format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary export file: %w", err)
	}
	tempPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write export: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync export file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close export file: %w", err)
	}

	if err := os.Chmod(tempPath, 0600); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set export permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace export file: %w", err)
	}

	return nil
}

// Encode serializes doc in the given format
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal export: %w", err)
		}
		return append(data, '\n'), nil

	case FormatYAML:
		// json.Number is a string type and yaml would quote it
		plain := *doc
		plain.Profile = plainNumbers(doc.Profile)
		plain.Contact = plainNumbers(doc.Contact)

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&plain); err != nil {
			return nil, fmt.Errorf("failed to marshal export: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal export: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// plainNumbers returns a copy of m with json.Number values converted to
// int64 or float64
func plainNumbers(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		return plainNumbers(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}
