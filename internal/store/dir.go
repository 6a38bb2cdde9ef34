package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Format selects the DirSink file encoding.
type Format string

// Supported DirSink formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DirSink writes each collection to <dir>/<name>.<format>.
type DirSink struct {
	dir    string
	format Format
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string, format Format) (*DirSink, error) {
	switch format {
	case FormatJSON, FormatYAML:
	case "":
		format = FormatJSON
	default:
		return nil, eris.Errorf("store: unsupported format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "store: create output dir %s", dir)
	}
	return &DirSink{dir: dir, format: format}, nil
}

// Path returns the file a collection is written to.
func (s *DirSink) Path(name string) string {
	return filepath.Join(s.dir, name+"."+string(s.format))
}

// Write encodes records and replaces the collection file.
func (s *DirSink) Write(ctx context.Context, name string, records any) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "store: write %s", name)
	}

	var buf bytes.Buffer
	switch s.format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return eris.Wrapf(err, "store: encode %s as yaml", name)
		}
		if err := enc.Close(); err != nil {
			return eris.Wrapf(err, "store: encode %s as yaml", name)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(records); err != nil {
			return eris.Wrapf(err, "store: encode %s as json", name)
		}
	}

	if err := os.WriteFile(s.Path(name), buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "store: write %s", s.Path(name))
	}
	return nil
}

// Close is a no-op; files are complete after each Write.
func (s *DirSink) Close() error { return nil }
