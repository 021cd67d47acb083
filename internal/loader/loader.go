// Package loader reads the country source file and builds the Dataset.
//
// Any failure here is fatal to startup: the service never serves traffic
// from a partially loaded or malformed dataset, and nothing is retried.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/countries/internal/country"
	"github.com/dreamware/countries/internal/logging"
)

var (
	// ErrRead is returned when the source cannot be opened or read
	ErrRead = errors.New("read dataset")

	// ErrDecode is returned when the source is not an array of valid country records
	ErrDecode = errors.New("decode dataset")

	// ErrDuplicateID is returned in strict mode when two records share an id
	ErrDuplicateID = errors.New("duplicate country id")
)

// Format is the encoding of a source file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from the file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type options struct {
	logger    *slog.Logger
	strictIDs bool
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger used for load progress and validation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrictIDs makes Load fail with ErrDuplicateID when an id repeats,
// instead of keeping the last record in the index.
func WithStrictIDs(strict bool) Option {
	return func(o *options) {
		o.strictIDs = strict
	}
}

// Report is the outcome of inspecting a source file: the Dataset plus the
// problems that did not stop it from loading.
type Report struct {
	Path       string
	Format     Format
	Dataset    *country.Dataset
	Warnings   []Warning
	Duplicates []uint8
}

// Load reads the file at path and returns the Dataset built from it.
func Load(ctx context.Context, path string, opts ...Option) (*country.Dataset, error) {
	rep, err := Inspect(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return rep.Dataset, nil
}

// Inspect reads and validates the file at path the same way Load does and
// returns everything it found. Warnings and duplicate ids are logged; in
// strict mode duplicate ids fail with ErrDuplicateID.
func Inspect(ctx context.Context, path string, opts ...Option) (*Report, error) {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	rep := &Report{Path: path, Format: FormatFromPath(path)}
	records, err := Decode(f, rep.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rep.Warnings = Validate(records)
	for _, w := range rep.Warnings {
		o.logger.Warn("suspicious country record", "index", w.Index, "id", w.ID, "problem", w.Message)
	}

	rep.Dataset = country.NewDataset(records)
	rep.Duplicates = rep.Dataset.Duplicates()
	if len(rep.Duplicates) > 0 {
		if o.strictIDs {
			return nil, fmt.Errorf("%s: %w: %v", path, ErrDuplicateID, rep.Duplicates)
		}
		o.logger.Warn("duplicate country ids; lookups return the last record for each", "ids", rep.Duplicates)
	}

	o.logger.Info("dataset loaded", "path", path, "format", rep.Format.String(), "countries", rep.Dataset.Len())
	return rep, nil
}

// Decode reads a top-level array of country records from r.
func Decode(r io.Reader, format Format) ([]country.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if format == FormatYAML {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) ([]country.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrDecode)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	records := make([]country.Record, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &records[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrDecode, i, err)
		}
	}
	return records, nil
}

func decodeYAML(data []byte) ([]country.Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: top-level value is not a sequence", ErrDecode)
	}

	items := doc.Content[0].Content
	records := make([]country.Record, len(items))
	for i, item := range items {
		if err := item.Decode(&records[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrDecode, i, err)
		}
	}
	return records, nil
}
