package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrSchema is wrapped by every error caused by a document that violates the schema.
var ErrSchema = errors.New("catalog schema violation")

// Loader reads the record catalog and the jurisdiction table.
type Loader struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// LoadAll loads records and jurisdictions concurrently. Either both succeed or an error is returned.
func (l *Loader) LoadAll(ctx context.Context, recordsLocation, jurisdictionsLocation string) (*Records, *Jurisdictions, error) {
	var (
		records       *Records
		jurisdictions *Jurisdictions
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = l.LoadRecords(ctx, recordsLocation)
		return err
	})
	g.Go(func() error {
		var err error
		jurisdictions, err = l.LoadJurisdictions(ctx, jurisdictionsLocation)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return records, jurisdictions, nil
}

func (l *Loader) LoadRecords(ctx context.Context, location string) (*Records, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("reading records from %q: %w", location, err)
	}

	records, err := ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("parsing records from %q: %w", location, err)
	}

	l.logger.Info("records loaded",
		zap.String("source", location),
		zap.Int("count", records.Len()),
		zap.Int("jurisdictions", len(records.Jurisdictions())),
	)

	return records, nil
}

func (l *Loader) LoadJurisdictions(ctx context.Context, location string) (*Jurisdictions, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("reading jurisdictions from %q: %w", location, err)
	}

	jurisdictions, err := ParseJurisdictions(data, formatOf(location))
	if err != nil {
		return nil, fmt.Errorf("parsing jurisdictions from %q: %w", location, err)
	}

	l.logger.Info("jurisdictions loaded", zap.String("source", location), zap.Int("count", jurisdictions.Len()))

	return jurisdictions, nil
}

// Format of a jurisdiction document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(location string) Format {
	if i := strings.IndexAny(location, "?#"); i >= 0 && isURL(location) {
		location = location[:i]
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseRecords decodes a JSON array of record objects. The whole document is
// rejected when any record violates the schema.
func ParseRecords(data []byte) (*Records, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	type key struct {
		jurisdiction string
		code         int
	}
	seen := make(map[key]int, len(raw))

	items := make([]Record, 0, len(raw))
	for i, obj := range raw {
		rec, err := decodeRecord(obj)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		k := key{strings.ToLower(rec.Jurisdiction), rec.JobCode}
		if prev, ok := seen[k]; ok {
			return nil, fmt.Errorf("%w: record %d: duplicate of record %d (%s/%d)", ErrSchema, i, prev, rec.Jurisdiction, rec.JobCode)
		}
		seen[k] = i

		items = append(items, rec)
	}

	return &Records{Items: items}, nil
}

// decodeRecord renames wire keys through recordFields and decodes the result into a Record.
func decodeRecord(obj map[string]any) (Record, error) {
	var rec Record

	renamed := make(map[string]any, len(obj))
	var grades []any

	for wire, raw := range obj {
		spec, ok := recordFieldsByWire[wire]
		if !ok {
			return rec, fmt.Errorf("%w: unknown field %q", ErrSchema, wire)
		}

		value, err := convertValue(spec.Kind, raw)
		if err != nil {
			return rec, fmt.Errorf("%w: field %q: %v", ErrSchema, wire, err)
		}
		if value == nil {
			continue
		}

		if spec.Index >= 0 {
			if grades == nil {
				grades = make([]any, NumSalaryGrades)
			}
			grades[spec.Index] = value
			renamed[spec.Field] = grades
			continue
		}
		renamed[spec.Field] = value
	}

	for _, spec := range recordFields {
		if !spec.Required {
			continue
		}
		if _, ok := renamed[spec.Field]; !ok {
			return rec, fmt.Errorf("%w: missing required field %q", ErrSchema, spec.Wire)
		}
	}

	if jurisdiction, _ := renamed["Jurisdiction"].(string); jurisdiction == "" {
		return rec, fmt.Errorf("%w: field %q is empty", ErrSchema, "jurisdiction")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &rec,
		ErrorUnused: true,
	})
	if err != nil {
		return rec, err
	}

	if err := decoder.Decode(renamed); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	return rec, nil
}

// ParseJurisdictions accepts either a code to name mapping or a list of {code, name} objects.
func ParseJurisdictions(data []byte, format Format) (*Jurisdictions, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
	}

	var items []Jurisdiction
	switch v := doc.(type) {
	case map[string]any:
		codes := make([]string, 0, len(v))
		for code := range v {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			name, ok := v[code].(string)
			if !ok {
				return nil, fmt.Errorf("%w: jurisdiction %q: name must be a string", ErrSchema, code)
			}
			items = append(items, Jurisdiction{Code: code, Name: name})
		}
	case []any:
		if err := mapstructure.Decode(v, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
	default:
		return nil, fmt.Errorf("%w: jurisdictions must be a mapping or a list, got %T", ErrSchema, doc)
	}

	seen := make(map[string]bool, len(items))
	for i := range items {
		items[i].Code = strings.TrimSpace(items[i].Code)
		items[i].Name = strings.TrimSpace(items[i].Name)
		if items[i].Code == "" || items[i].Name == "" {
			return nil, fmt.Errorf("%w: jurisdiction %d: code and name are required", ErrSchema, i)
		}
		if seen[strings.ToLower(items[i].Code)] {
			return nil, fmt.Errorf("%w: duplicate jurisdiction code %q", ErrSchema, items[i].Code)
		}
		seen[strings.ToLower(items[i].Code)] = true
	}

	return &Jurisdictions{Items: items}, nil
}
