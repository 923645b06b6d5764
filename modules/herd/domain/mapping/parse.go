package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/herdbook/pkg/constants"
	"github.com/iota-uz/herdbook/pkg/serrors"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", ErrInvalidMapping.Wrapf("unsupported mapping file extension %q", filepath.Ext(path))
	}
}

type document struct {
	Worksheets map[string]sheetDocument `json:"worksheets" yaml:"worksheets" toml:"worksheets"`
	Sheets     map[string]sheetDocument `json:"sheets" yaml:"sheets" toml:"sheets"`
}

type sheetDocument struct {
	Purpose string            `json:"purpose" yaml:"purpose" toml:"purpose"`
	Columns map[string]string `json:"columns" yaml:"columns" toml:"columns" validate:"dive,keys,required,endkeys,required"`
}

// Load reads and parses a mapping document, choosing the format by extension.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidMapping.Wrap(err)
	}
	return Parse(data, format)
}

// Parse decodes and validates a mapping document. Every failure wraps
// ErrInvalidMapping.
func Parse(data []byte, format Format) (*Config, error) {
	var doc document
	if err := decode(data, format, &doc); err != nil {
		return nil, ErrInvalidMapping.Wrap(err)
	}

	sheets := doc.Worksheets
	switch {
	case sheets != nil && doc.Sheets != nil:
		return nil, ErrInvalidMapping.Wrapf("document sets both %q and %q", "worksheets", "sheets")
	case sheets == nil && doc.Sheets != nil:
		sheets = doc.Sheets
	case sheets == nil:
		return nil, ErrInvalidMapping.Wrapf("document has no %q section", "worksheets")
	}

	errs := serrors.ValidationErrors{}
	cfg := &Config{Worksheets: make(map[string]Worksheet, len(sheets))}
	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sd := sheets[name]
		if strings.TrimSpace(name) == "" {
			errs["worksheets"] = "worksheet name is required"
			continue
		}
		if err := constants.Validate.Struct(sd); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return nil, ErrInvalidMapping.Wrap(err)
			}
			for field, msg := range serrors.ProcessValidatorErrors(verrs, func(string) string {
				return fmt.Sprintf("worksheets.%s.columns", name)
			}) {
				errs[field] = msg
			}
			continue
		}
		ws, ignored := normalize(name, sd)
		cfg.Worksheets[name] = ws
		cfg.Ignored = append(cfg.Ignored, ignored...)
	}
	if len(errs) > 0 {
		return nil, ErrInvalidMapping.Wrap(errs)
	}
	return cfg, nil
}

func normalize(name string, sd sheetDocument) (Worksheet, []string) {
	ws := Worksheet{
		Purpose: ParsePurpose(sd.Purpose),
		Columns: make(map[string]string, len(sd.Columns)),
	}
	if ws.Purpose == PurposeIgnore {
		return ws, nil
	}
	keys := make([]string, 0, len(sd.Columns))
	for k := range sd.Columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ignored []string
	for _, k := range keys {
		field, ok := CanonicalField(ws.Purpose, k)
		if !ok {
			ignored = append(ignored, name+"."+k)
			continue
		}
		col := strings.TrimSpace(sd.Columns[k])
		if col == "" {
			ignored = append(ignored, name+"."+k)
			continue
		}
		// Canonical keys win over a legacy alias mapping the same field.
		if _, dup := ws.Columns[field]; dup && k != field {
			continue
		}
		ws.Columns[field] = col
	}
	return ws, ignored
}

func decode(data []byte, format Format, doc *document) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, doc)
	case FormatYAML:
		return yaml.Unmarshal(data, doc)
	case FormatTOML:
		_, err := toml.Decode(string(data), doc)
		return err
	default:
		return fmt.Errorf("unsupported mapping format %q", format)
	}
}
