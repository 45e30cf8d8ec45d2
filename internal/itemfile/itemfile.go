// Package itemfile reads and writes item collections as JSONC or YAML
// documents of the form {"items": [...]}.
package itemfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/backlog/internal/item"
)

// ErrUnsupportedFormat reports a file extension other than
// .json, .jsonc, .yaml or .yml.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is an on-disk encoding.
type Format int

// Supported formats.
const (
	FormatJSON Format = iota + 1
	FormatYAML
)

type document struct {
	Items []item.Item `json:"items" yaml:"items"`
}

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Read loads and validates the items in path. JSON files may contain
// comments and trailing commas.
func Read(path string) ([]item.Item, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	items, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}

	return items, nil
}

// Decode parses and validates an item document.
func Decode(data []byte, format Format) ([]item.Item, error) {
	var doc document

	switch format {
	case FormatJSON:
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONC: %w", err)
		}

		err = json.Unmarshal(standardized, &doc)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		err := yaml.Unmarshal(data, &doc)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}

	if doc.Items == nil {
		doc.Items = []item.Item{}
	}

	for i := range doc.Items {
		doc.Items[i].Normalize()
	}

	err := item.ValidateAll(doc.Items)
	if err != nil {
		return nil, err
	}

	return doc.Items, nil
}

// Encode renders items in the given format.
func Encode(items []item.Item, format Format) ([]byte, error) {
	doc := document{Items: items}
	if doc.Items == nil {
		doc.Items = []item.Item{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode JSON: %w", err)
		}

		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}

		return data, nil
	}

	return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
}

// Write replaces path with the encoded items. Readers never observe a
// partially written file.
func Write(path string, items []item.Item) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(items, format)
	if err != nil {
		return err
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("write items: %w", err)
	}

	return nil
}
