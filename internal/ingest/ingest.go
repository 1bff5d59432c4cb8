// Package ingest reads raw question records from files.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yksassistant/hakem/internal/model"
)

// Format is a record file encoding
type Format string

const (
	FormatJSON  Format = "json"  // one object or an array of objects
	FormatJSONL Format = "jsonl" // one object per line
	FormatYAML  Format = "yaml"  // one mapping, a sequence, or a multi-document stream
	FormatHTML  Format = "html"  // question markup, see HTMLRegistry
)

// DetectFormat picks a format from the file extension, then from the content
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	case ".html", ".htm":
		return FormatHTML
	case ".json":
		return FormatJSON
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return FormatJSON
	case trimmed[0] == '<':
		return FormatHTML
	case trimmed[0] == '[':
		return FormatJSON
	case trimmed[0] == '{':
		// several top-level objects on separate lines
		if i := bytes.IndexByte(trimmed, '\n'); i > 0 && bytes.HasSuffix(bytes.TrimSpace(trimmed[:i]), []byte("}")) {
			return FormatJSONL
		}
		return FormatJSON
	default:
		return FormatYAML
	}
}

// ReadFile reads every record from a file; "-" reads standard input
func ReadFile(path string) ([]model.RawQuestion, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Decode(data, DetectFormat(path, data))
}

// Decode parses records in the given format
func Decode(data []byte, format Format) ([]model.RawQuestion, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatJSONL:
		return decodeJSONL(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatHTML:
		return DecodeHTML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func decodeJSON(data []byte) ([]model.RawQuestion, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var raws []model.RawQuestion
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode JSON array: %w", err)
		}
		return raws, nil
	}

	var raw model.RawQuestion
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}
	return []model.RawQuestion{raw}, nil
}

func decodeJSONL(data []byte) ([]model.RawQuestion, error) {
	var raws []model.RawQuestion

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())

		// Skip empty lines and comments
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		var raw model.RawQuestion
		if err := json.Unmarshal(text, &raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		raws = append(raws, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan JSONL: %w", err)
	}

	return raws, nil
}

// decodeYAML routes each document through JSON so YAML records get the same
// tolerant field coercion as JSON ones
func decodeYAML(data []byte) ([]model.RawQuestion, error) {
	var raws []model.RawQuestion

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc any
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
		if doc == nil {
			continue
		}

		items := []any{doc}
		if seq, ok := doc.([]any); ok {
			items = seq
		}
		for i, item := range items {
			buf, err := json.Marshal(jsonSafe(item))
			if err != nil {
				return nil, fmt.Errorf("YAML record %d: %w", len(raws)+i+1, err)
			}
			var raw model.RawQuestion
			if err := json.Unmarshal(buf, &raw); err != nil {
				return nil, fmt.Errorf("YAML record %d: %w", len(raws)+i+1, err)
			}
			raws = append(raws, raw)
		}
	}

	return raws, nil
}

// jsonSafe rewrites YAML values JSON cannot hold: mappings with non-string
// keys get stringified keys and non-finite floats become null
func jsonSafe(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = jsonSafe(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = jsonSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = jsonSafe(e)
		}
		return out
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	default:
		return v
	}
}
