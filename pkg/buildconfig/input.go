package buildconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultValgrindArguments are passed to valgrind when the configuration
// doesn't override them with a "valgrind_arguments" list.
var DefaultValgrindArguments = []string{
	"--leak-check=full",
	"--show-reachable=yes",
	"--track-origins=yes",
}

// Doc is an input configuration document. It is an explicit extension bag:
// top-level keys the pipeline doesn't recognize are carried through to the
// persisted record untouched, so projects can keep their own metadata next
// to the keys the pipeline reads.
type Doc map[string]any

// TestSpec is one entry of the "tests" list.
type TestSpec struct {
	Cmd      []string `json:"cmd"`
	Optional bool     `json:"optional,omitempty"`
}

// LoadInput reads and validates a configuration file. Both YAML and JSON
// are accepted (JSON parses as YAML). The returned document holds plain
// JSON-shaped values, so saving it into the record later re-encodes it
// without surprises.
func LoadInput(path string) (Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Doc{}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	doc, err := normalizeDoc(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := validateInput(doc); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return doc, nil
}

// normalizeDoc round-trips the YAML-decoded document through JSON so that
// the value types match what a JSON decode would have produced. Schema
// validation and record persistence both assume JSON-shaped values.
func normalizeDoc(raw map[string]any) (Doc, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var doc Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Tests returns the configured test list. An absent key is an empty list.
func (d Doc) Tests() ([]TestSpec, error) {
	raw, ok := d["tests"]
	if !ok {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid tests section: %w", err)
	}
	var tests []TestSpec
	if err := json.Unmarshal(data, &tests); err != nil {
		return nil, fmt.Errorf("invalid tests section: %w", err)
	}
	return tests, nil
}

// ValgrindArguments returns the configured valgrind argument list, or the
// defaults when the configuration doesn't carry one.
func (d Doc) ValgrindArguments() []string {
	raw, ok := d["valgrind_arguments"]
	if !ok {
		return DefaultValgrindArguments
	}
	return stringList(raw)
}

// DiagnosticDefinitions returns the extra cmake definitions configured for
// a diagnostics mode (the "diagnostics.<mode>.definitions" extension
// point). A single string is treated as a one-element list.
func (d Doc) DiagnosticDefinitions(mode string) []string {
	diagnostics, ok := d["diagnostics"].(map[string]any)
	if !ok {
		return nil
	}
	section, ok := diagnostics[mode].(map[string]any)
	if !ok {
		return nil
	}
	return stringList(section["definitions"])
}

func stringList(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
