// Package buildconfig owns the configuration record that carries state
// between pipeline phases.
//
// Configure writes the record into the build directory; build and test read
// it back instead of trusting their own command line. The persisted document
// is the user's input configuration (kept verbatim, unknown keys included)
// plus a "build" object recording what configure actually did.
package buildconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildwright/buildwright/pkg/logger"
)

var storeLog = logger.New("buildconfig:store")

// RecordName is the file name of the persisted record inside the build
// directory. The name is part of the wire format: other tooling greps for
// it, so it never changes.
const RecordName = "build-action-config.json"

// ErrNotConfigured reports a build directory without a loadable record.
var ErrNotConfigured = errors.New("build directory is not configured")

// Build is the pipeline-owned section of the record. Field names are the
// persisted wire format.
type Build struct {
	BuildTool    string   `json:"build_tool"`
	BuildType    string   `json:"build_type"`
	BuildDefs    []string `json:"build_defs"`
	Config       string   `json:"config"`
	Compiler     string   `json:"compiler"`
	Generator    string   `json:"generator"`
	Diagnostics  string   `json:"diagnostics"`
	Architecture string   `json:"architecture"`
}

// Record is the full persisted document: the input configuration as an
// extension bag plus the Build section.
type Record struct {
	Build Build
	Doc   Doc // input document without the "build" key
}

// Load reads the record from a build directory. A missing, unreadable or
// malformed record reports ErrNotConfigured: from the caller's point of
// view those all mean "configure didn't complete here".
func Load(buildDir string) (*Record, error) {
	path := filepath.Join(buildDir, RecordName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, path)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s is not valid JSON: %v", ErrNotConfigured, path, err)
	}

	buildRaw, ok := doc["build"]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no build section", ErrNotConfigured, path)
	}

	rec := &Record{}
	buildJSON, err := json.Marshal(buildRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has an invalid build section: %v", ErrNotConfigured, path, err)
	}
	if err := json.Unmarshal(buildJSON, &rec.Build); err != nil {
		return nil, fmt.Errorf("%w: %s has an invalid build section: %v", ErrNotConfigured, path, err)
	}

	delete(doc, "build")
	rec.Doc = doc

	storeLog.Printf("Loaded record from %s (compiler=%s generator=%s diagnostics=%s)",
		path, rec.Build.Compiler, rec.Build.Generator, rec.Build.Diagnostics)
	return rec, nil
}

// Save writes the record into the build directory via a temp file and
// rename, so a reader that starts after Save returns never sees a torn
// write.
func Save(buildDir string, rec *Record) error {
	doc := make(map[string]any, len(rec.Doc)+1)
	for k, v := range rec.Doc {
		doc[k] = v
	}
	doc["build"] = rec.Build

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration record: %w", err)
	}

	tmp, err := os.CreateTemp(buildDir, ".build-action-config-*.json")
	if err != nil {
		return fmt.Errorf("failed to create configuration record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write configuration record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write configuration record: %w", err)
	}

	path := filepath.Join(buildDir, RecordName)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write configuration record: %w", err)
	}

	storeLog.Printf("Saved record to %s", path)
	return nil
}
