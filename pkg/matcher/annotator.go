package matcher

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/buildwright/buildwright/pkg/logger"
)

var annotatorLog = logger.New("matcher:annotator")

//go:embed definitions/*.json
var definitionFiles embed.FS

// Annotator writes GitHub Actions workflow commands (group markers and
// problem matcher registration) to a single output writer. All annotation
// output of a run goes through one Annotator so ordering is guaranteed;
// there is no package-level state.
type Annotator struct {
	out          io.Writer
	groups       bool
	materialized map[string]string
}

// NewAnnotator returns an annotator writing to out. Group markers start
// disabled; single-phase invocations don't want their whole output folded.
func NewAnnotator(out io.Writer) *Annotator {
	return &Annotator{
		out:          out,
		materialized: make(map[string]string),
	}
}

// EnableGroups turns on ::group:: / ::endgroup:: emission. The combined
// "all" pipeline enables this so each phase folds separately in the log
// view.
func (a *Annotator) EnableGroups() {
	a.groups = true
}

// GroupsEnabled reports whether group markers are emitted.
func (a *Annotator) GroupsEnabled() bool {
	return a.groups
}

// BeginGroup opens a named log group when group mode is enabled.
func (a *Annotator) BeginGroup(name string) {
	if a.groups {
		fmt.Fprintln(a.out, "::group::"+name)
	}
}

// EndGroup closes the innermost log group when group mode is enabled.
func (a *Annotator) EndGroup() {
	if a.groups {
		fmt.Fprintln(a.out, "::endgroup::")
	}
}

// Begin registers every matcher in the set belonging to the scope. The
// definition files are embedded in the binary, so they are first written
// out to the runner's temp directory; the ::add-matcher:: command needs a
// path the Actions runner can open.
func (a *Annotator) Begin(matchers []string, scope Scope) error {
	for _, name := range matchers {
		def, ok := byName[name]
		if !ok || def.Scope != scope {
			continue
		}
		path, err := a.materialize(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "::add-matcher::"+path)
	}
	return nil
}

// End removes every matcher in the set belonging to the scope, one
// ::remove-matcher:: per owner tag the definition provides. End is safe to
// call without a paired Begin; removal of an unregistered owner is a no-op
// on the runner side.
func (a *Annotator) End(matchers []string, scope Scope) {
	for _, name := range matchers {
		def, ok := byName[name]
		if !ok || def.Scope != scope {
			continue
		}
		for _, owner := range def.Provides {
			fmt.Fprintf(a.out, "::remove-matcher owner=%s::\n", owner)
		}
	}
}

// materialize writes the embedded definition to the runner temp directory
// and returns its path. Repeated calls for the same matcher reuse the
// first file.
func (a *Annotator) materialize(name string) (string, error) {
	if path, ok := a.materialized[name]; ok {
		return path, nil
	}

	fileName := fmt.Sprintf("problem-matcher-%s.json", name)
	data, err := definitionFiles.ReadFile("definitions/" + fileName)
	if err != nil {
		return "", fmt.Errorf("no embedded definition for problem matcher %s: %w", name, err)
	}

	dir := os.Getenv("RUNNER_TEMP")
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write problem matcher definition: %w", err)
	}

	annotatorLog.Printf("Materialized %s to %s", name, path)
	a.materialized[name] = path
	return path, nil
}
