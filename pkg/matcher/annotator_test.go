//go:build !integration

package matcher

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buildwright/buildwright/pkg/testutil"
	"github.com/buildwright/buildwright/pkg/toolchain"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupsDisabledByDefault(t *testing.T) {
	var buf bytes.Buffer
	a := NewAnnotator(&buf)

	a.BeginGroup("Build")
	a.EndGroup()

	assert.Empty(t, buf.String(), "group markers must not appear outside group mode")
	assert.False(t, a.GroupsEnabled())
}

func TestGroupMarkers(t *testing.T) {
	var buf bytes.Buffer
	a := NewAnnotator(&buf)
	a.EnableGroups()

	a.BeginGroup("Configure")
	a.EndGroup()

	assert.Equal(t, "::group::Configure\n::endgroup::\n", buf.String())
	assert.True(t, a.GroupsEnabled())
}

func TestBeginMaterializesDefinitions(t *testing.T) {
	dir := testutil.TempDir(t, "matchers-*")
	t.Setenv("RUNNER_TEMP", dir)

	var buf bytes.Buffer
	a := NewAnnotator(&buf)

	require.NoError(t, a.Begin([]string{"compile"}, ScopeBuild))

	path := filepath.Join(dir, "problem-matcher-compile.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err, "definition file should be materialized to RUNNER_TEMP")
	assert.Contains(t, string(data), `"owner": "compile-gcc"`)
	assert.Contains(t, buf.String(), "::add-matcher::"+path)
}

func TestBeginSkipsOtherScopes(t *testing.T) {
	dir := testutil.TempDir(t, "matchers-*")
	t.Setenv("RUNNER_TEMP", dir)

	var buf bytes.Buffer
	a := NewAnnotator(&buf)

	set := []string{"compile", "valgrind"}
	require.NoError(t, a.Begin(set, ScopeRun))

	assert.NotContains(t, buf.String(), "problem-matcher-compile.json",
		"compile is build-scoped and must not activate for the run scope")
	assert.Contains(t, buf.String(), "problem-matcher-valgrind.json")
}

func TestEndEmitsOneRemovePerOwner(t *testing.T) {
	var buf bytes.Buffer
	a := NewAnnotator(&buf)

	a.End([]string{"valgrind"}, ScopeRun)

	assert.Equal(t,
		"::remove-matcher owner=valgrind-commons::\n::remove-matcher owner=valgrind-memcheck::\n",
		buf.String())
}

func TestEndSkipsOtherScopes(t *testing.T) {
	var buf bytes.Buffer
	a := NewAnnotator(&buf)

	a.End([]string{"compile", "asan"}, ScopeBuild)

	assert.Contains(t, buf.String(), "owner=compile-gcc")
	assert.NotContains(t, buf.String(), "owner=asan")
}

// The full annotation stream of an "all" run with auto matchers and
// valgrind diagnostics, group markers included.
func TestAnnotationStream(t *testing.T) {
	dir := testutil.TempDir(t, "matchers-*")
	t.Setenv("RUNNER_TEMP", dir)

	var buf bytes.Buffer
	a := NewAnnotator(&buf)
	a.EnableGroups()

	set, err := Resolve("auto", toolchain.DiagnosticsValgrind)
	require.NoError(t, err)

	a.BeginGroup("Build")
	require.NoError(t, a.Begin(set, ScopeBuild))
	a.End(set, ScopeBuild)
	a.EndGroup()

	a.BeginGroup("unit_tests")
	require.NoError(t, a.Begin(set, ScopeRun))
	a.End(set, ScopeRun)
	a.EndGroup()

	output := strings.ReplaceAll(buf.String(), dir, "$RUNNER_TEMP")
	golden.RequireEqual(t, []byte(output))
}
