package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleSTL = `solid bone
facet normal 0 0 1
  outer loop
    vertex -10 -10 0
    vertex 10 -10 0
    vertex 0 10 0
  endloop
endfacet
facet normal 0 0 -1
  outer loop
    vertex -10 -10 -5
    vertex 0 10 -5
    vertex 10 -10 -5
  endloop
endfacet
endsolid bone
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCase(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "femur.stl"), []byte(triangleSTL), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tibia.stl"), []byte(triangleSTL), 0o644))

	var b strings.Builder
	b.WriteString("name: test knee\nbones:\n")
	b.WriteString("  - name: Right Femur\n    path: femur.stl\n")
	b.WriteString("  - name: Right Tibia\n    path: tibia.stl\n")
	b.WriteString("landmarks:\n")
	landmarks := []struct {
		name    string
		x, y, z float64
	}{
		{"Hip Center", 0, 1, 0},
		{"Femur Proximal Canal", 0, 0.5, 0},
		{"Femur Distal Canal", 0, -0.5, 0},
		{"Medial Epicondyle", -0.02, 0, 0},
		{"Lateral Epicondyle", 0.02, 0, 0},
		{"Distal Medial Pt", -0.02, -0.03, 0.01},
		{"Distal Lateral Pt", 0.02, -0.03, 0.01},
		{"Posterior Medial Pt", -0.02, 0, -0.01},
		{"Posterior Lateral Pt", 0.02, 0, -0.01},
	}
	for _, l := range landmarks {
		fmt.Fprintf(&b, "  %s: {x: %g, y: %g, z: %g}\n", l.name, l.x, l.y, l.z)
	}

	path := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "femur.stl")
	require.NoError(t, os.WriteFile(path, []byte(triangleSTL), 0o644))

	out, err := execute(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Triangles: 2")
	assert.Contains(t, out, "Units: file units")

	out, err = execute(t, "info", "--bone", "femur", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Units: m")

	_, err = execute(t, "info", "--bone", "patella", path)
	assert.Error(t, err)
	infoBone = ""
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KNEEPLAN_DB_PATH", filepath.Join(dir, "plans.db"))
	casePath := writeCase(t, dir)

	out, err := execute(t, "plan", "--save", "--clip", casePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan: test knee")
	assert.Contains(t, out, "distalResectionPlane")
	assert.Contains(t, out, "Right Femur")
	assert.Contains(t, out, "saved plan")

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "test knee")
	planSave, planClip = false, false
}

func TestPlanCommandIncompleteCase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: partial\nlandmarks:\n  Hip Center: {x: 0, y: 1, z: 0}\n"), 0o644))

	_, err := execute(t, "plan", path)
	assert.ErrorContains(t, err, "does not place every required landmark")
}

func TestSnapCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "femur.stl")
	require.NoError(t, os.WriteFile(path, []byte(triangleSTL), 0o644))

	// vertex (0, 10, 0) scales to (0, 0.1, 0) and the -90 degree X rotation maps it to (0, 0, -0.1)
	out, err := execute(t, "snap", path, "--x", "0", "--y", "0", "--z", "-0.09")
	require.NoError(t, err)
	assert.Contains(t, out, "Bone: Right Femur")
	assert.Regexp(t, `Nearest vertex: \(-?0\.000000, -?0\.000000, -0\.100000\)`, out)
}
