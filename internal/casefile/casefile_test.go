package casefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const caseYAML = `
name: right knee
bones:
  - name: Right Femur
    path: Right_Femur.stl
    color: 0x76b5c5
    transform:
      scale: {x: 0.01, y: 0.01, z: 0.01}
      rotation: {x: -1.5707963267948966, y: 0, z: 0}
  - name: Right Tibia
    path: /data/Right_Tibia.stl
landmarks:
  Hip Center: {x: 0, y: 1, z: 0}
  Distal Medial Pt: {x: -0.02, y: -0.03, z: 0.01}
parameters:
  varus_valgus: -2
  flexion_extension: 5
  resection_depth: 8
resection_visible: true
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte(caseYAML), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "right knee", c.Name)
	require.Len(t, c.Bones, 2)
	assert.Equal(t, filepath.Join(dir, "Right_Femur.stl"), c.Bones[0].Path)
	assert.Equal(t, "/data/Right_Tibia.stl", c.Bones[1].Path)
	assert.Equal(t, uint32(0x76b5c5), c.Bones[0].Color)
	assert.Equal(t, 0.01, c.Bones[0].Transform.Scale.X)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), c.Bones[1].Transform.Scale)
	assert.True(t, c.ResectionVisible)
	assert.False(t, c.Complete())

	params := c.PlanParameters(plan.DefaultParameters())
	assert.Equal(t, plan.Parameters{VarusValgus: -2, FlexionExtension: 5, ResectionDepth: 8}, params)

	cmds := c.PlaceCommands()
	require.Len(t, cmds, 2)
	assert.Equal(t, plan.PlaceLandmark{Name: landmark.HipCenter, Position: geometry.NewVector3(0, 1, 0)}, cmds[0])
	assert.Equal(t, landmark.DistalMedialPt, cmds[1].(plan.PlaceLandmark).Name)
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("name: empty\n"))
	require.NoError(t, err)
	assert.Equal(t, plan.DefaultParameters(), c.PlanParameters(plan.DefaultParameters()))
	assert.Empty(t, c.PlaceCommands())
}

func TestParsePartialParameters(t *testing.T) {
	c, err := Parse([]byte("parameters:\n  varus_valgus: 2\n"))
	require.NoError(t, err)

	params := c.PlanParameters(plan.DefaultParameters())
	assert.Equal(t, plan.Parameters{VarusValgus: 2, FlexionExtension: 3, ResectionDepth: 10}, params)

	c, err = Parse([]byte("parameters:\n  flexion_extension: 0\n  resection_depth: 7\n"))
	require.NoError(t, err)
	params = c.PlanParameters(plan.DefaultParameters())
	assert.Equal(t, plan.Parameters{VarusValgus: 3, FlexionExtension: 0, ResectionDepth: 7}, params)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("landmarks:\n  Patella: {x: 0, y: 0, z: 0}\n"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, landmark.ErrUnknownName)

	_, err = Parse([]byte("bones:\n  - name: Right Femur\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("bones: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
