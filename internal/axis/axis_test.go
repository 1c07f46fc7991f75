package axis

import (
	"testing"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioStore(t *testing.T) *landmark.Store {
	t.Helper()
	s := landmark.NewStore()
	points := map[landmark.Name]geometry.Vector3{
		landmark.HipCenter:          geometry.NewVector3(0, 1, 0),
		landmark.FemurProximalCanal: geometry.NewVector3(0, 0.5, 0),
		landmark.FemurDistalCanal:   geometry.NewVector3(0, -0.5, 0),
		landmark.MedialEpicondyle:   geometry.NewVector3(-0.02, 0, 0),
		landmark.LateralEpicondyle:  geometry.NewVector3(0.02, 0, 0),
		landmark.DistalMedialPt:     geometry.NewVector3(-0.01, -0.01, 0),
		landmark.DistalLateralPt:    geometry.NewVector3(0.01, -0.01, 0),
		landmark.PosteriorMedialPt:  geometry.NewVector3(-0.02, 0, -0.01),
		landmark.PosteriorLateralPt: geometry.NewVector3(0.02, 0, -0.01),
	}
	for name, pos := range points {
		require.NoError(t, s.Place(name, pos))
	}
	return s
}

func TestAll(t *testing.T) {
	axes, err := All(scenarioStore(t))
	require.NoError(t, err)
	require.Len(t, axes, 4)

	assert.Equal(t, Mechanical, axes[0].Role)
	assert.Equal(t, Origin, axes[0].Start)
	assert.Equal(t, geometry.NewVector3(0, 1, 0), axes[0].End)

	assert.Equal(t, Anatomical, axes[1].Role)
	assert.Equal(t, geometry.NewVector3(0, -0.5, 0), axes[1].End)

	assert.Equal(t, Transepicondylar, axes[2].Role)
	assert.True(t, axes[2].Direction().ApproxEqual(geometry.UnitX, geometry.Tolerance))

	assert.Equal(t, PosteriorCondylar, axes[3].Role)
	assert.InDelta(t, 0.04, axes[3].Segment().Length(), 1e-12)
}

func TestMissingLandmark(t *testing.T) {
	s := landmark.NewStore()
	require.NoError(t, s.Place(landmark.MedialEpicondyle, geometry.Vector3{}))

	_, err := NewTransepicondylar(s)
	require.ErrorIs(t, err, landmark.ErrNotPlaced)
	assert.Contains(t, err.Error(), "Lateral Epicondyle")

	_, err = NewMechanical(s)
	assert.ErrorIs(t, err, landmark.ErrNotPlaced)

	axes, err := All(s)
	assert.Error(t, err)
	assert.Nil(t, axes)
}
