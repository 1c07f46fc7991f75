// Package bone loads the bone meshes a plan is made against.
package bone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/analysis"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/stl"
	"golang.org/x/sync/errgroup"
)

// ErrAssetLoad reports a bone mesh that could not be loaded
var ErrAssetLoad = errors.New("asset load failed")

// Config describes one bone mesh and how it is placed in the scene
type Config struct {
	Name      string             `json:"name" yaml:"name"`
	Path      string             `json:"path" yaml:"path"`
	Transform geometry.Transform `json:"transform" yaml:"transform"`
	Color     uint32             `json:"color" yaml:"color"`
}

// Defaults returns the femur and tibia placement used by the planning session
func Defaults(femurPath, tibiaPath string) []Config {
	scale := geometry.NewVector3(0.01, 0.01, 0.01)
	rotation := geometry.NewVector3(-math.Pi/2, 0, 0)
	return []Config{
		{
			Name: "Right Femur",
			Path: femurPath,
			Transform: geometry.Transform{
				Scale:    scale,
				Rotation: rotation,
			},
			Color: 0x76b5c5,
		},
		{
			Name: "Right Tibia",
			Path: tibiaPath,
			Transform: geometry.Transform{
				Position: geometry.NewVector3(0.17, -0.15, 0),
				Scale:    scale,
				Rotation: rotation,
			},
			Color: 0xd2721e,
		},
	}
}

// Mesh is a loaded bone with its current clip plane
type Mesh struct {
	Config Config
	Model  *stl.Model // scene space

	clip *geometry.Plane
}

// NewMesh places model (in file space) into the scene according to cfg
func NewMesh(cfg Config, model *stl.Model) *Mesh {
	return &Mesh{
		Config: cfg,
		Model:  model.Transformed(cfg.Transform),
	}
}

// Name returns the configured bone name
func (m *Mesh) Name() string {
	return m.Config.Name
}

// SetClipPlane clips the mesh, hiding geometry on the negative side of p
func (m *Mesh) SetClipPlane(p geometry.Plane) {
	m.clip = &p
}

// ClearClipPlane removes any clip plane
func (m *Mesh) ClearClipPlane() {
	m.clip = nil
}

// ClipPlane returns the active clip plane, if any
func (m *Mesh) ClipPlane() (geometry.Plane, bool) {
	if m.clip == nil {
		return geometry.Plane{}, false
	}
	return *m.clip, true
}

// ClipStats reports how the active clip plane divides the mesh
func (m *Mesh) ClipStats() (analysis.ClipResult, bool) {
	if m.clip == nil {
		return analysis.ClipResult{}, false
	}
	return analysis.ClipStats(m.Model, *m.clip), true
}

// Loader reads a mesh file
type Loader func(path string) (*stl.Model, error)

// LoadAll loads every configured bone concurrently, one goroutine per mesh.
// Any failure cancels the rest and is reported as ErrAssetLoad. A nil
// logger logs to the slog default.
func LoadAll(ctx context.Context, configs []Config, load Loader, logger *slog.Logger) ([]*Mesh, error) {
	if load == nil {
		load = stl.ParseFile
	}
	if logger == nil {
		logger = slog.Default()
	}

	meshes := make([]*Mesh, len(configs))
	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range configs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			model, err := load(cfg.Path)
			if err != nil {
				logger.Error("bone model failed to load", "name", cfg.Name, "path", cfg.Path, "err", err)
				return fmt.Errorf("%w: %s: %w", ErrAssetLoad, cfg.Name, err)
			}
			meshes[i] = NewMesh(cfg, model)
			logger.Info("bone model loaded", "name", cfg.Name, "triangles", model.TriangleCount())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, ErrAssetLoad) {
			err = fmt.Errorf("%w: %w", ErrAssetLoad, err)
		}
		return nil, err
	}
	return meshes, nil
}

// Snap returns the mesh vertex nearest to point across all meshes.
// It returns point unchanged when there are no vertices.
func Snap(meshes []*Mesh, point geometry.Vector3) geometry.Vector3 {
	best := point
	bestDist := math.Inf(1)
	for _, m := range meshes {
		if m.Model.TriangleCount() == 0 {
			continue
		}
		v, d := analysis.FindNearestVertex(m.Model, point)
		if d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}
