package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/bone"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/session"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/store"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var points = map[landmark.Name]geometry.Vector3{
	landmark.HipCenter:          geometry.NewVector3(0, 1, 0),
	landmark.FemurProximalCanal: geometry.NewVector3(0, 0.5, 0),
	landmark.FemurDistalCanal:   geometry.NewVector3(0, -0.5, 0),
	landmark.MedialEpicondyle:   geometry.NewVector3(-0.02, 0, 0),
	landmark.LateralEpicondyle:  geometry.NewVector3(0.02, 0, 0),
	landmark.DistalMedialPt:     geometry.NewVector3(-0.02, -0.03, 0.01),
	landmark.DistalLateralPt:    geometry.NewVector3(0.02, -0.03, 0.01),
	landmark.PosteriorMedialPt:  geometry.NewVector3(-0.02, 0, -0.01),
	landmark.PosteriorLateralPt: geometry.NewVector3(0.02, 0, -0.01),
}

func loader(path string) (*stl.Model, error) {
	m := stl.NewModel(path)
	m.AddTriangle(geometry.NewTriangle(geometry.UnitZ,
		geometry.NewVector3(-10, -10, 0), geometry.NewVector3(10, -10, 0), geometry.NewVector3(0, 10, 0)))
	return m, nil
}

func newApp(t *testing.T, withHistory bool) *fiber.App {
	t.Helper()
	s, err := session.Open(context.Background(), session.Options{
		Bones:         bone.Defaults("femur.stl", "tibia.stl"),
		Loader:        loader,
		Engine:        plan.Options{Parameters: plan.DefaultParameters()},
		FrameInterval: time.Millisecond,
		Logger:        quiet,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Run(ctx)

	var history History
	if withHistory {
		st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "plans.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		history = st
	}
	return New(s, history, Options{Logger: quiet})
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func placeAll(t *testing.T, app *fiber.App) {
	t.Helper()
	for _, name := range landmark.Required {
		p := points[name]
		body, err := json.Marshal(map[string]any{"name": string(name), "position": p})
		require.NoError(t, err)
		code, data := call(t, app, http.MethodPost, "/api/landmarks", string(body))
		require.Equal(t, http.StatusOK, code, string(data))
	}
}

func decodeSnapshot(t *testing.T, data []byte) plan.Snapshot {
	t.Helper()
	var snap plan.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap
}

func TestHealth(t *testing.T) {
	app := newApp(t, false)

	code, data := call(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"alive"}`, string(data))

	code, data = call(t, app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ready"}`, string(data))
}

func TestPlanningFlow(t *testing.T) {
	app := newApp(t, false)
	placeAll(t, app)

	code, data := call(t, app, http.MethodPost, "/api/axes", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeSnapshot(t, data).Axes, 4)

	code, data = call(t, app, http.MethodPost, "/api/planes", "")
	require.Equal(t, http.StatusOK, code)
	snap := decodeSnapshot(t, data)
	assert.Len(t, snap.Planes, len(plan.Roles))
	require.NotNil(t, snap.Measurements)

	code, data = call(t, app, http.MethodPost, "/api/params/resectionDepth/increment", "")
	require.Equal(t, http.StatusOK, code)
	snap = decodeSnapshot(t, data)
	assert.Equal(t, 11.0, snap.Parameters.ResectionDepth)
	assert.Equal(t, "11 mm", snap.Controls.ResectionDepth)

	code, data = call(t, app, http.MethodPost, "/api/params/varusValgus/decrement", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2.0, decodeSnapshot(t, data).Parameters.VarusValgus)

	code, data = call(t, app, http.MethodPost, "/api/resection/toggle", "")
	require.Equal(t, http.StatusOK, code)
	snap = decodeSnapshot(t, data)
	assert.True(t, snap.ResectionVisible)
	require.Len(t, snap.Bones, 2)
	assert.NotNil(t, snap.Bones[0].Clip)

	code, data = call(t, app, http.MethodPost, "/api/planes/distalMedialPlane/toggle", "")
	require.Equal(t, http.StatusOK, code)
	p, ok := decodeSnapshot(t, data).Plane(plan.DistalMedialPlane)
	require.True(t, ok)
	assert.False(t, p.Visible)

	code, data = call(t, app, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 11.0, decodeSnapshot(t, data).Parameters.ResectionDepth)
}

func TestValidationErrors(t *testing.T) {
	app := newApp(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"empty body", http.MethodPost, "/api/landmarks", "", http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/api/landmarks", "{", http.StatusBadRequest},
		{"no position", http.MethodPost, "/api/landmarks", `{"name":"Hip Center"}`, http.StatusBadRequest},
		{"unknown landmark", http.MethodPost, "/api/landmarks", `{"name":"Patella","position":{"x":0,"y":0,"z":0}}`, http.StatusBadRequest},
		{"unknown channel", http.MethodPost, "/api/params/twist/increment", "", http.StatusBadRequest},
		{"unknown role", http.MethodPost, "/api/planes/sagittal/toggle", "", http.StatusBadRequest},
		{"history disabled", http.MethodGet, "/api/plans", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := call(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, code, string(data))
		})
	}
}

func TestPlanHistory(t *testing.T) {
	app := newApp(t, true)
	placeAll(t, app)
	call(t, app, http.MethodPost, "/api/axes", "")
	call(t, app, http.MethodPost, "/api/planes", "")

	code, _ := call(t, app, http.MethodPost, "/api/plans", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, data := call(t, app, http.MethodPost, "/api/plans", `{"name":"right knee"}`)
	require.Equal(t, http.StatusCreated, code, string(data))
	var saved store.Plan
	require.NoError(t, json.Unmarshal(data, &saved))
	require.NotNil(t, saved.MedialMM)

	code, data = call(t, app, http.MethodGet, "/api/plans", "")
	require.Equal(t, http.StatusOK, code)
	var plans []store.Plan
	require.NoError(t, json.Unmarshal(data, &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "right knee", plans[0].Name)

	code, data = call(t, app, http.MethodGet, "/api/plans/"+saved.ID.String(), "")
	require.Equal(t, http.StatusOK, code)
	var got store.Plan
	require.NoError(t, json.Unmarshal(data, &got))
	require.NotNil(t, got.Snapshot)
	assert.Len(t, got.Snapshot.Planes, len(plan.Roles))

	code, _ = call(t, app, http.MethodGet, "/api/plans/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, app, http.MethodGet, "/api/plans/00000000-0000-0000-0000-000000000001", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(session.ErrStopped))
	assert.Equal(t, http.StatusConflict, statusOf(plan.ErrMissingDependency))
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(plan.ErrDegenerate))
	assert.Equal(t, http.StatusInternalServerError, statusOf(io.EOF))
}
