// Package session runs a planning engine in its own goroutine, interleaving
// user commands with frame ticks.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/bone"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// ErrStopped is returned for requests made after Run has returned
var ErrStopped = errors.New("session stopped")

// Options configures a session
type Options struct {
	Bones         []bone.Config
	Loader        bone.Loader
	Engine        plan.Options
	FrameInterval time.Duration
	Logger        *slog.Logger
}

type request struct {
	cmd   plan.Command
	fn    func(e *plan.Engine, meshes []*bone.Mesh)
	reply chan response
}

type response struct {
	snap plan.Snapshot
	err  error
}

// Session owns an engine and the bone meshes it clips. Only the goroutine
// running Run touches either of them.
type Session struct {
	engine   *plan.Engine
	meshes   []*bone.Mesh
	interval time.Duration
	log      *slog.Logger

	requests chan request
	stopped  chan struct{}
}

// Open loads every bone mesh and prepares the engine. A mesh that fails to
// load fails the whole session with bone.ErrAssetLoad.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = time.Second / 60
	}

	meshes, err := bone.LoadAll(ctx, opts.Bones, opts.Loader, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	engineOpts := opts.Engine
	if engineOpts.Logger == nil {
		engineOpts.Logger = logger
	}
	if engineOpts.Snap == nil && len(meshes) > 0 {
		engineOpts.Snap = func(p geometry.Vector3) geometry.Vector3 {
			return bone.Snap(meshes, p)
		}
	}

	engine := plan.New(engineOpts)
	targets := make([]plan.Bone, len(meshes))
	for i, m := range meshes {
		targets[i] = m
	}
	engine.SetBones(targets...)

	logger.Info("session ready", "bones", len(meshes))
	return &Session{
		engine:   engine,
		meshes:   meshes,
		interval: interval,
		log:      logger,
		requests: make(chan request),
		stopped:  make(chan struct{}),
	}, nil
}

// Run processes requests and frame ticks until ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session stopped", "frames", s.engine.Frames())
			return ctx.Err()

		case <-ticker.C:
			s.engine.Frame()

		case req := <-s.requests:
			var err error
			switch {
			case req.cmd != nil:
				err = s.engine.Dispatch(req.cmd)
			case req.fn != nil:
				req.fn(s.engine, s.meshes)
			}
			req.reply <- response{snap: s.engine.Snapshot(), err: err}
		}
	}
}

// Do applies cmd on the session goroutine and returns the resulting snapshot
func (s *Session) Do(ctx context.Context, cmd plan.Command) (plan.Snapshot, error) {
	return s.send(ctx, request{cmd: cmd})
}

// Snapshot returns the current pipeline state
func (s *Session) Snapshot(ctx context.Context) (plan.Snapshot, error) {
	return s.send(ctx, request{})
}

// Inspect runs fn on the session goroutine. fn must not retain its arguments.
func (s *Session) Inspect(ctx context.Context, fn func(e *plan.Engine, meshes []*bone.Mesh)) error {
	_, err := s.send(ctx, request{fn: fn})
	return err
}

func (s *Session) send(ctx context.Context, req request) (plan.Snapshot, error) {
	req.reply = make(chan response, 1)

	select {
	case s.requests <- req:
	case <-s.stopped:
		return plan.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return plan.Snapshot{}, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		return resp.snap, resp.err
	case <-ctx.Done():
		return plan.Snapshot{}, ctx.Err()
	}
}
