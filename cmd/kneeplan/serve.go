package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/casefile"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/server"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/session"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/store"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/watcher"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr  string
	serveCase  string
	serveWatch bool
	serveNoDB  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a planning session behind an HTTP control interface",
	Long: `Start a planning session with its frame loop and expose it over HTTP.
With --case the bones and landmarks of a case file are preloaded, and with
--watch the landmarks are placed again whenever the case file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	flags.StringVar(&serveCase, "case", "", "case file to preload")
	flags.BoolVar(&serveWatch, "watch", false, "reload landmarks when the case file changes")
	flags.BoolVar(&serveNoDB, "no-history", false, "disable the plan history routes")
	addBoneFlags(flags)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if serveWatch && serveCase == "" {
		return errors.New("--watch needs --case")
	}

	var c *casefile.Case
	if serveCase != "" {
		var err error
		if c, err = casefile.Load(serveCase); err != nil {
			return err
		}
	}
	bones, err := caseBones(c)
	if err != nil {
		return err
	}

	params := planningDefaults(cfg)
	resectionVisible := cfg.Planning.ResectionVisible
	if c != nil {
		params = c.PlanParameters(params)
		resectionVisible = resectionVisible || c.ResectionVisible
	}

	s, err := session.Open(ctx, session.Options{
		Bones:         bones,
		Engine:        plan.Options{Parameters: params, ResectionVisible: resectionVisible},
		FrameInterval: cfg.FrameInterval(),
		Logger:        slog.Default(),
	})
	if err != nil {
		return err
	}

	var history server.History
	if !serveNoDB {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		history = st
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	app := server.New(s, history, server.Options{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		AccessLog:    os.Stderr,
		Logger:       slog.Default(),
	})

	var fw *watcher.FileWatcher
	defer func() {
		if fw != nil {
			fw.Close()
		}
	}()

	setup := func(ctx context.Context) error {
		if c != nil {
			if err := applyCase(ctx, s, c); err != nil {
				return err
			}
		}
		if !serveWatch {
			return nil
		}

		var err error
		if fw, err = watcher.NewFileWatcher(cfg.Debounce()); err != nil {
			return err
		}
		err = fw.Watch([]string{serveCase}, func(path string) {
			reloadCase(ctx, s, path)
		})
		if err != nil {
			return err
		}
		fw.Start(ctx)
		slog.Info("watching case file", "path", serveCase)
		return nil
	}

	listen := func(ctx context.Context) error {
		errc := make(chan error, 1)
		go func() {
			slog.Info("starting server", "addr", addr)
			errc <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				return err
			}
			return <-errc
		}
	}

	return supervise(ctx, s.Run, setup, listen)
}

// supervise runs the session loop, then setup, then serve alongside the loop.
// It always joins the loop before returning, also when setup fails.
func supervise(ctx context.Context, run, setup, serve func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := setup(ctx); err != nil {
		cancel()
		return errors.Join(err, g.Wait())
	}

	g.Go(func() error { return serve(ctx) })
	return g.Wait()
}

// applyCase places every landmark of c
func applyCase(ctx context.Context, s *session.Session, c *casefile.Case) error {
	for _, command := range c.PlaceCommands() {
		if _, err := s.Do(ctx, command); err != nil {
			return err
		}
	}
	slog.Info("case applied", "name", c.Name, "landmarks", len(c.Landmarks), "complete", c.Complete())
	return nil
}

func reloadCase(ctx context.Context, s *session.Session, path string) {
	c, err := casefile.Load(path)
	if err != nil {
		slog.Warn("case reload failed", "path", path, "err", err)
		return
	}
	if err := applyCase(ctx, s, c); err != nil {
		slog.Warn("case reload failed", "path", path, "err", err)
	}
}
