package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/contraption/engine"
	"github.com/Carmen-Shannon/contraption/engine/animator"
	"github.com/Carmen-Shannon/contraption/engine/loader"
	"github.com/Carmen-Shannon/contraption/engine/profiler"
	"github.com/Carmen-Shannon/contraption/engine/renderer"
	"github.com/Carmen-Shannon/contraption/internal/config"
	"github.com/Carmen-Shannon/contraption/internal/inspector"
	"github.com/Carmen-Shannon/contraption/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 5 * time.Second
	reloadDebounce  = 100 * time.Millisecond
)

var errNoScene = stderrors.New("no scene file: pass one as an argument, with --scene, or set scene in the config")

// app wires a loaded scene to the engine, renderer and optional inspector.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	loader   loader.Loader
	metrics  *metrics.Metrics
	backend  renderer.RecordingBackend
	renderer renderer.Renderer
	engine   engine.Engine
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	if cfg.Scene == "" {
		return nil, errNoScene
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		loader:  loader.NewLoader(loader.WithLogger(logger)),
		metrics: metrics.New(),
		backend: renderer.NewRecordingBackend(1),
	}

	anim := animator.NewAnimator(animator.WithLogger(logger))
	s, err := a.loader.LoadScene(cfg.Scene, anim)
	if err != nil {
		return nil, errors.Wrap(err, "load scene")
	}
	s.Resize(cfg.Width, cfg.Height)

	ropts := []renderer.RendererBuilderOption{
		renderer.WithLogger(logger),
		renderer.WithFrustumCulling(cfg.CullRadius),
	}
	if cfg.Workers > 0 {
		ropts = append(ropts, renderer.WithEncodeWorkers(cfg.Workers))
	}
	a.renderer = renderer.NewRenderer(a.backend, ropts...)

	prof := profiler.NewProfiler(
		profiler.WithLogger(logger),
		profiler.WithInterval(cfg.ProfileInterval),
		profiler.WithGauges(a.metrics.FPS, a.metrics.HeapBytes),
	)
	a.engine = engine.NewEngine(s, a.renderer,
		engine.WithLogger(logger),
		engine.WithTickRate(cfg.TickRate),
		engine.WithFrameLimit(cfg.FrameLimit),
		engine.WithAnimator(anim),
		engine.WithMetrics(a.metrics),
		engine.WithProfiler(prof),
		engine.WithProfiling(cfg.Profiling),
	)

	logger.Info("scene loaded", "scene", s.Name(), "entities", s.Count(), "lights", len(s.Lights()), "cameras", len(s.Cameras()))
	return a, nil
}

// run drives the engine until ctx is cancelled or the frame limit is reached,
// serving the inspector and watching the scene when configured.
func (a *app) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return a.engine.Run(ctx)
	})

	if a.cfg.InspectorAddr != "" {
		handler := inspector.NewServer(a.engine,
			inspector.WithLogger(a.logger),
			inspector.WithMetrics(a.metrics),
		).Handler()
		srv := &http.Server{
			Addr:              a.cfg.InspectorAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.logger.Info("inspector listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "inspector")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("inspector shutdown incomplete", "err", err)
				return srv.Close()
			}
			return nil
		})
	}

	if a.cfg.Watch {
		g.Go(func() error {
			return a.watch(ctx)
		})
	}

	err := g.Wait()
	a.logger.Info("run finished", "frames", a.engine.Frames(), "submitted", a.backend.Submitted())
	return err
}

// reload rebuilds the scene from disk and hands it to the engine together with
// its own animator, so the live one is never touched off the frame loop.
func (a *app) reload() error {
	a.loader.Invalidate(a.cfg.Scene)
	anim := animator.NewAnimator(animator.WithLogger(a.logger))
	s, err := a.loader.LoadScene(a.cfg.Scene, anim)
	if err != nil {
		return err
	}
	s.Resize(a.cfg.Width, a.cfg.Height)
	return a.engine.ReplaceScene(s, anim)
}

// watch reloads the scene whenever a scene or model file next to it changes.
// Bursts of events are coalesced into one reload.
func (a *app) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	dir := filepath.Dir(a.cfg.Scene)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	a.logger.Info("watching for scene changes", "dir", dir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, err := loader.DetectFormat(event.Name); err != nil {
				continue
			}
			a.loader.Invalidate(event.Name)
			pending = time.After(reloadDebounce)
		case <-pending:
			pending = nil
			if err := a.reload(); err != nil {
				a.logger.Error("scene reload failed", "path", a.cfg.Scene, "err", err)
				continue
			}
			a.logger.Info("scene reload queued", "path", a.cfg.Scene)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "err", err)
		}
	}
}

func (a *app) Close() {
	a.renderer.Close()
}
