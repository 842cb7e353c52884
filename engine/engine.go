package engine

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/contraption/engine/animator"
	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/profiler"
	"github.com/Carmen-Shannon/contraption/engine/renderer"
	"github.com/Carmen-Shannon/contraption/engine/scene"
	"github.com/Carmen-Shannon/contraption/internal/metrics"
	"github.com/pkg/errors"
)

const defaultQueueSize = 256

var (
	// ErrQueueFull is returned by Enqueue when the command queue has no free slot.
	ErrQueueFull = stderrors.New("engine: command queue full")

	// ErrStopped is returned when submitting work to an engine that has quit.
	ErrStopped = stderrors.New("engine: stopped")

	// ErrRunning is returned by Run when the loop is already running.
	ErrRunning = stderrors.New("engine: already running")
)

// Command mutates the scene on the frame loop goroutine.
type Command func(s scene.Scene)

// FrameInfo describes the last completed frame.
type FrameInfo struct {
	Frame    uint64              `json:"frame"`
	Delta    float32             `json:"delta"`
	Elapsed  time.Duration       `json:"elapsed"`
	Commands int                 `json:"commands"`
	Render   renderer.FrameStats `json:"render"`
}

// engine implements the Engine interface.
type engine struct {
	scene    scene.Scene
	renderer renderer.Renderer
	animator animator.Animator
	input    camera.Input

	commands chan func(*engine)

	snapshot  atomic.Pointer[scene.Snapshot]
	lastFrame atomic.Pointer[FrameInfo]
	frames    atomic.Uint64

	running     atomic.Bool
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool
	metrics          *metrics.Metrics
	logger           *slog.Logger

	engineTickRate time.Duration
	frameLimit     uint64
	queueSize      int
	tickCallback   func(deltaTime float32)
}

// Engine owns a scene and drives it one frame at a time.
//
// A frame is strictly sequential on the goroutine running the loop: drain the
// command queue, apply camera input, advance animations, run the tick callback,
// draw through the renderer, then publish an immutable snapshot. The scene and
// its transform graph are only ever touched on that goroutine. Every other
// goroutine talks to the engine through Enqueue, Do and Snapshot.
type Engine interface {
	// Run drives frames at the tick rate until ctx is cancelled, Quit is
	// called, the frame limit is reached, or a frame fails.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: nil on a clean stop, ErrRunning, or the failing frame's error
	Run(ctx context.Context) error

	// Step runs a single frame on the calling goroutine. It must not be called
	// concurrently with Run.
	//
	// Parameters:
	//   - dt: frame time in seconds
	//
	// Returns:
	//   - FrameInfo: what the frame did
	//   - error: a renderer error other than ErrNoCamera
	Step(dt float32) (FrameInfo, error)

	// Enqueue schedules cmd to run at the start of the next frame. It never blocks.
	//
	// Parameters:
	//   - cmd: the scene mutation
	//
	// Returns:
	//   - error: ErrQueueFull or ErrStopped
	Enqueue(cmd Command) error

	// Do runs fn at the start of the next frame and waits for its result.
	//
	// Parameters:
	//   - ctx: bounds the wait
	//   - fn: the scene mutation
	//
	// Returns:
	//   - error: fn's error, ctx's error, ErrQueueFull or ErrStopped
	Do(ctx context.Context, fn func(s scene.Scene) error) error

	// ReplaceScene schedules a scene swap for the start of the next frame. The
	// new scene's cameras are sized like the old active camera.
	//
	// Parameters:
	//   - s: the new scene
	//   - anim: animator holding the new scene's tracks; nil clears the current one
	//
	// Returns:
	//   - error: ErrQueueFull or ErrStopped
	ReplaceScene(s scene.Scene, anim animator.Animator) error

	// Snapshot returns the scene state published after the last frame.
	//
	// Returns:
	//   - scene.Snapshot: the snapshot
	//   - bool: false before the first frame completes
	Snapshot() (scene.Snapshot, bool)

	// LastFrame returns statistics for the last completed frame.
	//
	// Returns:
	//   - FrameInfo: the frame statistics
	//   - bool: false before the first frame completes
	LastFrame() (FrameInfo, bool)

	// Frames returns the number of completed frames.
	//
	// Returns:
	//   - uint64: frame count
	Frames() uint64

	// Animator returns the animator advanced every frame. Only use it from
	// commands or before Run.
	//
	// Returns:
	//   - animator.Animator: the animator
	Animator() animator.Animator

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called each frame after animation.
	// Must be called before Run.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Quit stops the loop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine for s drawn through r.
// Panics when either is nil.
//
// Parameters:
//   - s: the scene to drive
//   - r: the renderer that draws it
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(s scene.Scene, r renderer.Renderer, options ...EngineBuilderOption) Engine {
	if s == nil {
		panic("engine: nil scene")
	}
	if r == nil {
		panic("engine: nil renderer")
	}

	e := &engine{
		scene:          s,
		renderer:       r,
		quitChannel:    make(chan struct{}),
		engineTickRate: time.Second / 60,
		queueSize:      defaultQueueSize,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		opt(e)
	}

	e.commands = make(chan func(*engine), e.queueSize)
	if e.animator == nil {
		e.animator = animator.NewAnimator(animator.WithLogger(e.logger))
	}
	if e.profiler == nil {
		var opts []profiler.ProfilerBuilderOption
		opts = append(opts, profiler.WithLogger(e.logger))
		if e.metrics != nil {
			opts = append(opts, profiler.WithGauges(e.metrics.FPS, e.metrics.HeapBytes))
		}
		e.profiler = profiler.NewProfiler(opts...)
	}
	return e
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer e.running.Store(false)

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	e.logger.Info("engine started", "scene", e.scene.Name(), "tick", e.engineTickRate, "frame_limit", e.frameLimit)
	lastTick := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", "reason", ctx.Err(), "frames", e.Frames())
			return nil
		case <-e.quitChannel:
			e.logger.Info("engine stopped", "reason", "quit", "frames", e.Frames())
			return nil
		case now := <-ticker.C:
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if _, err := e.Step(dt); err != nil {
				return err
			}
			if e.frameLimit > 0 && e.Frames() >= e.frameLimit {
				e.logger.Info("engine stopped", "reason", "frame limit", "frames", e.Frames())
				return nil
			}
		}
	}
}

func (e *engine) Step(dt float32) (FrameInfo, error) {
	start := time.Now()
	info := FrameInfo{Delta: dt}

	info.Commands = e.drain()
	e.metrics.ObserveCommands(info.Commands)

	if cam := e.scene.ActiveCamera(); cam != nil && e.input != nil {
		if ctrl := cam.Controller(); ctrl != nil {
			ctrl.Update(cam, e.input, dt)
		}
	}
	e.animator.Update(dt)
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	stats, err := e.renderer.RenderFrame(e.scene)
	switch {
	case errors.Is(err, renderer.ErrNoCamera):
		e.logger.Debug("frame skipped", "err", err)
	case err != nil:
		return info, errors.Wrapf(err, "frame %d", e.frames.Load()+1)
	}
	info.Render = stats

	graph := e.scene.Graph()
	snap := e.scene.Snapshot()
	e.snapshot.Store(&snap)
	e.metrics.ObserveFrame(stats, graph.Stats(), time.Since(start))
	graph.ResetStats()

	if e.profilingEnabled {
		e.profiler.Tick()
	}

	info.Frame = e.frames.Add(1)
	info.Elapsed = time.Since(start)
	e.lastFrame.Store(&info)
	return info, nil
}

// drain runs every command queued when the frame started. Commands queued by
// those commands wait for the next frame.
func (e *engine) drain() int {
	n := len(e.commands)
	for i := range n {
		select {
		case cmd := <-e.commands:
			cmd(e)
		default:
			return i
		}
	}
	return n
}

func (e *engine) submit(cmd func(*engine)) error {
	select {
	case <-e.quitChannel:
		return ErrStopped
	default:
	}
	select {
	case e.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

func (e *engine) Enqueue(cmd Command) error {
	return e.submit(func(e *engine) { cmd(e.scene) })
}

func (e *engine) Do(ctx context.Context, fn func(s scene.Scene) error) error {
	done := make(chan error, 1)
	if err := e.submit(func(e *engine) { done <- fn(e.scene) }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quitChannel:
		return ErrStopped
	}
}

func (e *engine) ReplaceScene(s scene.Scene, anim animator.Animator) error {
	if s == nil {
		panic("engine: nil scene")
	}
	return e.submit(func(e *engine) {
		if old := e.scene.ActiveCamera(); old != nil {
			for _, cam := range s.Cameras() {
				cam.SetAspect(old.Aspect())
			}
		}
		if anim != nil {
			e.animator = anim
		} else {
			e.animator.Clear()
		}
		e.scene = s
		e.metrics.ObserveReload()
		e.logger.Info("scene replaced", "scene", s.Name(), "entities", s.Count())
	})
}

func (e *engine) Snapshot() (scene.Snapshot, bool) {
	snap := e.snapshot.Load()
	if snap == nil {
		return scene.Snapshot{}, false
	}
	return *snap, true
}

func (e *engine) LastFrame() (FrameInfo, bool) {
	info := e.lastFrame.Load()
	if info == nil {
		return FrameInfo{}, false
	}
	return *info, true
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Animator() animator.Animator {
	return e.animator
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// Quit closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
