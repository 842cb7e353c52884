package renderer

import (
	stderrors "errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ErrNoCamera is returned by RenderFrame when the scene has no active camera.
var ErrNoCamera = stderrors.New("renderer: scene has no active camera")

// Source is everything RenderFrame reads from a scene.
type Source interface {
	Drawables

	// ActiveCamera returns the camera to draw from, or nil.
	ActiveCamera() camera.Camera

	// Lights returns the scene lights in order.
	Lights() []light.Light

	// AmbientColor returns the scene ambient colour.
	AmbientColor() mgl32.Vec3
}

// FrameStats describes one rendered frame.
type FrameStats struct {
	Draws  int
	Culled int
	Walk   time.Duration
	Encode time.Duration
	Submit time.Duration
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backend Backend
	logger  *slog.Logger
	walker  Walker

	commands []DrawCommand
	uniforms []byte

	// encodePool fans uniform encoding out over a bounded set of reusable
	// goroutines. Tasks only read DrawCommand copies, never the graph.
	encodePool        worker.DynamicWorkerPool
	encodeWorkers     int
	parallelThreshold int
}

// Renderer draws a scene through a Backend.
//
// Each frame is strictly sequential on the calling goroutine: refresh the
// active camera, walk the graph into draw commands, encode the per-draw
// uniforms, then submit. Only the encoding step runs on the worker pool, and
// it operates on value copies of commands that were fully resolved by the walk.
type Renderer interface {
	// Backend returns the backend frames are submitted to.
	//
	// Returns:
	//   - Backend: the backend
	Backend() Backend

	// RenderFrame draws one frame of src.
	//
	// Parameters:
	//   - src: the scene to draw
	//
	// Returns:
	//   - FrameStats: counts and timings for the frame
	//   - error: ErrNoCamera, or a wrapped backend error
	RenderFrame(src Source) (FrameStats, error)

	// Commands returns the draw commands collected by the last RenderFrame.
	// The slice is reused by the next frame.
	//
	// Returns:
	//   - []DrawCommand: the last frame's commands
	Commands() []DrawCommand

	// Close stops the encoding workers.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer submitting to backend. The backend is required
// and NewRenderer panics if it is nil.
//
// Parameters:
//   - backend: the graphics backend
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(backend Backend, options ...RendererBuilderOption) Renderer {
	if backend == nil {
		panic("renderer: NewRenderer requires a non-nil Backend")
	}
	r := &renderer{
		backend:           backend,
		logger:            slog.New(slog.DiscardHandler),
		encodeWorkers:     max(runtime.NumCPU()-1, 1),
		parallelThreshold: 64,
	}
	for _, option := range options {
		option(r)
	}

	// Queue size of 256 accommodates one task per worker with headroom.
	r.encodePool = worker.NewDynamicWorkerPool(r.encodeWorkers, 256, 1*time.Second)
	return r
}

func (r *renderer) Backend() Backend {
	return r.backend
}

func (r *renderer) Commands() []DrawCommand {
	return r.commands
}

func (r *renderer) Close() {
	r.encodePool.Stop()
}

func (r *renderer) RenderFrame(src Source) (FrameStats, error) {
	var stats FrameStats

	cam := src.ActiveCamera()
	if cam == nil {
		return stats, ErrNoCamera
	}
	cam.Update()

	start := time.Now()
	r.commands = r.walker.Collect(src, cam.ViewMatrix(), cam.ProjectionMatrix(), r.commands[:0])
	stats.Draws = len(r.commands)
	stats.Culled = r.walker.Culled
	stats.Walk = time.Since(start)

	start = time.Now()
	r.encode()
	stats.Encode = time.Since(start)

	start = time.Now()
	camUniform := cam.Uniform()
	frame := FrameUniforms{
		Camera: camUniform.Marshal(),
		Lights: light.MarshalLightBuffer(src.Lights(), src.AmbientColor()),
	}
	if err := r.backend.BeginFrame(frame); err != nil {
		return stats, errors.Wrap(err, "begin frame")
	}

	size := (&GPUDrawUniform{}).Size()
	for i := range r.commands {
		if err := r.backend.Draw(r.commands[i], r.uniforms[i*size:(i+1)*size]); err != nil {
			return stats, errors.Wrapf(err, "draw %q", r.commands[i].Name)
		}
	}

	if err := r.backend.EndFrame(); err != nil {
		return stats, errors.Wrap(err, "end frame")
	}
	stats.Submit = time.Since(start)

	return stats, nil
}

// encode marshals the uniform of every collected command into r.uniforms.
// Small frames are encoded inline; larger ones are split into one contiguous
// chunk per worker, each writing a disjoint range of the buffer.
func (r *renderer) encode() {
	size := (&GPUDrawUniform{}).Size()
	n := len(r.commands)
	if need := n * size; cap(r.uniforms) < need {
		r.uniforms = make([]byte, need)
	} else {
		r.uniforms = r.uniforms[:need]
	}

	if n < r.parallelThreshold || r.encodeWorkers == 1 {
		encodeRange(r.commands, r.uniforms, 0, n, size)
		return
	}

	chunk := (n + r.encodeWorkers - 1) / r.encodeWorkers
	var wg sync.WaitGroup
	taskID := 0
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		r.encodePool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				encodeRange(r.commands, r.uniforms, lo, hi, size)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
	r.logger.Debug("uniforms encoded", "draws", n, "tasks", taskID)
}

func encodeRange(cmds []DrawCommand, dst []byte, lo, hi, size int) {
	for i := lo; i < hi; i++ {
		u := cmds[i].Uniform()
		u.AppendTo(dst[i*size : i*size])
	}
}
