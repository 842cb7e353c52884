package renderer

import (
	"errors"
	"slices"
	"sync"
)

// ErrFrameState is returned when frame calls arrive out of order.
var ErrFrameState = errors.New("renderer: frame calls out of order")

// RecordedDraw is one Draw call captured by a RecordingBackend.
type RecordedDraw struct {
	Command DrawCommand
	Uniform []byte
}

// RecordedFrame is one BeginFrame/EndFrame pair captured by a RecordingBackend.
type RecordedFrame struct {
	Uniforms FrameUniforms
	Draws    []RecordedDraw
}

type recordingBackend struct {
	mu        sync.Mutex
	frames    []RecordedFrame
	current   *RecordedFrame
	maxFrames int
	submitted uint64
}

// RecordingBackend is a headless Backend that keeps copies of the most recent
// frames in memory. It backs the CLI when no GPU is attached and the tests.
type RecordingBackend interface {
	Backend

	// Frames returns copies of the retained frames, oldest first.
	//
	// Returns:
	//   - []RecordedFrame: the retained frames
	Frames() []RecordedFrame

	// LastFrame returns the most recently submitted frame.
	//
	// Returns:
	//   - RecordedFrame: the last frame
	//   - bool: false if no frame has been submitted
	LastFrame() (RecordedFrame, bool)

	// Submitted returns the total number of frames submitted, including dropped ones.
	//
	// Returns:
	//   - uint64: submitted frame count
	Submitted() uint64
}

var _ RecordingBackend = &recordingBackend{}

// NewRecordingBackend creates a RecordingBackend retaining at most maxFrames
// frames. Values below 1 retain a single frame.
//
// Parameters:
//   - maxFrames: number of frames to keep
//
// Returns:
//   - RecordingBackend: the backend
func NewRecordingBackend(maxFrames int) RecordingBackend {
	return &recordingBackend{maxFrames: max(maxFrames, 1)}
}

func (b *recordingBackend) BeginFrame(frame FrameUniforms) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		return errors.Join(ErrFrameState, errors.New("BeginFrame called twice"))
	}
	b.current = &RecordedFrame{Uniforms: FrameUniforms{
		Camera: slices.Clone(frame.Camera),
		Lights: slices.Clone(frame.Lights),
	}}
	return nil
}

func (b *recordingBackend) Draw(cmd DrawCommand, uniform []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return errors.Join(ErrFrameState, errors.New("Draw outside a frame"))
	}
	b.current.Draws = append(b.current.Draws, RecordedDraw{Command: cmd, Uniform: slices.Clone(uniform)})
	return nil
}

func (b *recordingBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return errors.Join(ErrFrameState, errors.New("EndFrame without BeginFrame"))
	}
	b.frames = append(b.frames, *b.current)
	if over := len(b.frames) - b.maxFrames; over > 0 {
		b.frames = slices.Delete(b.frames, 0, over)
	}
	b.current = nil
	b.submitted++
	return nil
}

func (b *recordingBackend) Frames() []RecordedFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.frames)
}

func (b *recordingBackend) LastFrame() (RecordedFrame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return RecordedFrame{}, false
	}
	return b.frames[len(b.frames)-1], true
}

func (b *recordingBackend) Submitted() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitted
}
