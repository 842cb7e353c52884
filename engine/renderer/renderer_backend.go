package renderer

// FrameUniforms holds the per-frame GPU blocks bound once before any draw.
type FrameUniforms struct {
	// Camera is the marshaled camera.GPUCameraUniform of the active camera.
	Camera []byte
	// Lights is the marshaled light buffer (header followed by enabled lights).
	Lights []byte
}

// Backend is the graphics API the renderer submits frames to.
//
// The renderer calls BeginFrame once, Draw once per visible entity in walk
// order, then EndFrame, all from the frame loop goroutine. Buffers passed to a
// Backend are owned by the renderer and reused on the next frame; a Backend
// that keeps them must copy.
type Backend interface {
	// BeginFrame starts a frame and binds the per-frame uniforms.
	//
	// Parameters:
	//   - frame: the camera and light blocks for this frame
	//
	// Returns:
	//   - error: an error if the frame could not be started
	BeginFrame(frame FrameUniforms) error

	// Draw records one draw of cmd.Mesh with the given per-draw uniform.
	//
	// Parameters:
	//   - cmd: the resolved draw command
	//   - uniform: the marshaled GPUDrawUniform for cmd
	//
	// Returns:
	//   - error: an error if the draw could not be recorded
	Draw(cmd DrawCommand, uniform []byte) error

	// EndFrame submits the frame.
	//
	// Returns:
	//   - error: an error if submission failed
	EndFrame() error
}
