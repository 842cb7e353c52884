package animator

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Property selects which local transform channel a tween writes.
type Property int

const (
	// PropertyPosition drives SetPositionV.
	PropertyPosition Property = iota
	// PropertyRotation drives SetEulerRotationV.
	PropertyRotation
	// PropertyScale drives SetScaleV.
	PropertyScale
)

// String returns the lowercase name used in scene files.
func (p Property) String() string {
	switch p {
	case PropertyPosition:
		return "position"
	case PropertyRotation:
		return "rotation"
	case PropertyScale:
		return "scale"
	}
	return fmt.Sprintf("Property(%d)", int(p))
}

// ParseProperty converts a scene-file name into a Property.
//
// Parameters:
//   - s: "position", "rotation" or "scale"
//
// Returns:
//   - Property: the parsed property
//   - bool: false if s names no property
func ParseProperty(s string) (Property, bool) {
	for _, p := range []Property{PropertyPosition, PropertyRotation, PropertyScale} {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

// LoopMode controls what a tween does when it reaches its end.
type LoopMode int

const (
	// LoopOnce stops the tween at its end value and removes it.
	LoopOnce LoopMode = iota
	// LoopRepeat restarts the tween from its start value.
	LoopRepeat
	// LoopPingPong plays the tween backwards and forwards.
	LoopPingPong
)

// TrackID identifies a track inside an Animator.
type TrackID uint64

// Tween interpolates one transform channel from From to To over Duration seconds.
type Tween struct {
	Target   transform.Transform
	Property Property
	From     mgl32.Vec3
	To       mgl32.Vec3
	Duration float32
	Delay    float32
	Easing   EasingFunc
	Loop     LoopMode
}

// Spin rotates a transform continuously by Speed radians per second on each axis.
type Spin struct {
	Target transform.Transform
	Speed  mgl32.Vec3
}

type track struct {
	id      TrackID
	tween   Tween
	spin    bool
	elapsed float32
	forward bool
}

// animator is the implementation of the Animator interface.
type animator struct {
	tracks []track
	nextID TrackID
	logger *slog.Logger
}

// Animator drives transforms over time through their public setters.
//
// Tracks are advanced in the order they were added, on the frame loop
// goroutine, so every write marks the target's subtree dirty exactly like an
// inspector edit would. A track whose target has been destroyed is dropped on
// the next Update.
type Animator interface {
	// AddTween starts a tween and writes its start value immediately.
	// Zero Duration completes on the first Update; nil Easing means Linear.
	//
	// Parameters:
	//   - tw: the tween definition
	//
	// Returns:
	//   - TrackID: the track identifier
	AddTween(tw Tween) TrackID

	// AddSpin starts a continuous rotation.
	//
	// Parameters:
	//   - s: the spin definition
	//
	// Returns:
	//   - TrackID: the track identifier
	AddSpin(s Spin) TrackID

	// Remove stops a track without touching its target.
	//
	// Parameters:
	//   - id: the track to stop
	//
	// Returns:
	//   - bool: false if the track was not running
	Remove(id TrackID) bool

	// Update advances every track by dt seconds.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Count returns the number of running tracks.
	//
	// Returns:
	//   - int: running track count
	Count() int

	// Clear stops every track.
	Clear()
}

var _ Animator = &animator{}

// NewAnimator creates an empty Animator.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the new animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		nextID: 1,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *animator) AddTween(tw Tween) TrackID {
	if tw.Easing == nil {
		tw.Easing = Linear
	}
	id := a.push(track{tween: tw, forward: true})
	if tw.Target != nil && tw.Target.Valid() {
		apply(tw.Target, tw.Property, tw.From)
	}
	return id
}

func (a *animator) AddSpin(s Spin) TrackID {
	return a.push(track{
		tween: Tween{Target: s.Target, Property: PropertyRotation, To: s.Speed},
		spin:  true,
	})
}

func (a *animator) push(t track) TrackID {
	t.id = a.nextID
	a.nextID++
	a.tracks = append(a.tracks, t)
	return t.id
}

func (a *animator) Remove(id TrackID) bool {
	i := slices.IndexFunc(a.tracks, func(t track) bool { return t.id == id })
	if i < 0 {
		return false
	}
	a.tracks = slices.Delete(a.tracks, i, i+1)
	return true
}

func (a *animator) Count() int {
	return len(a.tracks)
}

func (a *animator) Clear() {
	a.tracks = a.tracks[:0]
}

func (a *animator) Update(dt float32) {
	a.tracks = slices.DeleteFunc(a.tracks, func(t track) bool {
		return t.tween.Target == nil || !t.tween.Target.Valid()
	})

	kept := a.tracks[:0]
	for _, t := range a.tracks {
		if t.spin {
			t.tween.Target.RotateEulerV(t.tween.To.Mul(dt))
			kept = append(kept, t)
			continue
		}
		if a.step(&t, dt) {
			kept = append(kept, t)
		} else {
			a.logger.Debug("tween finished", "track", t.id, "target", t.tween.Target.Name(), "property", t.tween.Property)
		}
	}
	a.tracks = kept
}

// step advances a tween and writes the eased value. Reports whether the
// track is still running.
func (a *animator) step(t *track, dt float32) bool {
	tw := &t.tween
	t.elapsed += dt
	if t.elapsed < tw.Delay {
		return true
	}
	if tw.Duration <= 0 {
		apply(tw.Target, tw.Property, tw.To)
		return false
	}

	running := true
	progress := (t.elapsed - tw.Delay) / tw.Duration
	if progress >= 1 {
		switch tw.Loop {
		case LoopOnce:
			progress = 1
			running = false
		case LoopRepeat, LoopPingPong:
			cycles := int(progress)
			progress -= float32(cycles)
			t.elapsed -= float32(cycles) * tw.Duration
			if tw.Loop == LoopPingPong && cycles%2 == 1 {
				t.forward = !t.forward
			}
		}
	}

	if !t.forward {
		progress = 1 - progress
	}
	eased := tw.Easing(progress)
	apply(tw.Target, tw.Property, tw.From.Add(tw.To.Sub(tw.From).Mul(eased)))
	return running
}

func apply(target transform.Transform, p Property, v mgl32.Vec3) {
	switch p {
	case PropertyPosition:
		target.SetPositionV(v)
	case PropertyRotation:
		target.SetEulerRotationV(v)
	case PropertyScale:
		target.SetScaleV(v)
	}
}
