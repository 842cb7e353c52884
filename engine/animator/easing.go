package animator

import (
	"sort"

	"github.com/chewxy/math32"
)

// EasingFunc maps normalized time in [0, 1] to normalized progress.
// Every curve returns 0 at t=0 and 1 at t=1; back and elastic curves overshoot in between.
type EasingFunc func(t float32) float32

// PlotSamples is the number of samples in a curve preview.
const PlotSamples = 120

const (
	backC1    = 1.70158
	backC2    = backC1 * 1.525
	backC3    = backC1 + 1
	elasticC4 = 2 * math32.Pi / 3
	elasticC5 = 2 * math32.Pi / 4.5
)

// Linear returns t unchanged.
func Linear(t float32) float32 { return t }

// EaseInSine accelerates along a quarter sine wave.
func EaseInSine(t float32) float32 { return 1 - math32.Cos(t*math32.Pi/2) }

// EaseOutSine decelerates along a quarter sine wave.
func EaseOutSine(t float32) float32 { return math32.Sin(t * math32.Pi / 2) }

// EaseInOutSine accelerates then decelerates along a half cosine wave.
func EaseInOutSine(t float32) float32 { return -(math32.Cos(math32.Pi*t) - 1) / 2 }

// EaseInQuad accelerates quadratically.
func EaseInQuad(t float32) float32 { return t * t }

// EaseOutQuad decelerates quadratically.
func EaseOutQuad(t float32) float32 { return 1 - (1-t)*(1-t) }

// EaseInOutQuad accelerates then decelerates quadratically.
func EaseInOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math32.Pow(-2*t+2, 2)/2
}

func EaseInCubic(t float32) float32  { return t * t * t }
func EaseOutCubic(t float32) float32 { return 1 - math32.Pow(1-t, 3) }

func EaseInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math32.Pow(-2*t+2, 3)/2
}

func EaseInQuart(t float32) float32  { return t * t * t * t }
func EaseOutQuart(t float32) float32 { return 1 - math32.Pow(1-t, 4) }

func EaseInOutQuart(t float32) float32 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	return 1 - math32.Pow(-2*t+2, 4)/2
}

func EaseInQuint(t float32) float32  { return t * t * t * t * t }
func EaseOutQuint(t float32) float32 { return 1 - math32.Pow(1-t, 5) }

func EaseInOutQuint(t float32) float32 {
	if t < 0.5 {
		return 16 * t * t * t * t * t
	}
	return 1 - math32.Pow(-2*t+2, 5)/2
}

func EaseInExpo(t float32) float32 {
	if t == 0 {
		return 0
	}
	return math32.Pow(2, 10*t-10)
}

func EaseOutExpo(t float32) float32 {
	if t == 1 {
		return 1
	}
	return 1 - math32.Pow(2, -10*t)
}

func EaseInOutExpo(t float32) float32 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return math32.Pow(2, 20*t-10) / 2
	}
	return (2 - math32.Pow(2, -20*t+10)) / 2
}

func EaseInCirc(t float32) float32  { return 1 - math32.Sqrt(1-t*t) }
func EaseOutCirc(t float32) float32 { return math32.Sqrt(1 - (t-1)*(t-1)) }

func EaseInOutCirc(t float32) float32 {
	if t < 0.5 {
		return (1 - math32.Sqrt(1-4*t*t)) / 2
	}
	return (math32.Sqrt(1-math32.Pow(-2*t+2, 2)) + 1) / 2
}

func EaseInBack(t float32) float32 { return backC3*t*t*t - backC1*t*t }

func EaseOutBack(t float32) float32 {
	return 1 + backC3*math32.Pow(t-1, 3) + backC1*math32.Pow(t-1, 2)
}

func EaseInOutBack(t float32) float32 {
	if t < 0.5 {
		return (math32.Pow(2*t, 2) * ((backC2+1)*2*t - backC2)) / 2
	}
	return (math32.Pow(2*t-2, 2)*((backC2+1)*(t*2-2)+backC2) + 2) / 2
}

func EaseInElastic(t float32) float32 {
	if t == 0 || t == 1 {
		return t
	}
	return -math32.Pow(2, 10*t-10) * math32.Sin((t*10-10.75)*elasticC4)
}

func EaseOutElastic(t float32) float32 {
	if t == 0 || t == 1 {
		return t
	}
	return math32.Pow(2, -10*t)*math32.Sin((t*10-0.75)*elasticC4) + 1
}

func EaseInOutElastic(t float32) float32 {
	switch {
	case t == 0 || t == 1:
		return t
	case t < 0.5:
		return -(math32.Pow(2, 20*t-10) * math32.Sin((20*t-11.125)*elasticC5)) / 2
	}
	return (math32.Pow(2, -20*t+10)*math32.Sin((20*t-11.125)*elasticC5))/2 + 1
}

func EaseInBounce(t float32) float32 { return 1 - EaseOutBounce(1-t) }

func EaseOutBounce(t float32) float32 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	}
	t -= 2.625 / d1
	return n1*t*t + 0.984375
}

func EaseInOutBounce(t float32) float32 {
	if t < 0.5 {
		return (1 - EaseOutBounce(1-2*t)) / 2
	}
	return (1 + EaseOutBounce(2*t-1)) / 2
}

var easings = map[string]EasingFunc{
	"Linear":           Linear,
	"EaseInSine":       EaseInSine,
	"EaseOutSine":      EaseOutSine,
	"EaseInOutSine":    EaseInOutSine,
	"EaseInQuad":       EaseInQuad,
	"EaseOutQuad":      EaseOutQuad,
	"EaseInOutQuad":    EaseInOutQuad,
	"EaseInCubic":      EaseInCubic,
	"EaseOutCubic":     EaseOutCubic,
	"EaseInOutCubic":   EaseInOutCubic,
	"EaseInQuart":      EaseInQuart,
	"EaseOutQuart":     EaseOutQuart,
	"EaseInOutQuart":   EaseInOutQuart,
	"EaseInQuint":      EaseInQuint,
	"EaseOutQuint":     EaseOutQuint,
	"EaseInOutQuint":   EaseInOutQuint,
	"EaseInExpo":       EaseInExpo,
	"EaseOutExpo":      EaseOutExpo,
	"EaseInOutExpo":    EaseInOutExpo,
	"EaseInCirc":       EaseInCirc,
	"EaseOutCirc":      EaseOutCirc,
	"EaseInOutCirc":    EaseInOutCirc,
	"EaseInBack":       EaseInBack,
	"EaseOutBack":      EaseOutBack,
	"EaseInOutBack":    EaseInOutBack,
	"EaseInElastic":    EaseInElastic,
	"EaseOutElastic":   EaseOutElastic,
	"EaseInOutElastic": EaseInOutElastic,
	"EaseInBounce":     EaseInBounce,
	"EaseOutBounce":    EaseOutBounce,
	"EaseInOutBounce":  EaseInOutBounce,
}

// Easing looks up a curve by name, e.g. "EaseInOutSine".
//
// Parameters:
//   - name: the curve name
//
// Returns:
//   - EasingFunc: the curve
//   - bool: false if no curve has that name
func Easing(name string) (EasingFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// EasingNames returns every registered curve name in sorted order.
//
// Returns:
//   - []string: the curve names
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plot samples fn at PlotSamples evenly spaced points n/PlotSamples for
// n in [0, PlotSamples), producing a preview line for the inspector.
//
// Parameters:
//   - fn: the curve to sample
//
// Returns:
//   - []float32: the sampled values
func Plot(fn EasingFunc) []float32 {
	out := make([]float32, PlotSamples)
	for n := range out {
		out[n] = fn(float32(n) / PlotSamples)
	}
	return out
}
