package sequence

import (
	"context"
	"time"

	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/render"
)

// Keyframe represents a value at time T (seconds) with an easing function
// that applies to the segment starting at this keyframe.
type Keyframe struct {
	T    float64 `yaml:"t"`
	V    float64 `yaml:"v"`
	Ease string  `yaml:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a sorted list of keyframes; Eval(t) interpolates a value.
type Envelope struct {
	Keys []Keyframe `yaml:"keys,omitempty"`
}

// Clip is one animation of a show. MaxBrightness, FPS and StarSize come from
// the player's base settings; everything else is the clip's own.
type Clip struct {
	Name      string      `yaml:"name"`
	Mode      render.Mode `yaml:"mode"`
	DurationS float64     `yaml:"durationS"`
	// Geometry overrides the shape the player derives from the mode.
	Geometry       *layout.Geometry `yaml:"geometry,omitempty"`
	Fuzziness      float64          `yaml:"fuzziness"`
	Speed          float64          `yaml:"speed"`
	Boomerang      bool             `yaml:"boomerang,omitempty"`
	CenterMinValue float64          `yaml:"centerMinValue"`
	// Unscaled and Spoke select the party show kernels, see render.Settings.
	Unscaled bool `yaml:"unscaled,omitempty"`
	Spoke    bool `yaml:"spoke,omitempty"`
	// OffAfterS turns the star off and pauses after the clip.
	OffAfterS float64 `yaml:"offAfterS,omitempty"`
	// Fade scales the brightness ceiling over the clip's local time.
	Fade Envelope `yaml:"fade,omitempty"`
}

// Program is a full sequence of clips.
type Program struct {
	Version string `yaml:"version"` // e.g., "seq.v1"
	Loop    bool   `yaml:"loop,omitempty"`
	Clips   []Clip `yaml:"clips"`
}

// PlayerState enumerates sequencer states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
)

// Hooks are dependency-injected callbacks into the render engine.
type Hooks struct {
	// Relayout reshapes the star before a clip.
	Relayout func(g layout.Geometry) error
	// Animate blocks for the clip's duration or until ctx is done.
	Animate func(ctx context.Context, s render.Settings) error
	Off     func() error
	Sleep   func(ctx context.Context, d time.Duration) error
}
