// Package director plans camera moves: it generates shot scenarios, persists
// them as YAML and solves each shot into a frame-by-frame trajectory.
package director

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/ivlev/stagecraft/internal/camera"
	"github.com/ivlev/stagecraft/internal/spatial"
)

const scenarioVersion = "1.0"

// Director generates camera path scenarios for a scene.
type Director struct {
	FPS          int
	DefaultFocal float64
}

// NewDirector creates a Director with default settings.
func NewDirector(fps int) *Director {
	if fps <= 0 {
		fps = 24
	}
	return &Director{
		FPS:          fps,
		DefaultFocal: 35.0,
	}
}

// GenerateTurntable creates the standard product-shot scenario: one full
// orbit around the subject followed by a one second dolly push-in from the
// orbit's start position.
func (d *Director) GenerateTurntable(center spatial.Vec3, radius, height float64, frames spatial.FrameRange) (*Scenario, error) {
	if !frames.Valid() {
		return nil, fmt.Errorf("turntable frame range (%d, %d): %w", frames.Start, frames.End, camera.ErrInvalidArgument)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("turntable radius %v: %w", radius, camera.ErrInvalidArgument)
	}

	orbitStart := spatial.Vec3{X: center.X, Y: height, Z: center.Z + radius}
	pushEnd := orbitStart.Lerp(spatial.Vec3{X: center.X, Y: height, Z: center.Z}, 0.6)

	scenario := &Scenario{
		Version: scenarioVersion,
		FPS:     d.FPS,
		Shots: []Shot{
			{
				Name:        "turntable",
				Camera:      "/World/Cameras/Main",
				Move:        MoveOrbit,
				FrameStart:  frames.Start,
				FrameEnd:    frames.End,
				FocalLength: d.DefaultFocal,
				Orbit: &OrbitParams{
					Center: center,
					Radius: radius,
					Height: height,
				},
			},
			{
				Name:        "push_in",
				Camera:      "/World/Cameras/Main",
				Move:        MoveDolly,
				FrameStart:  frames.End + 1,
				FrameEnd:    frames.End + d.FPS,
				FocalLength: d.DefaultFocal,
				Easing:      "in_out_cubic",
				Dolly: &DollyParams{
					From:   orbitStart,
					To:     pushEnd,
					Target: center,
				},
			},
		},
	}

	return scenario, nil
}

// SolveShot turns a shot description into a concrete per-frame trajectory.
func SolveShot(shot *Shot) (*camera.OrbitPath, error) {
	fr := shot.Range()

	switch shot.Move {
	case MoveOrbit:
		if shot.Orbit == nil {
			return nil, fmt.Errorf("shot %q: missing orbit params", shot.Name)
		}
		return camera.GenerateOrbitPath(shot.Orbit.Center, shot.Orbit.Radius, shot.Orbit.Height, fr)

	case MoveDolly:
		if shot.Dolly == nil {
			return nil, fmt.Errorf("shot %q: missing dolly params", shot.Name)
		}
		fn, err := easingFunc(shot.Easing)
		if err != nil {
			return nil, fmt.Errorf("shot %q: %w", shot.Name, err)
		}
		return camera.GenerateDollyMove(shot.Dolly.From, shot.Dolly.To, shot.Dolly.Target, fr, fn)

	case MoveStatic:
		if shot.Static == nil {
			return nil, fmt.Errorf("shot %q: missing static params", shot.Name)
		}
		return camera.GenerateDollyMove(shot.Static.Position, shot.Static.Position, shot.Static.Target, fr, ease.Linear)

	default:
		return nil, fmt.Errorf("shot %q: unknown move %q: %w", shot.Name, shot.Move, camera.ErrInvalidArgument)
	}
}

// Validate checks a scenario before any authoring starts.
func Validate(s *Scenario) error {
	if s == nil || len(s.Shots) == 0 {
		return fmt.Errorf("scenario has no shots")
	}
	if s.FPS <= 0 {
		return fmt.Errorf("scenario fps %d: %w", s.FPS, camera.ErrInvalidArgument)
	}
	for i := range s.Shots {
		shot := &s.Shots[i]
		if shot.Camera == "" {
			return fmt.Errorf("shot %q: no camera path", shot.Name)
		}
		if !shot.Range().Valid() {
			return fmt.Errorf("shot %q: frame range (%d, %d) is empty", shot.Name, shot.FrameStart, shot.FrameEnd)
		}
	}
	return nil
}

func easingFunc(name string) (ease.TweenFunc, error) {
	switch name {
	case "", "in_out_cubic":
		return ease.InOutCubic, nil
	case "linear":
		return ease.Linear, nil
	case "in_out_quad":
		return ease.InOutQuad, nil
	case "out_cubic":
		return ease.OutCubic, nil
	case "in_out_sine":
		return ease.InOutSine, nil
	default:
		return nil, fmt.Errorf("unknown easing %q: %w", name, camera.ErrInvalidArgument)
	}
}
