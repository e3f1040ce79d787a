package director

import (
	"errors"
	"math"
	"testing"

	"github.com/ivlev/stagecraft/internal/camera"
	"github.com/ivlev/stagecraft/internal/spatial"
)

func TestGenerateTurntable(t *testing.T) {
	d := NewDirector(24)

	s, err := d.GenerateTurntable(spatial.V3(0, 1, 0), 10, 5, spatial.FrameRange{Start: 0, End: 119})
	if err != nil {
		t.Fatalf("GenerateTurntable failed: %v", err)
	}

	if err := Validate(s); err != nil {
		t.Fatalf("generated scenario failed validation: %v", err)
	}
	if len(s.Shots) != 2 {
		t.Fatalf("got %d shots, want 2", len(s.Shots))
	}

	orbit := s.Shots[0]
	if orbit.Move != MoveOrbit || orbit.FrameStart != 0 || orbit.FrameEnd != 119 {
		t.Errorf("orbit shot = %+v", orbit)
	}

	push := s.Shots[1]
	if push.Move != MoveDolly {
		t.Errorf("second shot move = %s, want dolly", push.Move)
	}
	if push.FrameStart != 120 || push.FrameEnd != 120+d.FPS-1 {
		t.Errorf("push shot range = (%d, %d)", push.FrameStart, push.FrameEnd)
	}
	// The push-in starts where the orbit loop closes.
	if push.Dolly == nil || push.Dolly.From != spatial.V3(0, 5, 10) {
		t.Errorf("push shot params = %+v", push.Dolly)
	}
}

func TestGenerateTurntableInvalid(t *testing.T) {
	d := NewDirector(24)

	if _, err := d.GenerateTurntable(spatial.Vec3{}, 0, 5, spatial.FrameRange{Start: 0, End: 10}); !errors.Is(err, camera.ErrInvalidArgument) {
		t.Errorf("zero radius: err = %v", err)
	}
	if _, err := d.GenerateTurntable(spatial.Vec3{}, 10, 5, spatial.FrameRange{Start: 10, End: 0}); !errors.Is(err, camera.ErrInvalidArgument) {
		t.Errorf("inverted range: err = %v", err)
	}
}

func TestSolveShotOrbit(t *testing.T) {
	shot := &Shot{
		Name:       "turn",
		Camera:     "/World/Cameras/Main",
		Move:       MoveOrbit,
		FrameStart: 0,
		FrameEnd:   3,
		Orbit:      &OrbitParams{Center: spatial.V3(0, 5, 0), Radius: 10, Height: 5},
	}

	path, err := SolveShot(shot)
	if err != nil {
		t.Fatalf("SolveShot failed: %v", err)
	}
	if path.Len() != 4 {
		t.Fatalf("path has %d frames, want 4", path.Len())
	}

	// Quarter-circle steps: +Z, +X, -Z, -X.
	want := []spatial.Vec3{
		spatial.V3(0, 5, 10),
		spatial.V3(10, 5, 0),
		spatial.V3(0, 5, -10),
		spatial.V3(-10, 5, 0),
	}
	for i, w := range want {
		got := path.Positions[i]
		if math.Abs(got.X-w.X) > 1e-9 || math.Abs(got.Y-w.Y) > 1e-9 || math.Abs(got.Z-w.Z) > 1e-9 {
			t.Errorf("frame %d position = %+v, want %+v", i, got, w)
		}
	}
}

func TestSolveShotDolly(t *testing.T) {
	shot := &Shot{
		Name:       "push",
		Move:       MoveDolly,
		FrameStart: 0,
		FrameEnd:   23,
		Easing:     "linear",
		Dolly: &DollyParams{
			From:   spatial.V3(0, 5, 20),
			To:     spatial.V3(0, 5, 8),
			Target: spatial.V3(0, 1, 0),
		},
	}

	path, err := SolveShot(shot)
	if err != nil {
		t.Fatalf("SolveShot failed: %v", err)
	}
	if path.Positions[0] != shot.Dolly.From || path.Positions[path.Len()-1] != shot.Dolly.To {
		t.Error("dolly endpoints must match the shot params")
	}
	for i := range path.Targets {
		if path.Targets[i] != shot.Dolly.Target {
			t.Fatalf("frame %d target drifted: %+v", i, path.Targets[i])
		}
	}
}

func TestSolveShotStatic(t *testing.T) {
	shot := &Shot{
		Name:       "hero",
		Move:       MoveStatic,
		FrameStart: 10,
		FrameEnd:   20,
		Static:     &StaticParams{Position: spatial.V3(3, 4, 12), Target: spatial.V3(0, 1, 0)},
	}

	path, err := SolveShot(shot)
	if err != nil {
		t.Fatalf("SolveShot failed: %v", err)
	}
	if path.Len() != 11 {
		t.Fatalf("path has %d frames, want 11", path.Len())
	}
	for i := range path.Positions {
		if path.Positions[i] != shot.Static.Position {
			t.Fatalf("static shot moved at frame %d", i)
		}
	}
}

func TestSolveShotErrors(t *testing.T) {
	cases := []struct {
		name string
		shot Shot
	}{
		{"unknown move", Shot{Name: "x", Move: "spiral", FrameStart: 0, FrameEnd: 1}},
		{"missing orbit params", Shot{Name: "x", Move: MoveOrbit, FrameStart: 0, FrameEnd: 1}},
		{"missing dolly params", Shot{Name: "x", Move: MoveDolly, FrameStart: 0, FrameEnd: 1}},
		{"missing static params", Shot{Name: "x", Move: MoveStatic, FrameStart: 0, FrameEnd: 1}},
		{"bad easing", Shot{Name: "x", Move: MoveDolly, FrameStart: 0, FrameEnd: 1, Easing: "bounce", Dolly: &DollyParams{}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := SolveShot(&tc.shot); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(&Scenario{Version: "1.0", FPS: 24}); err == nil {
		t.Error("empty scenario should fail")
	}

	s := &Scenario{
		Version: "1.0",
		FPS:     24,
		Shots:   []Shot{{Name: "a", Camera: "/World/Cameras/Main", Move: MoveOrbit, FrameStart: 5, FrameEnd: 1}},
	}
	if err := Validate(s); err == nil {
		t.Error("inverted shot range should fail")
	}

	s.Shots[0].FrameEnd = 10
	s.Shots[0].Camera = ""
	if err := Validate(s); err == nil {
		t.Error("missing camera path should fail")
	}
}
