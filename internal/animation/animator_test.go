package animation

import (
	"errors"
	"strings"
	"testing"

	"github.com/ivlev/stagecraft/internal/camera"
	"github.com/ivlev/stagecraft/internal/spatial"
	"github.com/ivlev/stagecraft/internal/stage"
)

func newCameraStage(t *testing.T) (*stage.Stage, *stage.Prim) {
	t.Helper()
	st := stage.New()
	p, err := st.DefinePrim("/World/Cameras/Main", "Camera")
	if err != nil {
		t.Fatal(err)
	}
	return st, p
}

func TestAnimateCameraOrbit(t *testing.T) {
	st, prim := newCameraStage(t)

	path, err := camera.GenerateOrbitPath(spatial.V3(0, 1, 0), 10, 5, spatial.FrameRange{Start: 0, End: 119})
	if err != nil {
		t.Fatal(err)
	}
	if err := AnimateCamera(st, "/World/Cameras/Main", path); err != nil {
		t.Fatalf("AnimateCamera failed: %v", err)
	}

	for _, name := range []string{"xformOp:translate", "xformOp:rotateY", "xformOp:rotateX"} {
		a, ok := prim.Attr(name)
		if !ok {
			t.Fatalf("missing %s", name)
		}
		if len(a.Samples) != 120 {
			t.Errorf("%s has %d samples, want 120", name, len(a.Samples))
		}
	}

	start, end, ok := st.TimeCodes()
	if !ok || start != 0 || end != 119 {
		t.Errorf("time codes = (%d, %d, %v), want (0, 119)", start, end, ok)
	}

	out := st.String()
	if !strings.Contains(out, "double3 xformOp:translate.timeSamples = {") {
		t.Error("serialized stage lacks translate samples")
	}
}

func TestAnimateCameraDegenerateFrameAuthorsNothing(t *testing.T) {
	st, prim := newCameraStage(t)

	// Height equal to the center height with zero radius: every frame is
	// degenerate.
	path, err := camera.GenerateOrbitPath(spatial.V3(0, 5, 0), 0, 5, spatial.FrameRange{Start: 0, End: 9})
	if err != nil {
		t.Fatal(err)
	}

	err = AnimateCamera(st, "/World/Cameras/Main", path)
	if !errors.Is(err, camera.ErrDegenerateDirection) {
		t.Fatalf("err = %v, want ErrDegenerateDirection", err)
	}

	if prim.HasAttr("xformOp:translate") {
		t.Error("failed animation must not leave samples behind")
	}
	if _, _, ok := st.TimeCodes(); ok {
		t.Error("failed animation must not set time codes")
	}
}

func TestAnimateCameraMissingPrim(t *testing.T) {
	st := stage.New()
	path, _ := camera.GenerateOrbitPath(spatial.Vec3{}, 10, 5, spatial.FrameRange{Start: 0, End: 3})

	if err := AnimateCamera(st, "/World/Cameras/Ghost", path); err == nil {
		t.Error("animating an undefined prim should fail")
	}
}

func TestAnimateCameraExtendsTimeCodes(t *testing.T) {
	st, _ := newCameraStage(t)
	st.SetTimeCodes(0, 50)

	path, _ := camera.GenerateOrbitPath(spatial.V3(0, 0, 0), 10, 5, spatial.FrameRange{Start: 40, End: 200})
	if err := AnimateCamera(st, "/World/Cameras/Main", path); err != nil {
		t.Fatal(err)
	}

	start, end, _ := st.TimeCodes()
	if start != 0 || end != 200 {
		t.Errorf("time codes = (%d, %d), want (0, 200)", start, end)
	}
}

func TestAnimateCameraDolly(t *testing.T) {
	st, prim := newCameraStage(t)

	path, err := camera.GenerateDollyMove(spatial.V3(0, 5, 20), spatial.V3(0, 5, 4), spatial.V3(0, 1, 0), spatial.FrameRange{Start: 0, End: 48}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := AnimateCamera(st, "/World/Cameras/Main", path); err != nil {
		t.Fatalf("AnimateCamera failed: %v", err)
	}

	tr, _ := prim.Attr("xformOp:translate")
	if len(tr.Samples) != 49 {
		t.Errorf("translate has %d samples, want 49", len(tr.Samples))
	}
}
