package lighting

import (
	"strings"
	"testing"

	"github.com/ivlev/stagecraft/internal/spatial"
	"github.com/ivlev/stagecraft/internal/stage"
)

func white() spatial.Vec3 { return spatial.V3(1, 1, 1) }

func TestAddDomeLight(t *testing.T) {
	st := stage.New()
	env := NewEnvironment(st)

	p, err := env.AddDomeLight("DomeLight", "assets/studio_small.exr", 2.0, 45)
	if err != nil {
		t.Fatalf("AddDomeLight failed: %v", err)
	}
	if p.Path() != "/Environment/DomeLight" {
		t.Errorf("path = %s", p.Path())
	}

	out := st.String()
	for _, want := range []string{
		`def DomeLight "DomeLight"`,
		"asset inputs:texture:file = @assets/studio_small.exr@",
		"float inputs:intensity = 2",
		"double xformOp:rotateY = 45",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAddDomeLightUntextured(t *testing.T) {
	st := stage.New()
	env := NewEnvironment(st)

	p, err := env.AddDomeLight("Ambient", "", 1.0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.HasAttr("inputs:texture:file") {
		t.Error("untextured dome should have no texture attr")
	}
	if p.HasAttr("xformOp:rotateY") {
		t.Error("zero rotation should author no rotate op")
	}
}

func TestAddRectLight(t *testing.T) {
	st := stage.New()
	mgr := NewManager(st)

	_, err := mgr.AddRectLight("Key", 10, white(), 5, 5,
		spatial.V3(0, 5, -5), spatial.V3(0, 45, -45),
		&Shaping{ConeAngle: 60, ConeSoftness: 0.2},
		&Shadows{Enable: true, Distance: 30},
	)
	if err != nil {
		t.Fatalf("AddRectLight failed: %v", err)
	}

	out := st.String()
	for _, want := range []string{
		`def RectLight "Key"`,
		"float inputs:width = 5",
		"double3 xformOp:translate = (0, 5, -5)",
		"double xformOp:rotateY = 45",
		"double xformOp:rotateZ = -45",
		"float inputs:shaping:cone:angle = 60",
		"bool inputs:shadow:enable = 1",
		"float inputs:shadow:distance = 30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "xformOp:rotateX") {
		t.Error("zero X rotation should author no rotateX op")
	}
}

func TestAddDistantLight(t *testing.T) {
	st := stage.New()
	mgr := NewManager(st)

	p, err := mgr.AddDistantLight("Sun", 3000, 0.53, white(), spatial.V3(45, -45, 0), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.HasAttr("xformOp:translate") {
		t.Error("distant light should not be translated")
	}

	out := st.String()
	if !strings.Contains(out, "float inputs:angle = 0.53") {
		t.Error("angle missing")
	}
}

func TestAddCylinderLight(t *testing.T) {
	st := stage.New()
	mgr := NewManager(st)

	_, err := mgr.AddCylinderLight("Tube", 60, 0.5, 5.0, white(), spatial.V3(0, 5, 0), spatial.Vec3{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	out := st.String()
	if !strings.Contains(out, "float inputs:length = 5") {
		t.Error("length missing")
	}
	if !strings.Contains(out, `def CylinderLight "Tube"`) {
		t.Error("prim missing")
	}
}

func TestShadowColor(t *testing.T) {
	st := stage.New()
	mgr := NewManager(st)

	tint := spatial.V3(0.1, 0, 0)
	_, err := mgr.AddSphereLight("Fill", 100, 1.0, white(), spatial.V3(0, 5, 0), spatial.Vec3{}, nil,
		&Shadows{Enable: false, Color: &tint})
	if err != nil {
		t.Fatal(err)
	}

	out := st.String()
	if !strings.Contains(out, "bool inputs:shadow:enable = 0") {
		t.Error("disabled shadow flag missing")
	}
	if !strings.Contains(out, "color3f inputs:shadow:color = (0.1, 0, 0)") {
		t.Error("shadow color missing")
	}
}
