package render

import (
	"strings"
	"testing"

	"github.com/ivlev/stagecraft/internal/stage"
)

func TestCreateSettings(t *testing.T) {
	st := stage.New()
	m, err := NewSettingsManager(st)
	if err != nil {
		t.Fatal(err)
	}

	prodPath, err := m.CreateProduct("Beauty", "/World/Cameras/Main", "output/beauty.png", nil)
	if err != nil {
		t.Fatal(err)
	}

	path, err := m.CreateSettings("Settings", "/World/Cameras/Main", 512, 512, []string{prodPath})
	if err != nil {
		t.Fatalf("CreateSettings failed: %v", err)
	}
	if path != "/Render/Settings" {
		t.Errorf("path = %s", path)
	}

	out := st.String()
	for _, want := range []string{
		`def Scope "Render"`,
		`def RenderSettings "Settings"`,
		"int2 resolution = (512, 512)",
		"rel camera = </World/Cameras/Main>",
		"rel products = </Render/Beauty>",
		`string renderSettingsPrimPath = "/Render/Settings"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCreateProductWithVars(t *testing.T) {
	st := stage.New()
	m, _ := NewSettingsManager(st)

	vars, err := m.CreateStandardAOVs()
	if err != nil {
		t.Fatalf("CreateStandardAOVs failed: %v", err)
	}
	if len(vars) != len(StandardAOVs) {
		t.Fatalf("expected %d vars, got %d", len(StandardAOVs), len(vars))
	}
	if vars[0] != "/Render/Vars/combined" {
		t.Errorf("first var = %s", vars[0])
	}

	if _, err := m.CreateProduct("AOVs", "/World/Cameras/Main", "output/aov.exr", vars); err != nil {
		t.Fatal(err)
	}

	out := st.String()
	for _, want := range []string{
		`def RenderVar "depth"`,
		`token sourceName = "z"`,
		`token dataType = "float"`,
		"rel orderedVars = [</Render/Vars/combined>, </Render/Vars/depth>",
		`token productName = "output/aov.exr"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
