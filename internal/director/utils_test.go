package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/stagecraft/internal/spatial"
)

func TestGenerateScenarioPath(t *testing.T) {
	path := GenerateScenarioPath("output/scenarios")

	if !strings.Contains(path, "scenario_") {
		t.Errorf("path should contain 'scenario_': %s", path)
	}
	if filepath.Dir(path) != filepath.Join("output", "scenarios") {
		t.Errorf("path should be under output/scenarios: %s", path)
	}
	if !strings.HasSuffix(path, ".yaml") {
		t.Errorf("path should end in .yaml: %s", path)
	}
}

func TestFindLatestScenario(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "scenario_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "scenario_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "scenario_2026-02-11_15-30-00.yaml"),
	}
	for i, f := range files {
		os.WriteFile(f, []byte("test"), 0644)
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}

	latest, err := FindLatestScenario(dir)
	if err != nil {
		t.Fatalf("FindLatestScenario failed: %v", err)
	}
	if latest != files[len(files)-1] {
		t.Errorf("expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}

func TestFindLatestScenarioEmpty(t *testing.T) {
	if _, err := FindLatestScenario(t.TempDir()); err == nil {
		t.Error("empty directory should fail")
	}
}

func TestScenarioRoundtrip(t *testing.T) {
	d := NewDirector(30)
	s, err := d.GenerateTurntable(spatial.V3(0, 1, 0), 8, 4, spatial.FrameRange{Start: 0, End: 59})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "scenarios", "scenario_test.yaml")
	if err := WriteScenario(s, path); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	got, err := ReadScenario(path)
	if err != nil {
		t.Fatalf("ReadScenario failed: %v", err)
	}
	if got.Version != s.Version || got.FPS != 30 || len(got.Shots) != len(s.Shots) {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.Shots[0].Orbit == nil || got.Shots[0].Orbit.Radius != 8 {
		t.Errorf("orbit params lost in roundtrip: %+v", got.Shots[0])
	}
	if got.Shots[1].Dolly == nil || got.Shots[1].Dolly.Target != spatial.V3(0, 1, 0) {
		t.Errorf("dolly params lost in roundtrip: %+v", got.Shots[1])
	}
}
