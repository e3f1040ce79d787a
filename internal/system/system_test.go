package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	mod := time.Now().Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestFindLatestStage(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.usda"), 2*time.Hour)
	touch(t, filepath.Join(dir, "new.usda"), 0)
	touch(t, filepath.Join(dir, "ignore.txt"), 0)

	got, err := FindLatestStage(dir)
	if err != nil {
		t.Fatalf("FindLatestStage failed: %v", err)
	}
	if filepath.Base(got) != "new.usda" {
		t.Errorf("latest = %s, want new.usda", got)
	}
}

func TestFindLatestStageEmpty(t *testing.T) {
	if _, err := FindLatestStage(t.TempDir()); err == nil {
		t.Error("directory without stages should fail")
	}
}

func TestFindLatestTexture(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.PNG"), time.Hour)
	touch(t, filepath.Join(dir, "deck.pdf"), 0)

	got, err := FindLatestTexture(dir)
	if err != nil {
		t.Fatalf("FindLatestTexture failed: %v", err)
	}
	if filepath.Base(got) != "deck.pdf" {
		t.Errorf("latest = %s, want deck.pdf", got)
	}
}

func TestFindLatestHDRI(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "studio.hdr"), 0)
	touch(t, filepath.Join(dir, "studio.png"), 0)

	got, err := FindLatestHDRI(dir)
	if err != nil {
		t.Fatalf("FindLatestHDRI failed: %v", err)
	}
	if filepath.Base(got) != "studio.hdr" {
		t.Errorf("latest = %s, want studio.hdr", got)
	}
}

func TestImagePoolReuse(t *testing.T) {
	rect := image.Rect(0, 0, 64, 64)

	img := GetImage(rect)
	if img.Bounds() != rect {
		t.Fatalf("pooled image bounds = %v", img.Bounds())
	}
	PutImage(img)

	again := GetImage(rect)
	if again.Bounds() != rect {
		t.Fatalf("reused image bounds = %v", again.Bounds())
	}
	PutImage(again)

	PutImage(nil) // must not panic
}

func TestCollectHostReport(t *testing.T) {
	r := CollectHostReport()
	if r.String() == "" {
		t.Error("report line should never be empty")
	}
}
