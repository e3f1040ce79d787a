package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/stagecraft/internal/stage"
)

func batchStage(t *testing.T) *stage.Stage {
	t.Helper()
	st := stage.New()
	if _, err := st.DefinePrim("/World/Subject", "Sphere"); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestPrepareMaterialStage(t *testing.T) {
	st := batchStage(t)
	out := filepath.Join(t.TempDir(), "batch_Glass.usda")

	if err := PrepareMaterialStage(st, "/World/Subject", "/Materials/Glass", out); err != nil {
		t.Fatalf("PrepareMaterialStage failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("exported stage unreadable: %v", err)
	}
	if !strings.Contains(string(data), "rel material:binding = </Materials/Glass>") {
		t.Error("exported stage lacks the material binding")
	}

	// Rebinding replaces the target, not appends.
	if err := PrepareMaterialStage(st, "/World/Subject", "/Materials/Paint", out); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(out)
	if strings.Contains(string(data), "/Materials/Glass") {
		t.Error("previous binding leaked into the next pass")
	}
}

func TestPrepareMaterialStageMissingPrim(t *testing.T) {
	st := stage.New()
	if err := PrepareMaterialStage(st, "/World/Ghost", "/Materials/Glass", filepath.Join(t.TempDir(), "x.usda")); err == nil {
		t.Error("missing target prim should fail")
	}
}

func TestRenderMaterialBatchValidation(t *testing.T) {
	st := batchStage(t)
	dir := t.TempDir()

	r := &Runner{Binary: "", Kind: KindBlender}
	if err := r.RenderMaterialBatch(context.Background(), st, "/World/Subject", []string{"/Materials/Glass"}, dir, dir, params()); err == nil {
		t.Error("missing binary should fail")
	}

	r.Binary = "/usr/bin/true"
	if err := r.RenderMaterialBatch(context.Background(), st, "/World/Subject", nil, dir, dir, params()); err == nil {
		t.Error("empty material list should fail")
	}
}
