package render

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ivlev/stagecraft/internal/config"
	"github.com/ivlev/stagecraft/internal/stage"
)

// PrepareMaterialStage binds one material to the target prim and exports the
// stage as a standalone document for a batch render pass.
func PrepareMaterialStage(st *stage.Stage, targetPrimPath, materialPath, outPath string) error {
	prim, ok := st.GetPrim(targetPrimPath)
	if !ok {
		return fmt.Errorf("batch target %s: prim not defined", targetPrimPath)
	}
	prim.SetRel("material:binding", materialPath)
	return st.Export(outPath)
}

// RenderMaterialBatch renders the same frame once per material: bind, export,
// render, next. Output frames land in a subdirectory per material name.
// Passes run sequentially since each one rewrites the stage document.
func (r *Runner) RenderMaterialBatch(ctx context.Context, st *stage.Stage, targetPrimPath string, materialPaths []string, workDir, outputDir string, p config.RenderParams) error {
	if r.Binary == "" {
		return fmt.Errorf("no renderer binary configured")
	}
	if len(materialPaths) == 0 {
		return fmt.Errorf("material batch is empty")
	}
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return err
	}

	for _, mat := range materialPaths {
		name := mat[strings.LastIndex(mat, "/")+1:]
		stagePath := filepath.Join(workDir, fmt.Sprintf("batch_%s.usda", name))
		if err := PrepareMaterialStage(st, targetPrimPath, mat, stagePath); err != nil {
			return err
		}

		matDir := filepath.Join(outputDir, name)
		if err := os.MkdirAll(matDir, 0755); err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, r.Binary, BuildArgs(r.Kind, stagePath, matDir, p)...)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out

		if err := cmd.Run(); err != nil {
			log.Printf("[!] Renderer failed on material %s: %v\nLog: %s", name, err, out.String())
			return fmt.Errorf("material %s: %w", name, err)
		}
		fmt.Printf("[>] Material pass ready: %s\n", name)
	}

	return nil
}
