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

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/stagecraft/internal/config"
	"github.com/ivlev/stagecraft/internal/spatial"
)

// Renderer kinds, in probe priority order.
const (
	KindBlender   = "blender"
	KindUSDRecord = "usdrecord"
)

// Probe finds an available renderer binary on PATH. Blender is preferred;
// usdrecord is the fallback. Returns empty strings when neither is present.
func Probe() (binary, kind string) {
	for _, cand := range []struct{ bin, kind string }{
		{"blender", KindBlender},
		{"usdrecord", KindUSDRecord},
	} {
		if path, err := exec.LookPath(cand.bin); err == nil {
			return path, cand.kind
		}
	}
	return "", ""
}

// Runner invokes the external renderer once per frame over an exported
// stage document.
type Runner struct {
	Binary  string
	Kind    string
	Workers int
}

// FramePath returns the output image path for one frame.
func FramePath(outputDir string, frame int) string {
	return filepath.Join(outputDir, fmt.Sprintf("frame_%04d.png", frame))
}

// BuildArgs assembles the renderer command line for a single frame.
func BuildArgs(kind, stagePath, outputDir string, p config.RenderParams) []string {
	switch kind {
	case KindUSDRecord:
		args := []string{
			"--frames", fmt.Sprintf("%d:%d", p.Frame, p.Frame),
			"--imageWidth", fmt.Sprintf("%d", p.Width),
		}
		if p.CameraPath != "" {
			args = append(args, "--camera", p.CameraPath)
		}
		return append(args, stagePath, FramePath(outputDir, p.Frame))
	default:
		return []string{
			"--background",
			"--factory-startup",
			"--python-expr", BuildBlenderExpr(stagePath, outputDir, p),
		}
	}
}

// BuildBlenderExpr generates the python payload that makes a headless
// blender import the stage, configure Cycles and render one frame. The
// imported prims are rotated to undo the axis flip the importer applies.
func BuildBlenderExpr(stagePath, outputDir string, p config.RenderParams) string {
	var b strings.Builder

	b.WriteString("import bpy, math\n")

	// Scene cleanup: drop the factory default objects before import.
	b.WriteString("bpy.ops.object.select_all(action='SELECT')\n")
	b.WriteString("bpy.ops.object.delete()\n")

	fmt.Fprintf(&b, "bpy.ops.wm.usd_import(filepath=%q, import_all_materials=True)\n", stagePath)
	b.WriteString("for obj in bpy.context.scene.objects:\n")
	b.WriteString("    obj.rotation_euler[0] += math.radians(90)\n")
	b.WriteString("    obj.rotation_euler[2] += math.radians(180)\n")

	b.WriteString("scene = bpy.context.scene\n")
	b.WriteString("scene.render.engine = 'CYCLES'\n")
	fmt.Fprintf(&b, "scene.cycles.device = %q\n", p.Device)
	fmt.Fprintf(&b, "scene.cycles.samples = %d\n", p.Samples)
	fmt.Fprintf(&b, "scene.render.resolution_x = %d\n", p.Width)
	fmt.Fprintf(&b, "scene.render.resolution_y = %d\n", p.Height)

	// Activate the first imported camera.
	b.WriteString("for obj in scene.objects:\n")
	b.WriteString("    if obj.type == 'CAMERA':\n")
	b.WriteString("        scene.camera = obj\n")
	b.WriteString("        break\n")

	fmt.Fprintf(&b, "scene.frame_set(%d)\n", p.Frame)
	fmt.Fprintf(&b, "scene.render.filepath = %q\n", FramePath(outputDir, p.Frame))
	b.WriteString("bpy.ops.render.render(write_still=True)\n")

	return b.String()
}

// RenderRange renders every frame in the inclusive range through a bounded
// worker pool. The first failing frame cancels the rest.
func (r *Runner) RenderRange(ctx context.Context, stagePath, outputDir string, frames spatial.FrameRange, p config.RenderParams) error {
	if r.Binary == "" {
		return fmt.Errorf("no renderer binary configured")
	}
	if !frames.Valid() {
		return fmt.Errorf("render frame range (%d, %d) is empty", frames.Start, frames.End)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	n := frames.Count()
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for frame := frames.Start; frame <= frames.End; frame++ {
		frame := frame
		g.Go(func() error {
			fp := p
			fp.Frame = frame

			cmd := exec.CommandContext(ctx, r.Binary, BuildArgs(r.Kind, stagePath, outputDir, fp)...)
			var out bytes.Buffer
			cmd.Stdout = &out
			cmd.Stderr = &out

			if err := cmd.Run(); err != nil {
				log.Printf("[!] Renderer failed on frame %d: %v\nLog: %s", frame, err, out.String())
				return fmt.Errorf("frame %d: %w", frame, err)
			}
			fmt.Printf("[>] Frame ready: %d (%d..%d)\n", frame, frames.Start, frames.End)
			return nil
		})
	}

	return g.Wait()
}
