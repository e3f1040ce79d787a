// Package project wires the full pipeline: scenario, stage authoring,
// export, external rendering and review artifacts.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/stagecraft/internal/animation"
	"github.com/ivlev/stagecraft/internal/camera"
	"github.com/ivlev/stagecraft/internal/config"
	"github.com/ivlev/stagecraft/internal/director"
	"github.com/ivlev/stagecraft/internal/lighting"
	"github.com/ivlev/stagecraft/internal/material"
	"github.com/ivlev/stagecraft/internal/render"
	"github.com/ivlev/stagecraft/internal/scene"
	"github.com/ivlev/stagecraft/internal/sheet"
	"github.com/ivlev/stagecraft/internal/source"
	"github.com/ivlev/stagecraft/internal/spatial"
	"github.com/ivlev/stagecraft/internal/stage"
	"github.com/ivlev/stagecraft/internal/system"
)

// subjectCenter is where every generated scenario points the camera.
var subjectCenter = spatial.Vec3{X: 0, Y: 1, Z: 0}

type Project struct {
	Config *config.Config
}

func New(cfg *config.Config) *Project {
	return &Project{Config: cfg}
}

// buildResult carries what later phases need from stage authoring.
type buildResult struct {
	stage       *stage.Stage
	mainCamera  string
	subjectPath string
	materials   []string
	frames      spatial.FrameRange
}

func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()
	var buildEnd, renderStart, renderEnd time.Time

	cfg := p.Config

	if cfg.GenScenario {
		return p.handleGenerateScenario()
	}

	scenario, err := p.resolveScenario()
	if err != nil {
		return err
	}

	fmt.Println("--- [PROJECT: STAGE PIPELINE] ---")
	fmt.Printf("[*] Shots: %d | Resolution: %dx%d @ %d FPS\n", len(scenario.Shots), cfg.Width, cfg.Height, cfg.FPS)
	fmt.Println("---------------------------------")

	res, err := p.buildStage(scenario)
	if err != nil {
		return fmt.Errorf("stage authoring failed: %w", err)
	}
	buildEnd = time.Now()

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	stagePath := filepath.Join(cfg.OutputDir, "scenes", fmt.Sprintf("scene_%s.usda", timestamp))
	if err := res.stage.Export(stagePath); err != nil {
		return fmt.Errorf("stage export failed: %w", err)
	}
	fmt.Printf("[*] Stage written: %s\n", stagePath)

	framesDir := filepath.Join(cfg.OutputDir, "frames")
	rendered := false

	if cfg.DoRender {
		runner := &render.Runner{Binary: cfg.RendererBin, Kind: cfg.RendererKind, Workers: cfg.Workers}
		params := config.RenderParams{
			Width:      cfg.Width,
			Height:     cfg.Height,
			Samples:    cfg.Samples,
			Device:     cfg.Device,
			CameraPath: res.mainCamera,
		}

		renderStart = time.Now()
		if err := runner.RenderRange(ctx, stagePath, framesDir, res.frames, params); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}

		if cfg.MaterialBatch {
			fmt.Printf("[*] Material batch: %d passes over %s\n", len(res.materials), res.subjectPath)
			params.Frame = res.frames.Start
			if err := runner.RenderMaterialBatch(ctx, res.stage, res.subjectPath, res.materials,
				filepath.Join(cfg.OutputDir, "scenes", "batch"),
				filepath.Join(cfg.OutputDir, "materials"), params); err != nil {
				return fmt.Errorf("material batch failed: %w", err)
			}
		}
		renderEnd = time.Now()
		rendered = true
	}

	if cfg.ContactSheet && rendered {
		framePaths := make([]string, 0, res.frames.Count())
		for f := res.frames.Start; f <= res.frames.End; f++ {
			framePaths = append(framePaths, render.FramePath(framesDir, f))
		}

		sheetPath := filepath.Join(cfg.OutputDir, "review", "contact_sheet.png")
		qr := fmt.Sprintf("stage=%s frames=%d..%d build=%s", filepath.Base(stagePath), res.frames.Start, res.frames.End, cfg.BuildVersion)
		if err := sheet.Write(framePaths, sheetPath, sheet.Options{Labels: true, QRText: qr}); err != nil {
			return fmt.Errorf("contact sheet failed: %w", err)
		}
		fmt.Printf("[*] Contact sheet written: %s\n", sheetPath)
	}

	if cfg.ShowStats {
		totalTime := time.Since(startTime)
		buildTime := buildEnd.Sub(startTime)
		renderTime := time.Duration(0)
		if rendered {
			renderTime = renderEnd.Sub(renderStart)
		}

		report := fmt.Sprintf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Host: %s\n"+
				"Total Time: %.2fs\n"+
				"Stage Authoring: %.2fs\n"+
				"Rendering: %.2fs\n"+
				"Frames: %d\n"+
				"----------------------------\n",
			cfg.BuildVersion, system.CollectHostReport(), totalTime.Seconds(), buildTime.Seconds(), renderTime.Seconds(), res.frames.Count(),
		)
		fmt.Print(report)

		logEntry := fmt.Sprintf("[%s] Build: %s | Stage: %s | Frames: %d | Total: %.2fs | Render: %.2fs\n",
			time.Now().Format("2006-01-02 15:04:05"),
			cfg.BuildVersion,
			filepath.Base(stagePath),
			res.frames.Count(),
			totalTime.Seconds(),
			renderTime.Seconds(),
		)

		f, err := os.OpenFile(filepath.Join(cfg.OutputDir, "benchmark.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			f.WriteString(logEntry)
			f.Close()
		} else {
			fmt.Printf("[!] Failed to write benchmark.log: %v\n", err)
		}
	}

	return nil
}

// resolveScenario loads the configured scenario file or falls back to a
// generated turntable.
func (p *Project) resolveScenario() (*director.Scenario, error) {
	cfg := p.Config

	if cfg.ScenarioInput != "" {
		scenario, err := director.ReadScenario(cfg.ScenarioInput)
		if err != nil {
			return nil, fmt.Errorf("scenario read failed: %w", err)
		}
		fmt.Printf("[*] Using scenario: %s\n", cfg.ScenarioInput)
		return scenario, nil
	}

	d := director.NewDirector(cfg.FPS)
	d.DefaultFocal = cfg.FocalLength
	return d.GenerateTurntable(subjectCenter, cfg.OrbitRadius, cfg.OrbitHeight, spatial.FrameRange{Start: cfg.FrameStart, End: cfg.FrameEnd})
}

func (p *Project) handleGenerateScenario() error {
	cfg := p.Config
	fmt.Println("[*] Scenario generation mode...")

	d := director.NewDirector(cfg.FPS)
	d.DefaultFocal = cfg.FocalLength
	scenario, err := d.GenerateTurntable(subjectCenter, cfg.OrbitRadius, cfg.OrbitHeight, spatial.FrameRange{Start: cfg.FrameStart, End: cfg.FrameEnd})
	if err != nil {
		return err
	}

	outputPath := cfg.ScenarioOutput
	if outputPath == "" {
		outputPath = director.GenerateScenarioPath(filepath.Join(cfg.OutputDir, "scenarios"))
	}

	if err := director.WriteScenario(scenario, outputPath); err != nil {
		return err
	}

	fmt.Printf("[+++] Done! Scenario saved: %s\n", outputPath)
	return nil
}

// buildStage authors the complete document: subject, set dressing, lights,
// animated cameras and render settings.
func (p *Project) buildStage(scenario *director.Scenario) (*buildResult, error) {
	cfg := p.Config

	b, err := scene.NewBuilder()
	if err != nil {
		return nil, err
	}
	st := b.Stage()

	lib, err := material.NewLibrary(st)
	if err != nil {
		return nil, err
	}
	paint, err := lib.CarPaint("BodyPaint", material.RGB{R: 0.65, G: 0.06, B: 0.06})
	if err != nil {
		return nil, err
	}
	floor, err := lib.Plastic("Floor", material.RGB{R: 0.18, G: 0.18, B: 0.2}, 0.6)
	if err != nil {
		return nil, err
	}

	materials := []string{paint}
	if cfg.MaterialBatch {
		glass, err := lib.Glass("BatchGlass", material.RGB{R: 0.9, G: 0.95, B: 1}, 0.05, 1.5)
		if err != nil {
			return nil, err
		}
		wood, err := lib.Wood("BatchWood", material.RGB{R: 0.45, G: 0.28, B: 0.14}, 0.7)
		if err != nil {
			return nil, err
		}
		metal, err := lib.RenderManMetal("BatchMetal", material.RGB{R: 0.8, G: 0.8, B: 0.85}, material.RGB{R: 1, G: 1, B: 1}, 0.2)
		if err != nil {
			return nil, err
		}
		materials = append(materials, glass, wood, metal)
	}

	// Subject: an external asset when a scene file is given, a stand-in
	// sphere otherwise.
	subjectPath := "/World/Subject"
	if cfg.ScenePath != "" {
		subjectPath = "/World/Asset"
		if _, err := b.AddExternalAsset(subjectPath, cfg.ScenePath, subjectCenter, false, paint); err != nil {
			return nil, err
		}
	} else {
		if _, err := b.AddSphere(subjectPath, 1.0, paint, subjectCenter); err != nil {
			return nil, err
		}
	}
	if _, err := b.AddPlane("/World/Ground", 10.0, floor, spatial.Vec3{}); err != nil {
		return nil, err
	}

	if cfg.TexturesDir != "" {
		if err := p.addBackdrop(b, lib); err != nil {
			return nil, err
		}
	}

	if cfg.HDRIPath != "" {
		env := lighting.NewEnvironment(st)
		if _, err := env.AddDomeLight("Dome", cfg.HDRIPath, 1000, 0); err != nil {
			return nil, err
		}
	} else {
		lights := lighting.NewManager(st)
		if _, err := lights.AddRectLight("Key", 3000, spatial.Vec3{X: 1, Y: 1, Z: 1}, 4, 4,
			spatial.Vec3{X: 4, Y: 6, Z: 4}, spatial.Vec3{X: -45, Y: 45, Z: 0}, nil, nil); err != nil {
			return nil, err
		}
		if _, err := lights.AddDistantLight("Fill", 500, 0.53, spatial.Vec3{X: 0.9, Y: 0.95, Z: 1},
			spatial.Vec3{X: -30, Y: -60, Z: 0}, nil, nil); err != nil {
			return nil, err
		}
	}

	lens := camera.DefaultLens()
	if cfg.FocalLength > 0 {
		lens.FocalLength = cfg.FocalLength
	}

	frames := spatial.FrameRange{Start: scenario.Shots[0].FrameStart, End: scenario.Shots[0].FrameEnd}
	mainCamera := scenario.Shots[0].Camera

	for i := range scenario.Shots {
		shot := &scenario.Shots[i]

		path, err := director.SolveShot(shot)
		if err != nil {
			return nil, err
		}

		shotLens := lens
		if shot.FocalLength > 0 {
			shotLens.FocalLength = shot.FocalLength
		}
		target := path.Targets[0]
		if _, err := b.AddCamera(shot.Camera, path.Positions[0], &target, shotLens); err != nil {
			return nil, err
		}
		if err := animation.AnimateCamera(st, shot.Camera, path); err != nil {
			return nil, err
		}

		if shot.FrameStart < frames.Start {
			frames.Start = shot.FrameStart
		}
		if shot.FrameEnd > frames.End {
			frames.End = shot.FrameEnd
		}
	}

	if cfg.NumViews > 0 {
		if err := p.addViewRing(b, lens); err != nil {
			return nil, err
		}
	}

	rs, err := render.NewSettingsManager(st)
	if err != nil {
		return nil, err
	}
	vars, err := rs.CreateStandardAOVs()
	if err != nil {
		return nil, err
	}
	product, err := rs.CreateProduct("Beauty", mainCamera, "frames/beauty.####.exr", vars)
	if err != nil {
		return nil, err
	}
	if _, err := rs.CreateSettings("Settings", mainCamera, cfg.Width, cfg.Height, []string{product}); err != nil {
		return nil, err
	}

	st.SetMetadata("generator", "stagecraft "+cfg.BuildVersion)
	st.SetMetadata("fps", fmt.Sprintf("%d", cfg.FPS))

	return &buildResult{
		stage:       st,
		mainCamera:  mainCamera,
		subjectPath: subjectPath,
		materials:   materials,
		frames:      frames,
	}, nil
}

// addBackdrop imports the configured texture inputs and mounts the first one
// on a vertical plane behind the subject.
func (p *Project) addBackdrop(b *scene.Builder, lib *material.Library) error {
	cfg := p.Config

	src, err := source.NewSource(cfg.TexturesDir)
	if err != nil {
		return fmt.Errorf("texture source: %w", err)
	}
	defer src.Close()

	texPaths, err := source.ImportTextures(src, filepath.Join(cfg.OutputDir, "textures"), 150)
	if err != nil {
		return fmt.Errorf("texture import: %w", err)
	}
	fmt.Printf("[*] Imported %d textures\n", len(texPaths))

	mat, err := lib.Create("Backdrop", "UsdPreviewSurface",
		material.AssetFile("diffuseTexture", texPaths[0]),
		material.Float("roughness", 0.8),
	)
	if err != nil {
		return err
	}

	_, err = b.AddPlane("/World/Backdrop", 8.0, mat, spatial.Vec3{X: 0, Y: 0, Z: -8})
	return err
}

// addViewRing places the static multi-view cameras and exports their
// calibration files.
func (p *Project) addViewRing(b *scene.Builder, lens camera.Lens) error {
	cfg := p.Config

	if _, err := b.AddCameraRing("/World/Cameras", "view", subjectCenter, cfg.OrbitRadius, cfg.OrbitHeight, cfg.NumViews, lens); err != nil {
		return err
	}

	cams, err := camera.GenerateOrbitCameras(subjectCenter, cfg.OrbitRadius, cfg.OrbitHeight, cfg.NumViews)
	if err != nil {
		return err
	}
	for i, cam := range cams {
		out := filepath.Join(cfg.OutputDir, "metadata", fmt.Sprintf("view_%d.json", i))
		if err := camera.ExportMetadata(cam, lens, cfg.Width, cfg.Height, out); err != nil {
			return fmt.Errorf("view %d metadata: %w", i, err)
		}
	}
	return nil
}
