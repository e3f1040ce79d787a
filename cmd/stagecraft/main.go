package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ivlev/stagecraft/internal/config"
	"github.com/ivlev/stagecraft/internal/project"
	"github.com/ivlev/stagecraft/internal/render"
	"github.com/ivlev/stagecraft/internal/system"
)

var buildVersion = "dev"

func main() {
	system.InitResourceLimits()

	// Create the expected directories when they are missing
	dirs := []string{"input/scenes", "input/textures", "input/hdri", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	scenePtr := flag.String("scene", "", "Path to an external scene asset to mount (default: latest .usda in input/scenes/)")
	outputPtr := flag.String("output", "output", "Output directory for stages, frames and review artifacts")
	scenarioPtr := flag.String("scenario", "", "Path to a shot scenario YAML (default: a generated turntable)")
	genScenarioPtr := flag.Bool("gen-scenario", false, "Only generate a turntable scenario and exit")
	scenarioOutPtr := flag.String("scenario-output", "", "Where to write the generated scenario (default: timestamped under output/scenarios/)")
	widthPtr := flag.Int("width", 1920, "Render width")
	heightPtr := flag.Int("height", 1080, "Render height")
	fpsPtr := flag.Int("fps", 24, "Frames per second")
	framesPtr := flag.Int("frames", 120, "Turntable length in frames")
	radiusPtr := flag.Float64("radius", 8, "Orbit radius")
	orbitHeightPtr := flag.Float64("height-orbit", 4, "Orbit camera height")
	viewsPtr := flag.Int("views", 0, "Static multi-view camera count (0 disables the ring)")
	focalPtr := flag.Float64("focal", 35, "Camera focal length in mm")
	hdriPtr := flag.String("hdri", "", "HDRI environment map (default: latest in input/hdri/, studio lights when none)")
	texturesPtr := flag.String("textures", "", "Texture inputs: image directory or PDF (optional)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Parallel render workers")
	renderPtr := flag.Bool("render", false, "Render the animation with the detected renderer")
	batchPtr := flag.Bool("material-batch", false, "Also render one frame per preset material bound to the subject")
	samplesPtr := flag.Int("samples", 128, "Cycles sample count")
	devicePtr := flag.String("device", "CPU", "Cycles device: CPU or GPU")
	sheetPtr := flag.Bool("contact-sheet", true, "Compose a contact sheet after rendering")
	statsPtr := flag.Bool("stats", false, "Print a performance report")
	presetPtr := flag.String("preset", "", "Resolution preset: 16:9, 9:16, square")

	flag.Parse()

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1920, 1080
	case "9:16":
		width, height = 1080, 1920
	case "square":
		width, height = 1080, 1080
	}

	scenePath := *scenePtr
	if scenePath == "" && !*genScenarioPtr {
		latest, err := system.FindLatestStage("input/scenes")
		if err == nil {
			scenePath = latest
			fmt.Printf("[*] Selected scene asset: %s\n", scenePath)
		}
	}

	hdriPath := *hdriPtr
	if hdriPath == "" {
		latest, err := system.FindLatestHDRI("input/hdri")
		if err == nil {
			hdriPath = latest
			fmt.Printf("[*] Selected HDRI: %s\n", hdriPath)
		}
	}

	var rendererBin, rendererKind string
	if *renderPtr {
		rendererBin, rendererKind = render.Probe()
		if rendererBin == "" {
			log.Fatalf("[-] No renderer found. Install blender or usdrecord, or drop -render")
		}
		fmt.Printf("[*] Renderer: %s (%s)\n", rendererBin, rendererKind)
	}

	cfg := &config.Config{
		ScenePath:      scenePath,
		OutputDir:      *outputPtr,
		ScenarioInput:  *scenarioPtr,
		ScenarioOutput: *scenarioOutPtr,
		GenScenario:    *genScenarioPtr,
		Width:          width,
		Height:         height,
		FPS:            *fpsPtr,
		FrameStart:     0,
		FrameEnd:       *framesPtr - 1,
		OrbitRadius:    *radiusPtr,
		OrbitHeight:    *orbitHeightPtr,
		NumViews:       *viewsPtr,
		FocalLength:    *focalPtr,
		HDRIPath:       hdriPath,
		TexturesDir:    *texturesPtr,
		Workers:        *workersPtr,
		RendererBin:    rendererBin,
		RendererKind:   rendererKind,
		Samples:        *samplesPtr,
		Device:         *devicePtr,
		DoRender:       *renderPtr,
		MaterialBatch:  *batchPtr,
		ContactSheet:   *sheetPtr,
		ShowStats:      *statsPtr,
		BuildVersion:   buildVersion,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := project.New(cfg).Run(ctx); err != nil {
		log.Fatalf("[-] Project failed: %v", err)
	}

	fmt.Println("[+++] Done!")
}
