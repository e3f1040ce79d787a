package config

// Config carries the resolved CLI options for one invocation.
type Config struct {
	ScenePath      string
	OutputDir      string
	ScenarioInput  string
	ScenarioOutput string
	GenScenario    bool

	Width  int
	Height int
	FPS    int

	FrameStart int
	FrameEnd   int

	OrbitRadius float64
	OrbitHeight float64
	NumViews    int
	FocalLength float64

	HDRIPath    string
	TexturesDir string

	Workers      int
	RendererBin  string
	RendererKind string
	Samples      int
	Device       string

	DoRender      bool
	MaterialBatch bool
	ContactSheet  bool
	ShowStats     bool
	BuildVersion  string
}

// RenderParams is the per-frame parameter block handed to the external
// renderer runner.
type RenderParams struct {
	Width      int
	Height     int
	Samples    int
	Device     string
	CameraPath string
	Frame      int
}
