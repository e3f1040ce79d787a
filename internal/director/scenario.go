package director

import "github.com/ivlev/stagecraft/internal/spatial"

// Move kinds a shot can use.
const (
	MoveOrbit  = "orbit"
	MoveDolly  = "dolly"
	MoveStatic = "static"
)

// Scenario is a complete shooting plan for one scene.
type Scenario struct {
	Version string `yaml:"version"`
	FPS     int    `yaml:"fps"`
	Shots   []Shot `yaml:"shots"`
}

// Shot describes one camera move over an inclusive frame range.
type Shot struct {
	Name        string  `yaml:"name"`
	Camera      string  `yaml:"camera"` // prim path of the camera to animate
	Move        string  `yaml:"move"`   // orbit, dolly or static
	FrameStart  int     `yaml:"frame_start"`
	FrameEnd    int     `yaml:"frame_end"`
	FocalLength float64 `yaml:"focal_length,omitempty"`
	Easing      string  `yaml:"easing,omitempty"` // dolly only

	Orbit  *OrbitParams  `yaml:"orbit,omitempty"`
	Dolly  *DollyParams  `yaml:"dolly,omitempty"`
	Static *StaticParams `yaml:"static,omitempty"`
}

// OrbitParams parameterize a full circular turn around a center point.
type OrbitParams struct {
	Center spatial.Vec3 `yaml:"center"`
	Radius float64      `yaml:"radius"`
	Height float64      `yaml:"height"`
}

// DollyParams parameterize a straight move between two points with a fixed
// look-at target.
type DollyParams struct {
	From   spatial.Vec3 `yaml:"from"`
	To     spatial.Vec3 `yaml:"to"`
	Target spatial.Vec3 `yaml:"target"`
}

// StaticParams hold a locked-off camera.
type StaticParams struct {
	Position spatial.Vec3 `yaml:"position"`
	Target   spatial.Vec3 `yaml:"target"`
}

// Range returns the shot's frame range.
func (s *Shot) Range() spatial.FrameRange {
	return spatial.FrameRange{Start: s.FrameStart, End: s.FrameEnd}
}
