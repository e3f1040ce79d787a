// Package lighting authors environment and direct lights.
//
// The dome light lives under /Environment; direct lights live under
// /World/Lights. Rotations are authored as rotateX/Y/Z ops in degrees rather
// than a packed matrix, so light transforms stay editable per axis.
package lighting

import (
	"github.com/ivlev/stagecraft/internal/spatial"
	"github.com/ivlev/stagecraft/internal/stage"
)

// Shaping narrows a light's emission cone. Zero-value fields are skipped.
type Shaping struct {
	ConeAngle    float64
	ConeSoftness float64
}

// Shadows configures shadow casting for a light.
type Shadows struct {
	Enable   bool
	Color    *spatial.Vec3
	Distance float64
}

// Environment authors dome lighting under a root scope.
type Environment struct {
	st   *stage.Stage
	root string
}

// NewEnvironment scopes environment lighting under /Environment.
func NewEnvironment(st *stage.Stage) *Environment {
	return &Environment{st: st, root: "/Environment"}
}

// AddDomeLight creates a dome light, optionally textured with an HDRI file
// and rotated about Y.
func (e *Environment) AddDomeLight(name, hdriPath string, intensity, rotationY float64) (*stage.Prim, error) {
	p, err := e.st.DefinePrim(e.root+"/"+name, "DomeLight")
	if err != nil {
		return nil, err
	}
	if hdriPath != "" {
		p.SetAttr("inputs:texture:file", stage.TypeAsset, hdriPath)
	}
	p.SetAttr("inputs:intensity", stage.TypeFloat, intensity)
	if rotationY != 0 {
		p.SetXformOp(stage.OpRotateY, rotationY)
	}
	return p, nil
}

// Manager authors direct lights (everything but the dome).
type Manager struct {
	st   *stage.Stage
	root string
}

// NewManager scopes direct lights under /World/Lights.
func NewManager(st *stage.Stage) *Manager {
	return &Manager{st: st, root: "/World/Lights"}
}

// AddRectLight creates an area light with the given emitter dimensions.
func (m *Manager) AddRectLight(name string, intensity float64, color spatial.Vec3, width, height float64, position, rotation spatial.Vec3, shaping *Shaping, shadows *Shadows) (*stage.Prim, error) {
	p, err := m.define(name, "RectLight", intensity, color, position, rotation)
	if err != nil {
		return nil, err
	}
	p.SetAttr("inputs:width", stage.TypeFloat, width)
	p.SetAttr("inputs:height", stage.TypeFloat, height)
	m.applyShaping(p, shaping)
	m.applyShadows(p, shadows)
	return p, nil
}

// AddSphereLight creates a spherical emitter.
func (m *Manager) AddSphereLight(name string, intensity, radius float64, color spatial.Vec3, position, rotation spatial.Vec3, shaping *Shaping, shadows *Shadows) (*stage.Prim, error) {
	p, err := m.define(name, "SphereLight", intensity, color, position, rotation)
	if err != nil {
		return nil, err
	}
	p.SetAttr("inputs:radius", stage.TypeFloat, radius)
	m.applyShaping(p, shaping)
	m.applyShadows(p, shadows)
	return p, nil
}

// AddDiskLight creates a flat disk emitter.
func (m *Manager) AddDiskLight(name string, intensity, radius float64, color spatial.Vec3, position, rotation spatial.Vec3, shaping *Shaping, shadows *Shadows) (*stage.Prim, error) {
	p, err := m.define(name, "DiskLight", intensity, color, position, rotation)
	if err != nil {
		return nil, err
	}
	p.SetAttr("inputs:radius", stage.TypeFloat, radius)
	m.applyShaping(p, shaping)
	m.applyShadows(p, shadows)
	return p, nil
}

// AddDistantLight creates a sun-style directional light. Position is
// meaningless for a distant light, so only rotation is authored.
func (m *Manager) AddDistantLight(name string, intensity, angle float64, color spatial.Vec3, rotation spatial.Vec3, shaping *Shaping, shadows *Shadows) (*stage.Prim, error) {
	p, err := m.define(name, "DistantLight", intensity, color, spatial.Vec3{}, rotation)
	if err != nil {
		return nil, err
	}
	p.SetAttr("inputs:angle", stage.TypeFloat, angle)
	m.applyShaping(p, shaping)
	m.applyShadows(p, shadows)
	return p, nil
}

// AddCylinderLight creates a tube emitter.
func (m *Manager) AddCylinderLight(name string, intensity, radius, length float64, color spatial.Vec3, position, rotation spatial.Vec3, shaping *Shaping, shadows *Shadows) (*stage.Prim, error) {
	p, err := m.define(name, "CylinderLight", intensity, color, position, rotation)
	if err != nil {
		return nil, err
	}
	p.SetAttr("inputs:radius", stage.TypeFloat, radius)
	p.SetAttr("inputs:length", stage.TypeFloat, length)
	m.applyShaping(p, shaping)
	m.applyShadows(p, shadows)
	return p, nil
}

func (m *Manager) define(name, typeName string, intensity float64, color spatial.Vec3, position, rotation spatial.Vec3) (*stage.Prim, error) {
	p, err := m.st.DefinePrim(m.root+"/"+name, typeName)
	if err != nil {
		return nil, err
	}
	p.SetAttr("inputs:intensity", stage.TypeFloat, intensity)
	p.SetAttr("inputs:color", stage.TypeColor3f, color)

	if !position.IsZero() {
		p.SetXformOp(stage.OpTranslate, position)
	}
	if rotation.X != 0 {
		p.SetXformOp(stage.OpRotateX, rotation.X)
	}
	if rotation.Y != 0 {
		p.SetXformOp(stage.OpRotateY, rotation.Y)
	}
	if rotation.Z != 0 {
		p.SetXformOp(stage.OpRotateZ, rotation.Z)
	}
	return p, nil
}

func (m *Manager) applyShaping(p *stage.Prim, s *Shaping) {
	if s == nil {
		return
	}
	if s.ConeAngle != 0 {
		p.SetAttr("inputs:shaping:cone:angle", stage.TypeFloat, s.ConeAngle)
	}
	if s.ConeSoftness != 0 {
		p.SetAttr("inputs:shaping:cone:softness", stage.TypeFloat, s.ConeSoftness)
	}
}

func (m *Manager) applyShadows(p *stage.Prim, s *Shadows) {
	if s == nil {
		return
	}
	p.SetAttr("inputs:shadow:enable", stage.TypeBool, s.Enable)
	if s.Color != nil {
		p.SetAttr("inputs:shadow:color", stage.TypeColor3f, *s.Color)
	}
	if s.Distance != 0 {
		p.SetAttr("inputs:shadow:distance", stage.TypeFloat, s.Distance)
	}
}
