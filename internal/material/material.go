// Package material authors reusable shader materials under /Materials.
package material

import (
	"fmt"

	"github.com/ivlev/stagecraft/internal/spatial"
	"github.com/ivlev/stagecraft/internal/stage"
)

const rootPath = "/Materials"

// ShaderInput is one typed shader parameter. The type tag is explicit so
// serialization never has to guess from the value.
type ShaderInput struct {
	Name  string
	Type  stage.ValueType
	Value any
}

func Float(name string, v float64) ShaderInput {
	return ShaderInput{Name: name, Type: stage.TypeFloat, Value: v}
}

func Int(name string, v int) ShaderInput {
	return ShaderInput{Name: name, Type: stage.TypeInt, Value: v}
}

func Color(name string, r, g, b float64) ShaderInput {
	return ShaderInput{Name: name, Type: stage.TypeColor3f, Value: spatial.Vec3{X: r, Y: g, Z: b}}
}

func Token(name, v string) ShaderInput {
	return ShaderInput{Name: name, Type: stage.TypeToken, Value: v}
}

func AssetFile(name, path string) ShaderInput {
	return ShaderInput{Name: name, Type: stage.TypeAsset, Value: path}
}

// RGB is a display color in [0,1] channels.
type RGB struct {
	R, G, B float64
}

// Library creates materials on a stage under /Materials.
type Library struct {
	st *stage.Stage
}

// NewLibrary scopes a material library onto the stage.
func NewLibrary(st *stage.Stage) (*Library, error) {
	if _, err := st.DefinePrim(rootPath, "Scope"); err != nil {
		return nil, err
	}
	return &Library{st: st}, nil
}

// Create authors a material with a single shader of the given ID and inputs,
// and returns the material prim path for binding.
func (l *Library) Create(name, shaderID string, inputs ...ShaderInput) (string, error) {
	matPath := rootPath + "/" + name
	mat, err := l.st.DefinePrim(matPath, "Material")
	if err != nil {
		return "", err
	}
	shader, err := l.st.DefinePrim(matPath+"/Shader", "Shader")
	if err != nil {
		return "", err
	}

	shader.SetUniformAttr("info:id", stage.TypeToken, shaderID)
	for _, in := range inputs {
		shader.SetAttr("inputs:"+in.Name, in.Type, in.Value)
	}
	shader.SetAttr("outputs:surface", stage.TypeToken, nil)

	mat.SetAttr("outputs:surface.connect", stage.TypeConnection, matPath+"/Shader.outputs:surface")

	return matPath, nil
}

// CarPaint is a metallic clearcoat preview surface.
func (l *Library) CarPaint(name string, color RGB) (string, error) {
	return l.Create(name, "UsdPreviewSurface",
		Color("diffuseColor", color.R, color.G, color.B),
		Float("metallic", 1.0),
		Float("roughness", 0.2),
		Float("clearcoat", 0.5),
		Float("clearcoatRoughness", 0.1),
	)
}

// Glass is a transmissive preview surface.
func (l *Library) Glass(name string, color RGB, roughness, ior float64) (string, error) {
	return l.Create(name, "UsdPreviewSurface",
		Color("diffuseColor", color.R, color.G, color.B),
		Float("opacity", 0.2),
		Float("ior", ior),
		Float("roughness", roughness),
	)
}

// Plastic is a dielectric preview surface.
func (l *Library) Plastic(name string, color RGB, roughness float64) (string, error) {
	return l.Create(name, "UsdPreviewSurface",
		Color("diffuseColor", color.R, color.G, color.B),
		Float("metallic", 0.0),
		Float("roughness", roughness),
		Float("specular", 0.5),
	)
}

// Wood is a rough dielectric preview surface.
func (l *Library) Wood(name string, baseColor RGB, roughness float64) (string, error) {
	return l.Create(name, "UsdPreviewSurface",
		Color("diffuseColor", baseColor.R, baseColor.G, baseColor.B),
		Float("metallic", 0.0),
		Float("roughness", roughness),
		Float("specular", 0.5),
	)
}

// RenderManMetal is a PxrSurface metal for RenderMan-backed renders.
func (l *Library) RenderManMetal(name string, diffuse, specularEdge RGB, roughness float64) (string, error) {
	return l.Create(name, "PxrSurface",
		Color("diffuseColor", diffuse.R, diffuse.G, diffuse.B),
		Color("specularFaceColor", specularEdge.R, specularEdge.G, specularEdge.B),
		Color("specularEdgeColor", specularEdge.R, specularEdge.G, specularEdge.B),
		Float("specularRoughness", roughness),
		Float("presence", 1.0),
	)
}

// RenderManGlass is a PxrSurface glass.
func (l *Library) RenderManGlass(name string, glassColor RGB, roughness float64) (string, error) {
	return l.Create(name, "PxrSurface",
		Color("glassColor", glassColor.R, glassColor.G, glassColor.B),
		Int("specularModelType", 1), // Beckmann
		Float("refractiveIndex", 1.5),
		Float("specularRoughness", roughness),
		Float("presence", 1.0),
	)
}

// MaterialXReference binds an external .mtlx file as a material.
func (l *Library) MaterialXReference(name, mtlxPath string) (string, error) {
	if mtlxPath == "" {
		return "", fmt.Errorf("material %s: empty mtlx path", name)
	}
	return l.Create(name, "MaterialX", AssetFile("file", mtlxPath))
}
