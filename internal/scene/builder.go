// Package scene builds stage content: geometry, mounted assets and cameras.
package scene

import (
	"fmt"

	"github.com/ivlev/stagecraft/internal/camera"
	"github.com/ivlev/stagecraft/internal/spatial"
	"github.com/ivlev/stagecraft/internal/stage"
)

// Builder authors scene content on an explicit stage handle. The world root
// is the stage's default prim.
type Builder struct {
	st    *stage.Stage
	world *stage.Prim
}

// NewBuilder creates a fresh stage with a /World default prim, Y up and
// centimeter scale.
func NewBuilder() (*Builder, error) {
	st := stage.New()
	world, err := st.DefinePrim("/World", "Xform")
	if err != nil {
		return nil, err
	}
	st.SetDefaultPrim(world)
	return &Builder{st: st, world: world}, nil
}

// Stage returns the underlying document handle for other authoring
// components (materials, lights, render settings).
func (b *Builder) Stage() *stage.Stage { return b.st }

// AddSphere adds a sphere prim. materialPath may be empty.
func (b *Builder) AddSphere(path string, radius float64, materialPath string, position spatial.Vec3) (*stage.Prim, error) {
	p, err := b.st.DefinePrim(path, "Sphere")
	if err != nil {
		return nil, err
	}
	p.SetAttr("radius", stage.TypeDouble, radius)
	p.SetTranslation(position)
	b.bindMaterial(p, materialPath)
	return p, nil
}

// AddCube adds a cube prim with the given edge length.
func (b *Builder) AddCube(path string, size float64, materialPath string, position spatial.Vec3) (*stage.Prim, error) {
	p, err := b.st.DefinePrim(path, "Cube")
	if err != nil {
		return nil, err
	}
	p.SetAttr("size", stage.TypeDouble, size)
	p.SetTranslation(position)
	b.bindMaterial(p, materialPath)
	return p, nil
}

// AddPlane adds a square ground plane as a two-triangle quad mesh.
func (b *Builder) AddPlane(path string, size float64, materialPath string, position spatial.Vec3) (*stage.Prim, error) {
	p, err := b.st.DefinePrim(path, "Mesh")
	if err != nil {
		return nil, err
	}
	p.SetAttr("points", stage.TypePoint3Array, []spatial.Vec3{
		{X: -size, Y: 0, Z: -size},
		{X: size, Y: 0, Z: -size},
		{X: size, Y: 0, Z: size},
		{X: -size, Y: 0, Z: size},
	})
	p.SetAttr("faceVertexIndices", stage.TypeIntArray, []int{0, 1, 2, 0, 2, 3})
	p.SetAttr("faceVertexCounts", stage.TypeIntArray, []int{3, 3})
	p.SetTranslation(position)
	b.bindMaterial(p, materialPath)
	return p, nil
}

// AddExternalAsset mounts an external document at path, as a reference when
// reference is true, otherwise as a payload.
func (b *Builder) AddExternalAsset(path, assetPath string, position spatial.Vec3, reference bool, materialPath string) (*stage.Prim, error) {
	p, err := b.st.DefinePrim(path, "Xform")
	if err != nil {
		return nil, err
	}
	if reference {
		p.AddReference(assetPath)
	} else {
		p.AddPayload(assetPath)
	}
	p.SetTranslation(position)
	b.bindMaterial(p, materialPath)
	return p, nil
}

// AddCamera defines a camera prim with the given lens. When target is
// non-nil the camera is positioned and oriented to look at it; otherwise it
// is only translated.
func (b *Builder) AddCamera(path string, position spatial.Vec3, target *spatial.Vec3, lens camera.Lens) (*stage.Prim, error) {
	p, err := b.st.DefinePrim(path, "Camera")
	if err != nil {
		return nil, err
	}

	if lens.Projection != "perspective" && lens.Projection != "orthographic" {
		return nil, fmt.Errorf("camera %s: projection must be perspective or orthographic, got %q", path, lens.Projection)
	}
	p.SetAttr("projection", stage.TypeToken, lens.Projection)
	p.SetAttr("horizontalAperture", stage.TypeFloat, lens.HorizontalAperture)
	p.SetAttr("verticalAperture", stage.TypeFloat, lens.VerticalAperture)
	p.SetAttr("clippingRange", stage.TypeFloat2, [2]float64{lens.ClipNear, lens.ClipFar})
	if lens.Projection == "perspective" {
		p.SetAttr("focalLength", stage.TypeFloat, lens.FocalLength)
	}

	if target != nil {
		cam, err := camera.Orient(position, *target)
		if err != nil {
			return nil, fmt.Errorf("camera %s: %w", path, err)
		}
		p.SetXformOp(stage.OpTranslate, cam.Position)
		p.SetXformOp(stage.OpRotateY, cam.Yaw)
		p.SetXformOp(stage.OpRotateX, cam.Pitch)
	} else {
		p.SetTranslation(position)
	}

	return p, nil
}

// AddCameraRing defines one camera per view on a fixed orbit ring around
// target, named prefix_0..prefix_n-1 under rootPath, and returns their prim
// paths.
func (b *Builder) AddCameraRing(rootPath, prefix string, target spatial.Vec3, radius, height float64, numViews int, lens camera.Lens) ([]string, error) {
	cams, err := camera.GenerateOrbitCameras(target, radius, height, numViews)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(cams))
	for i, cam := range cams {
		path := fmt.Sprintf("%s/%s_%d", rootPath, prefix, i)
		p, err := b.st.DefinePrim(path, "Camera")
		if err != nil {
			return nil, err
		}
		p.SetAttr("projection", stage.TypeToken, lens.Projection)
		p.SetAttr("focalLength", stage.TypeFloat, lens.FocalLength)
		p.SetAttr("horizontalAperture", stage.TypeFloat, lens.HorizontalAperture)
		p.SetAttr("verticalAperture", stage.TypeFloat, lens.VerticalAperture)
		p.SetAttr("clippingRange", stage.TypeFloat2, [2]float64{lens.ClipNear, lens.ClipFar})
		p.SetXformOp(stage.OpTranslate, cam.Position)
		p.SetXformOp(stage.OpRotateY, cam.Yaw)
		p.SetXformOp(stage.OpRotateX, cam.Pitch)
		paths = append(paths, path)
	}
	return paths, nil
}

func (b *Builder) bindMaterial(p *stage.Prim, materialPath string) {
	if materialPath == "" {
		return
	}
	p.SetRel("material:binding", materialPath)
}
