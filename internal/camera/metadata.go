package camera

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Lens carries the physical camera parameters authored on a camera prim.
// Apertures are sensor dimensions in millimeters; the defaults match a
// Super 35 back.
type Lens struct {
	Projection         string
	FocalLength        float64 // mm
	HorizontalAperture float64 // mm
	VerticalAperture   float64 // mm
	ClipNear           float64
	ClipFar            float64
}

// DefaultLens returns a 35mm perspective lens on a Super 35 sensor.
func DefaultLens() Lens {
	return Lens{
		Projection:         "perspective",
		FocalLength:        35.0,
		HorizontalAperture: 20.955,
		VerticalAperture:   15.2908,
		ClipNear:           0.1,
		ClipFar:            1000.0,
	}
}

// Metadata is the exported camera calibration: pinhole intrinsics plus the
// camera-to-world extrinsics derived from the yaw/pitch orientation.
type Metadata struct {
	Intrinsic        Intrinsics   `json:"intrinsic"`
	Extrinsic        Extrinsics   `json:"extrinsic"`
	ProjectionMatrix [][]float64  `json:"projection_matrix"`
	Resolution       Resolution   `json:"resolution"`
	Projection       string       `json:"projection"`
	ClippingRange    [2]float64   `json:"clipping_range"`
}

type Intrinsics struct {
	FocalLengthMM        float64     `json:"focal_length_mm"`
	HorizontalApertureMM float64     `json:"horizontal_aperture_mm"`
	VerticalApertureMM   float64     `json:"vertical_aperture_mm"`
	PixelSizeMM          PixelSize   `json:"pixel_size_mm"`
	Fx                   float64     `json:"fx"`
	Fy                   float64     `json:"fy"`
	Cx                   float64     `json:"cx"`
	Cy                   float64     `json:"cy"`
	Skew                 float64     `json:"skew"`
	K                    [][]float64 `json:"K"`
}

type Extrinsics struct {
	R [][]float64 `json:"R"`
	T []float64   `json:"T"`
}

type PixelSize struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ComputeMetadata derives the calibration for an oriented camera at a given
// render resolution.
func ComputeMetadata(cam OrientedCamera, lens Lens, width, height int) (*Metadata, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("metadata resolution %dx%d: %w", width, height, ErrInvalidArgument)
	}

	pixX := lens.HorizontalAperture / float64(width)
	pixY := lens.VerticalAperture / float64(height)
	fx := lens.FocalLength / pixX
	fy := lens.FocalLength / pixY
	cx := float64(width) / 2
	cy := float64(height) / 2

	k := [][]float64{
		{fx, 0, cx},
		{0, fy, cy},
		{0, 0, 1},
	}

	r := rotationMatrix(cam.Yaw, cam.Pitch)
	t := []float64{cam.Position.X, cam.Position.Y, cam.Position.Z}

	// P = K * [R | T]
	rt := [][]float64{
		{r[0][0], r[0][1], r[0][2], t[0]},
		{r[1][0], r[1][1], r[1][2], t[1]},
		{r[2][0], r[2][1], r[2][2], t[2]},
	}
	p := make([][]float64, 3)
	for i := 0; i < 3; i++ {
		p[i] = make([]float64, 4)
		for j := 0; j < 4; j++ {
			for n := 0; n < 3; n++ {
				p[i][j] += k[i][n] * rt[n][j]
			}
		}
	}

	return &Metadata{
		Intrinsic: Intrinsics{
			FocalLengthMM:        lens.FocalLength,
			HorizontalApertureMM: lens.HorizontalAperture,
			VerticalApertureMM:   lens.VerticalAperture,
			PixelSizeMM:          PixelSize{X: pixX, Y: pixY},
			Fx:                   fx,
			Fy:                   fy,
			Cx:                   cx,
			Cy:                   cy,
			Skew:                 0,
			K:                    k,
		},
		Extrinsic:        Extrinsics{R: r, T: t},
		ProjectionMatrix: p,
		Resolution:       Resolution{Width: width, Height: height},
		Projection:       lens.Projection,
		ClippingRange:    [2]float64{lens.ClipNear, lens.ClipFar},
	}, nil
}

// ExportMetadata writes the calibration as indented JSON, creating the
// output directory if needed.
func ExportMetadata(cam OrientedCamera, lens Lens, width, height int, outputPath string) error {
	md, err := ComputeMetadata(cam, lens, width, height)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(md, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(outputPath, data, 0644)
}

// rotationMatrix builds the camera-to-world rotation Ry(yaw)*Rx(pitch).
// Applying it to (0,0,-1) reproduces OrientedCamera.Forward.
func rotationMatrix(yawDeg, pitchDeg float64) [][]float64 {
	ca, sa := math.Cos(radians(yawDeg)), math.Sin(radians(yawDeg))
	cb, sb := math.Cos(radians(pitchDeg)), math.Sin(radians(pitchDeg))
	return [][]float64{
		{ca, sa * sb, sa * cb},
		{0, cb, -sb},
		{-sa, ca * sb, ca * cb},
	}
}
