// Package camera computes look-at orientations and camera move paths.
//
// Orientation is expressed as yaw (about the world Y axis) and pitch (about
// the local X axis after yaw), both in degrees. Roll is always zero: the
// solver can aim a camera but never bank it. Callers that apply the angles
// themselves must rotate yaw first, then pitch.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/stagecraft/internal/spatial"
)

var (
	// ErrDegenerateDirection is returned when position and target coincide
	// and no view direction can be derived.
	ErrDegenerateDirection = errors.New("camera: degenerate direction (position equals target)")

	// ErrInvalidArgument is returned for zero or negative counts and ranges
	// where a positive value is required.
	ErrInvalidArgument = errors.New("camera: invalid argument")
)

// OrientedCamera is a camera position with its derived yaw/pitch angles.
type OrientedCamera struct {
	Position spatial.Vec3
	Yaw      float64 // degrees, about world Y
	Pitch    float64 // degrees, about local X
}

// LookAt computes yaw and pitch in degrees such that a camera at position,
// whose rest orientation faces -Z, points at target.
func LookAt(position, target spatial.Vec3) (yaw, pitch float64, err error) {
	delta := target.Sub(position)
	if delta.IsZero() {
		return 0, 0, fmt.Errorf("look at %v from %v: %w", target, position, ErrDegenerateDirection)
	}
	dir := delta.Normalize()

	// The rest pose looks down -Z, so both components are negated: a target
	// behind the camera (+Z) comes out as a 180 degree turn.
	yaw = degrees(math.Atan2(-dir.X, -dir.Z))

	// dir is unit length so dir.Y is in [-1, 1] up to rounding error; clamp
	// to keep Asin out of its domain error.
	pitch = degrees(math.Asin(clamp(dir.Y, -1, 1)))

	return yaw, pitch, nil
}

// Orient is LookAt packaged as an OrientedCamera.
func Orient(position, target spatial.Vec3) (OrientedCamera, error) {
	yaw, pitch, err := LookAt(position, target)
	if err != nil {
		return OrientedCamera{}, err
	}
	return OrientedCamera{Position: position, Yaw: yaw, Pitch: pitch}, nil
}

// Forward rebuilds the unit view direction from yaw and pitch by rotating
// world -Z about Y by yaw, then about the resulting local X by pitch.
func (c OrientedCamera) Forward() spatial.Vec3 {
	yaw := radians(c.Yaw)
	pitch := radians(c.Pitch)
	return spatial.Vec3{
		X: -math.Cos(pitch) * math.Sin(yaw),
		Y: math.Sin(pitch),
		Z: -math.Cos(pitch) * math.Cos(yaw),
	}
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
func radians(deg float64) float64 { return deg * math.Pi / 180 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
