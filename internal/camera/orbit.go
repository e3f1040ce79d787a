package camera

import (
	"fmt"
	"math"

	"github.com/ivlev/stagecraft/internal/spatial"
)

// OrbitPath is a precomputed camera trajectory: one position and one look-at
// target per integer frame in an inclusive range. Built once, read-only
// afterwards; the animator consumes it frame by frame.
type OrbitPath struct {
	Range     spatial.FrameRange
	Positions []spatial.Vec3
	Targets   []spatial.Vec3
}

// Len returns the number of frames on the path.
func (p *OrbitPath) Len() int { return len(p.Positions) }

// At returns the position and target for an absolute frame number.
func (p *OrbitPath) At(frame int) (pos, target spatial.Vec3, ok bool) {
	i := frame - p.Range.Start
	if i < 0 || i >= len(p.Positions) {
		return spatial.Vec3{}, spatial.Vec3{}, false
	}
	return p.Positions[i], p.Targets[i], true
}

// GenerateOrbitPath builds a closed circular trajectory around center in the
// horizontal plane at the given height. With n frames in the range the angle
// step is 2π/n, so the loop closes after exactly n frames without repeating
// the start angle. Seen from above the circle is traversed clockwise; the
// winding is fixed.
//
// A zero radius collapses every position onto the vertical axis through
// center. That is valid here, but LookAt will reject those samples later if
// height also equals center.Y.
func GenerateOrbitPath(center spatial.Vec3, radius, height float64, frames spatial.FrameRange) (*OrbitPath, error) {
	if !frames.Valid() {
		return nil, fmt.Errorf("orbit frame range (%d, %d): %w", frames.Start, frames.End, ErrInvalidArgument)
	}
	if radius < 0 {
		return nil, fmt.Errorf("orbit radius %v: %w", radius, ErrInvalidArgument)
	}

	n := frames.Count()
	path := &OrbitPath{
		Range:     frames,
		Positions: make([]spatial.Vec3, n),
		Targets:   make([]spatial.Vec3, n),
	}

	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		path.Positions[i] = spatial.Vec3{
			X: center.X + math.Sin(angle)*radius,
			Y: height,
			Z: center.Z + math.Cos(angle)*radius,
		}
		path.Targets[i] = center
	}

	return path, nil
}

// GenerateOrbitCameras places numViews cameras on a fixed ring around target,
// each oriented toward it. Unlike GenerateOrbitPath the result has no time
// dimension; it is a static multi-view rig.
func GenerateOrbitCameras(target spatial.Vec3, radius, height float64, numViews int) ([]OrientedCamera, error) {
	if numViews < 1 {
		return nil, fmt.Errorf("orbit ring with %d views: %w", numViews, ErrInvalidArgument)
	}
	if radius < 0 {
		return nil, fmt.Errorf("orbit ring radius %v: %w", radius, ErrInvalidArgument)
	}

	cams := make([]OrientedCamera, 0, numViews)
	for i := 0; i < numViews; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numViews)
		pos := spatial.Vec3{
			X: target.X + math.Sin(angle)*radius,
			Y: height,
			Z: target.Z + math.Cos(angle)*radius,
		}
		cam, err := Orient(pos, target)
		if err != nil {
			return nil, fmt.Errorf("view %d: %w", i, err)
		}
		cams = append(cams, cam)
	}

	return cams, nil
}
