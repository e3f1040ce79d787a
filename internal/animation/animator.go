// Package animation records camera moves as per-frame time samples on a
// stage.
package animation

import (
	"fmt"

	"github.com/ivlev/stagecraft/internal/camera"
	"github.com/ivlev/stagecraft/internal/stage"
)

// AnimateCamera walks a path and records one translate/rotateY/rotateX
// sample per frame against the camera prim. Orientation comes from the
// look-at solver, so a frame whose position coincides with its target aborts
// the whole move before any sample of it is written.
//
// The stage's time codes are extended to cover the path's frame range.
func AnimateCamera(st *stage.Stage, cameraPath string, path *camera.OrbitPath) error {
	if path == nil || path.Len() == 0 {
		return fmt.Errorf("animate %s: empty path", cameraPath)
	}

	prim, ok := st.GetPrim(cameraPath)
	if !ok {
		return fmt.Errorf("animate %s: prim not defined", cameraPath)
	}

	// Solve every frame before authoring anything: a failure mid-path must
	// not leave a half-written move behind.
	cams := make([]camera.OrientedCamera, path.Len())
	for i := range path.Positions {
		cam, err := camera.Orient(path.Positions[i], path.Targets[i])
		if err != nil {
			return fmt.Errorf("animate %s: frame %d: %w", cameraPath, path.Range.Start+i, err)
		}
		cams[i] = cam
	}

	for i, cam := range cams {
		frame := path.Range.Start + i
		prim.SetXformOpSample(stage.OpTranslate, frame, cam.Position)
		prim.SetXformOpSample(stage.OpRotateY, frame, cam.Yaw)
		prim.SetXformOpSample(stage.OpRotateX, frame, cam.Pitch)
	}

	start, end := path.Range.Start, path.Range.End
	if s, e, ok := st.TimeCodes(); ok {
		if s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	st.SetTimeCodes(start, end)

	return nil
}
