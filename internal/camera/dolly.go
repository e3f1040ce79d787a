package camera

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ivlev/stagecraft/internal/spatial"
)

// GenerateDollyMove samples a straight-line camera move from one point to
// another over a frame range, easing the travel with fn (ease.InOutCubic when
// nil). The look-at target stays fixed for the whole move. The result has the
// same shape as an orbit path so the animator consumes both.
func GenerateDollyMove(from, to, target spatial.Vec3, frames spatial.FrameRange, fn ease.TweenFunc) (*OrbitPath, error) {
	if !frames.Valid() {
		return nil, fmt.Errorf("dolly frame range (%d, %d): %w", frames.Start, frames.End, ErrInvalidArgument)
	}
	if fn == nil {
		fn = ease.InOutCubic
	}

	n := frames.Count()
	path := &OrbitPath{
		Range:     frames,
		Positions: make([]spatial.Vec3, n),
		Targets:   make([]spatial.Vec3, n),
	}

	if n == 1 {
		path.Positions[0] = from
		path.Targets[0] = target
		return path, nil
	}

	// One tween drives the interpolation parameter; positions come from
	// lerping the endpoints so the move stays exact in float64.
	tw := gween.New(0, 1, float32(n-1), fn)
	for i := 0; i < n; i++ {
		t, _ := tw.Set(float32(i))
		path.Positions[i] = from.Lerp(to, float64(t))
		path.Targets[i] = target
	}

	// The tween ends exactly at 1, but pin the endpoints against float32
	// rounding anyway.
	path.Positions[0] = from
	path.Positions[n-1] = to

	return path, nil
}
