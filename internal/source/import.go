package source

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
)

// ImportTextures renders every texture in src to a PNG file under dir and
// returns the written paths in source order. The paths are suitable as asset
// references for material inputs.
func ImportTextures(src Source, dir string, dpi int) ([]string, error) {
	n := src.Count()
	if n == 0 {
		return nil, fmt.Errorf("texture source is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		img, err := src.Render(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}

		out := filepath.Join(dir, fmt.Sprintf("texture_%03d.png", i))
		f, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, out)
	}

	return paths, nil
}
