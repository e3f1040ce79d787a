// Package sheet composes rendered frames into a contact sheet image for
// quick review of a render run.
package sheet

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/stagecraft/internal/system"
)

const (
	defaultCellWidth = 320
	cellMargin       = 8
	qrSize           = 96
)

// Options control the sheet layout.
type Options struct {
	Columns   int    // 0 picks a near-square grid
	CellWidth int    // thumbnail width in pixels, 0 uses the default
	Labels    bool   // stamp each cell with its source filename
	QRText    string // optional payload encoded bottom-right
}

// Compose decodes the given frame images and lays them out on a grid. Cell
// height follows the aspect ratio of the first frame.
func Compose(framePaths []string, opts Options) (*image.RGBA, error) {
	if len(framePaths) == 0 {
		return nil, fmt.Errorf("contact sheet needs at least one frame")
	}

	cellW := opts.CellWidth
	if cellW <= 0 {
		cellW = defaultCellWidth
	}

	first, err := decode(framePaths[0])
	if err != nil {
		return nil, err
	}
	fb := first.Bounds()
	cellH := cellW * fb.Dy() / fb.Dx()
	if cellH <= 0 {
		return nil, fmt.Errorf("frame %s has no area", framePaths[0])
	}

	cols := opts.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(framePaths)))))
	}
	rows := (len(framePaths) + cols - 1) / cols

	sheetW := cols*cellW + (cols+1)*cellMargin
	sheetH := rows*cellH + (rows+1)*cellMargin
	sheet := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(color.RGBA{R: 24, G: 24, B: 24, A: 255}), image.Point{}, draw.Src)

	cellRect := image.Rect(0, 0, cellW, cellH)
	cell := system.GetImage(cellRect)
	defer system.PutImage(cell)

	for i, path := range framePaths {
		img := first
		if i > 0 {
			if img, err = decode(path); err != nil {
				return nil, err
			}
		}

		// Scale fills the whole cell, so reusing the pooled buffer is safe.
		draw.ApproxBiLinear.Scale(cell, cellRect, img, img.Bounds(), draw.Src, nil)

		col, row := i%cols, i/cols
		x := cellMargin + col*(cellW+cellMargin)
		y := cellMargin + row*(cellH+cellMargin)
		draw.Copy(sheet, image.Point{X: x, Y: y}, cell, cellRect, draw.Src, nil)

		if opts.Labels {
			drawLabel(sheet, filepath.Base(path), x+4, y+cellH-6)
		}
	}

	if opts.QRText != "" {
		if err := stampQR(sheet, opts.QRText); err != nil {
			return nil, err
		}
	}

	return sheet, nil
}

// Write composes the sheet and saves it as PNG.
func Write(framePaths []string, outPath string, opts Options) error {
	sheet, err := Compose(framePaths, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, sheet)
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func drawLabel(dst *image.RGBA, text string, x, y int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// stampQR encodes text into a QR code drawn in the bottom-right corner, so
// the sheet carries its own run metadata.
func stampQR(dst *image.RGBA, text string) error {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr stamp: %w", err)
	}

	img := qr.Image(qrSize)
	b := dst.Bounds()
	dp := image.Point{X: b.Max.X - qrSize - cellMargin, Y: b.Max.Y - qrSize - cellMargin}
	draw.Copy(dst, dp, img, img.Bounds(), draw.Over, nil)
	return nil
}
