// Package texture decodes texture images and prepares matcap lookups.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	gomath "math"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Decode decodes an image by file name: TGA by extension, anything else
// through the registered image decoders.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

// Matcap scales img to a size x size RGBA image suitable for upload.
func Matcap(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// DefaultMatcap renders a neutral lit-sphere matcap used when no texture is
// configured or the configured one fails to load.
func DefaultMatcap(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	light := [3]float64{-0.4, 0.5, 0.77}
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			nx := (float64(x) + 0.5 - r) / r
			ny := (r - float64(y) - 0.5) / r
			d := nx*nx + ny*ny
			if d > 1 {
				img.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			nz := gomath.Sqrt(1 - d)
			diffuse := gomath.Max(0, nx*light[0]+ny*light[1]+nz*light[2])
			v := uint8(gomath.Min(255, 40+200*diffuse))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}
