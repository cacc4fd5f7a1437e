// Package imaging renders the site's favicon set and responsive logo
// variants from source artwork.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
)

const webpQuality = 85

// pngEncoder trades encode time for smaller site assets.
var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

var faviconSizes = []struct {
	Name string
	Size int
}{
	{"favicon-16x16.png", 16},
	{"favicon-32x32.png", 32},
	{"android-chrome-192x192.png", 192},
	{"android-chrome-512x512.png", 512},
	{"apple-touch-icon.png", 180},
}

// LogoVariant is one responsive logo rendition.
type LogoVariant struct {
	Name   string
	Height int
}

// LogoVariants covers the site's mobile and desktop display densities.
var LogoVariants = []LogoVariant{
	{"mobile-1x", 40},
	{"mobile-2x", 80},
	{"mobile-3x", 120},
	{"desktop-1x", 60},
	{"desktop-2x", 120},
	{"desktop-3x", 180},
}

// LoadImage decodes a source image from disk.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// BaseName returns the file name without directory or extension,
// used to derive output names from the source artwork.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GenerateFavicons writes favicon.ico plus the PNG icon set into
// outDir and returns the paths written. The ICO frames are flattened
// onto white; the PNGs keep their transparency.
func GenerateFavicons(src image.Image, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string

	flat := flattenWhite(src)
	icoPath := filepath.Join(outDir, "favicon.ico")
	if err := writeICO(icoPath, []image.Image{
		resizeSquare(flat, 16),
		resizeSquare(flat, 32),
	}); err != nil {
		return written, err
	}
	written = append(written, icoPath)

	for _, icon := range faviconSizes {
		path := filepath.Join(outDir, icon.Name)
		if err := writePNG(path, resizeSquare(src, icon.Size)); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// GenerateLogos writes PNG and WebP renditions of the logo at each
// display density, preserving aspect ratio. Output names follow
// "<base>-<variant>.<ext>". A WebP encode failure leaves that variant
// PNG-only and is reported through warn.
func GenerateLogos(src image.Image, base, outDir string, warn func(error)) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, variant := range LogoVariants {
		scaled := resize.Resize(0, uint(variant.Height), src, resize.Lanczos3)

		pngPath := filepath.Join(outDir, fmt.Sprintf("%s-%s.png", base, variant.Name))
		if err := writePNG(pngPath, scaled); err != nil {
			return written, err
		}
		written = append(written, pngPath)

		webpPath := filepath.Join(outDir, fmt.Sprintf("%s-%s.webp", base, variant.Name))
		if err := writeWebP(webpPath, scaled); err != nil {
			if warn != nil {
				warn(err)
			}
			continue
		}
		written = append(written, webpPath)
	}
	return written, nil
}

func resizeSquare(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
}

// flattenWhite composites the image onto a white background. ICO
// viewers that predate alpha render transparency as black otherwise.
func flattenWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)
	return flat
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := pngEncoder.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := webp.Encode(f, img, &webp.Options{Quality: webpQuality}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
