package folio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/webp"
	"k8s.io/klog/v2"
)

// Icon tones applied to the controls drawn over an image.
const (
	IconDark  = "icon-dark"
	IconLight = "icon-light"
)

// brightnessThreshold splits bright images from dark ones on a 0-255 scale.
const brightnessThreshold = 128

// sampleEdge bounds the longest side of the image used for sampling.
var sampleEdge = 64

// Prober inspects local media files referenced by items.
type Prober struct {
	Root string
}

func (p Prober) path(src string) (string, error) {
	if p.Root == "" {
		return "", fmt.Errorf("no site root")
	}
	if strings.Contains(src, "://") || strings.HasPrefix(src, "//") {
		return "", fmt.Errorf("remote media: %s", src)
	}
	clean := filepath.Clean("/" + strings.TrimPrefix(src, "./"))
	return filepath.Join(p.Root, filepath.FromSlash(clean)), nil
}

// Dimensions returns the natural pixel size of an image.
func (p Prober) Dimensions(src string) (int, int, error) {
	path, err := p.path(src)
	if err != nil {
		return 0, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to decode: %w", err)
	}
	return ic.Width, ic.Height, nil
}

// Tone returns the icon tone that contrasts with an image.
func (p Prober) Tone(src string) string {
	path, err := p.path(src)
	if err != nil {
		klog.V(1).Infof("no contrast analysis for %s: %v", src, err)
		return IconLight
	}

	img, err := imgio.Open(path)
	if err != nil {
		klog.Warningf("contrast analysis failed for %s: %v", src, err)
		return IconLight
	}

	return ToneFor(Brightness(downsample(img)))
}

// ToneFor maps a brightness to an icon tone.
func ToneFor(brightness float64) string {
	if brightness > brightnessThreshold {
		return IconDark
	}
	return IconLight
}

// Brightness returns the mean perceived luminance of img, from 0 to 255.
func Brightness(img image.Image) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	total := 0.0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			total += (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
		}
	}
	return total / float64(n)
}

func downsample(img image.Image) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= sampleEdge && h <= sampleEdge {
		return img
	}

	x, y := sampleEdge, sampleEdge
	if w > h {
		y = max(1, h*sampleEdge/w)
	} else {
		x = max(1, w*sampleEdge/h)
	}
	return transform.Resize(img, x, y, transform.Linear)
}
