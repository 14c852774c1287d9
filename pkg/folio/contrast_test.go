package folio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestBrightness(t *testing.T) {
	require.InDelta(t, 255, Brightness(solid(4, 4, color.White)), 0.001)
	require.InDelta(t, 0, Brightness(solid(4, 4, color.Black)), 0.001)
	// (299*255)/1000 for pure red.
	require.InDelta(t, 76.245, Brightness(solid(2, 2, color.NRGBA{R: 255, A: 255})), 0.001)
	require.Equal(t, 0.0, Brightness(image.NewNRGBA(image.Rect(0, 0, 0, 0))))
}

func TestToneFor(t *testing.T) {
	require.Equal(t, IconDark, ToneFor(200))
	require.Equal(t, IconLight, ToneFor(128))
	require.Equal(t, IconLight, ToneFor(10))
}

func TestProber(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "media", "bright.png"), solid(200, 100, color.White))
	writePNG(t, filepath.Join(root, "media", "dark.png"), solid(10, 20, color.Black))

	p := Prober{Root: root}

	w, h, err := p.Dimensions("media/bright.png")
	require.NoError(t, err)
	require.Equal(t, 200, w)
	require.Equal(t, 100, h)

	require.Equal(t, IconDark, p.Tone("./media/bright.png"))
	require.Equal(t, IconLight, p.Tone("media/dark.png"))
}

func TestProber_Failures(t *testing.T) {
	p := Prober{Root: t.TempDir()}

	_, _, err := p.Dimensions("missing.png")
	require.Error(t, err)
	require.Equal(t, IconLight, p.Tone("missing.png"))
	require.Equal(t, IconLight, p.Tone("https://cdn.example.com/a.png"))
	require.Equal(t, IconLight, Prober{}.Tone("a.png"))
}
