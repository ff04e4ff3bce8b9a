package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessDownsizesAndThumbnails(t *testing.T) {
	p := NewProcessor(Config{MaxWidth: 100, MaxHeight: 100, ThumbWidth: 40, ThumbHeight: 20, Quality: 80})

	out, err := p.Process(bytes.NewReader(solidPNG(t, 400, 200)))
	require.NoError(t, err)

	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, ".png", out.Extension)
	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 50, out.Height)

	thumb, _, err := image.Decode(bytes.NewReader(out.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, 40, thumb.Bounds().Dx())
	assert.Equal(t, 20, thumb.Bounds().Dy())
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := NewProcessor(DefaultConfig()).Process(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestGeneratePaths(t *testing.T) {
	original, thumb := GeneratePaths("properties/p1", "abc", ".jpg")
	assert.Equal(t, "properties/p1/abc.jpg", original)
	assert.Equal(t, "properties/p1/abc_thumb.jpg", thumb)
}
