package systems

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func testGrayTexture(name string, size int) *metadata.Texture {
	img := image.NewGray16(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16((x*size + y) * 97)})
		}
	}
	return &metadata.Texture{Name: name, Width: uint32(size), Height: uint32(size), ChannelCount: 1, Image: img}
}

func testNormalTexture(name string, size int) *metadata.Texture {
	img := image.NewNRGBA64(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{R: uint16(x * 4000), G: uint16(y * 4000), B: 65535, A: 65535})
		}
	}
	return &metadata.Texture{Name: name, Width: uint32(size), Height: uint32(size), ChannelCount: 4, Filter: metadata.TextureFilterModeLinear, Image: img}
}

func TestParseExportFormat(t *testing.T) {
	for name, want := range map[string]ExportFormat{"": ExportFormatPNG, "PNG": ExportFormatPNG, "tif": ExportFormatTIFF, "tiff": ExportFormatTIFF} {
		got, err := ParseExportFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseExportFormat("exr")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
	assert.Equal(t, ".tiff", ExportFormatTIFF.Extension())
}

func TestExportTexturesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	height := testGrayTexture(metadata.HeightMapName, 8)
	normal := testNormalTexture(metadata.NormalMapName, 8)

	paths, err := ExportTextures(dir, ExportFormatPNG, height, normal)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "ExportedHeightMap.png"),
		filepath.Join(dir, "ExportedNormalMap.png"),
	}, paths)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	gray, ok := decoded.(*image.Gray16)
	require.True(t, ok, "16 bit grayscale expected, got %T", decoded)
	assert.Equal(t, height.Image.(*image.Gray16).Pix, gray.Pix)
}

func TestExportTexturesTIFF(t *testing.T) {
	dir := t.TempDir()
	normal := testNormalTexture(metadata.NormalMapName, 8)

	paths, err := ExportTextures(dir, ExportFormatTIFF, normal)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	decoded, err := tiff.Decode(f)
	require.NoError(t, err)
	for _, px := range [][2]int{{0, 0}, {3, 5}, {7, 7}} {
		want := normal.Image.At(px[0], px[1]).(color.NRGBA64)
		got := color.NRGBA64Model.Convert(decoded.At(px[0], px[1])).(color.NRGBA64)
		assert.Equal(t, want, got)
	}
}

func TestExportTexturesRejectsEmpty(t *testing.T) {
	_, err := ExportTextures(t.TempDir(), ExportFormatPNG, &metadata.Texture{Name: "empty"})
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	_, err := Preview(nil, 16)
	assert.Error(t, err)

	p, err := Preview(testGrayTexture("height", 64), 16)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), p.Width)
	assert.IsType(t, &image.Gray16{}, p.Image)
	assert.Equal(t, image.Rect(0, 0, 16, 16), p.Image.Bounds())

	p, err = Preview(testNormalTexture("normal", 8), 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(DefaultPreviewSize), p.Height)
	assert.IsType(t, &image.NRGBA64{}, p.Image)
}
