package loaders

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/spaghettifunk/planetforge/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureLoaderReadsExports(t *testing.T) {
	dir := t.TempDir()
	gray := image.NewGray16(image.Rect(0, 0, 8, 8))
	gray.SetGray16(3, 4, color.Gray16{Y: 65535})
	rivers := &metadata.Texture{Name: metadata.RiversMapName, Width: 8, Height: 8, ChannelCount: 1, Image: gray}

	for _, format := range []systems.ExportFormat{systems.ExportFormatPNG, systems.ExportFormatTIFF} {
		t.Run(format.String(), func(t *testing.T) {
			paths, err := systems.ExportTextures(dir, format, rivers)
			require.NoError(t, err)

			res, err := (&TextureLoader{}).Load(paths[0], metadata.ResourceTypeImage, nil)
			require.NoError(t, err)
			tex := res.Data.(*metadata.Texture)
			assert.Equal(t, metadata.RiversMapName, tex.Name)
			assert.Equal(t, uint32(8), tex.Width)
			assert.Equal(t, uint8(1), tex.ChannelCount)
			assert.Equal(t, metadata.TextureFilterModeNearest, tex.Filter)

			r, _, _, _ := tex.Image.At(3, 4).RGBA()
			assert.Equal(t, uint32(65535), r)
		})
	}
}

func TestTextureLoaderRejectsGarbage(t *testing.T) {
	_, err := (&TextureLoader{}).Load(filepath.Join("testdata", "missing.png"), metadata.ResourceTypeImage, nil)
	assert.Error(t, err)
}
