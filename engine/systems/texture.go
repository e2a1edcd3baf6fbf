package systems

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

/** @brief Default size of the preview window, in pixels. */
const DefaultPreviewSize int = 512

type ExportFormat int

const (
	ExportFormatPNG ExportFormat = iota
	ExportFormatTIFF
)

func (ef ExportFormat) Extension() string {
	switch ef {
	case ExportFormatTIFF:
		return ".tiff"
	default:
		return ".png"
	}
}

func (ef ExportFormat) String() string {
	return strings.TrimPrefix(ef.Extension(), ".")
}

func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "png":
		return ExportFormatPNG, nil
	case "tif", "tiff":
		return ExportFormatTIFF, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, core.ErrUnsupportedFormat)
	}
}

/**
 * @brief Writes each texture to dir as <texture name><extension>, creating
 * the directory when needed.
 * @return The paths written, in texture order.
 */
func ExportTextures(dir string, format ExportFormat, textures ...*metadata.Texture) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		core.LogError("failed to create export directory %s: %s", dir, err)
		return nil, err
	}

	paths := make([]string, 0, len(textures))
	for _, tex := range textures {
		if tex == nil || tex.Image == nil {
			return paths, fmt.Errorf("export to %s: texture has no image", dir)
		}
		path := filepath.Join(dir, tex.Name+format.Extension())
		if err := writeTextureFile(path, format, tex.Image); err != nil {
			core.LogError("failed to export %s: %s", tex.Name, err)
			return paths, err
		}
		core.LogInfo("exported %s at %s", tex.Name, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTextureFile(path string, format ExportFormat, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeTexture(f, format, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeTexture writes img in the given format. Both formats keep 16 bits
// per channel.
func EncodeTexture(w io.Writer, format ExportFormat, img image.Image) error {
	switch format {
	case ExportFormatPNG:
		return png.Encode(w, img)
	case ExportFormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("format %d: %w", int(format), core.ErrUnsupportedFormat)
	}
}

/**
 * @brief Scales a read back texture to size x size for display. Textures
 * with a linear filter are scaled bilinearly, the others with nearest
 * neighbour so single river pixels survive.
 */
func Preview(tex *metadata.Texture, size int) (*metadata.Texture, error) {
	if tex == nil || tex.Image == nil {
		return nil, fmt.Errorf("preview: texture has no image")
	}
	if size <= 0 {
		size = DefaultPreviewSize
	}

	var scaler draw.Scaler = draw.NearestNeighbor
	if tex.Filter == metadata.TextureFilterModeLinear {
		scaler = draw.BiLinear
	}

	bounds := image.Rect(0, 0, size, size)
	var dst draw.Image
	switch tex.Image.(type) {
	case *image.Gray16:
		dst = image.NewGray16(bounds)
	default:
		dst = image.NewNRGBA64(bounds)
	}
	scaler.Scale(dst, bounds, tex.Image, tex.Image.Bounds(), draw.Src, nil)

	return &metadata.Texture{
		Name:         tex.Name,
		Width:        uint32(size),
		Height:       uint32(size),
		ChannelCount: tex.ChannelCount,
		Filter:       tex.Filter,
		Image:        dst,
	}, nil
}
