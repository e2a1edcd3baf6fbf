package loaders

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	_ "golang.org/x/image/tiff"
)

// TextureLoader decodes exported PNG and TIFF textures.
type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tex := &metadata.Texture{
		Name:         name,
		Width:        uint32(img.Bounds().Dx()),
		Height:       uint32(img.Bounds().Dy()),
		ChannelCount: channelCount(img),
		Filter:       metadata.TextureFilterModeLinear,
		Image:        img,
	}
	if name == metadata.RiversMapName {
		tex.Filter = metadata.TextureFilterModeNearest
	}

	return &metadata.Resource{
		Type:     metadata.ResourceTypeImage,
		Name:     name,
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     tex,
	}, nil
}

func (tl *TextureLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}

func channelCount(img image.Image) uint8 {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	default:
		return 4
	}
}
