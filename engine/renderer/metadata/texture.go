package metadata

import "image"

const (
	HeightMapName            string = "ExportedHeightMap"
	NormalMapName            string = "ExportedNormalMap"
	RiversMapName            string = "ExportedRiversMap"
	DefaultTextureResolution uint32 = 2048
)

/**
 * @brief Pixel formats of render textures.
 */
type TextureFormat int

const (
	/** @brief One 16 bit channel, linear. */
	TextureFormatR16 TextureFormat = iota
	/** @brief Four half float channels, linear. */
	TextureFormatRGBAHalf
)

// Channels returns the number of channels of the format.
func (f TextureFormat) Channels() uint8 {
	switch f {
	case TextureFormatRGBAHalf:
		return 4
	default:
		return 1
	}
}

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatR16:
		return "R16"
	case TextureFormatRGBAHalf:
		return "RGBAHalf"
	default:
		return "unknown"
	}
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

/**
 * @brief The configuration used to create a RenderTexture.
 */
type RenderTextureConfig struct {
	Name   string
	Width  uint32
	Height uint32
	Format TextureFormat
	Filter TextureFilter
}

/**
 * @brief A texture living on the compute backend, writable by kernels.
 */
type RenderTexture struct {
	/** @brief The unique texture identifier assigned by the backend. */
	ID uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	Format TextureFormat
	Filter TextureFilter
	/** @brief Backend specific data. */
	InternalData interface{}
}

/**
 * @brief A texture read back to the CPU, ready for preview or export.
 */
type Texture struct {
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief The filter used when the texture is resampled. */
	Filter TextureFilter
	/** @brief Pixels as Gray16 (one channel) or NRGBA64 (four channels). */
	Image image.Image
}
