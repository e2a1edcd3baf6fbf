package compute

import "github.com/spaghettifunk/planetforge/engine/renderer/metadata"

/**
 * @brief The compute side of a renderer backend: buffers, writable textures
 * and the terrain texture kernel. Resources are owned by the caller and must
 * be destroyed exactly once.
 */
type Backend interface {
	Name() string
	Shutdown() error
	BufferCreate(name string, count uint32) (*metadata.ComputeBuffer, error)
	BufferWrite(buffer *metadata.ComputeBuffer, data []float32) error
	BufferDestroy(buffer *metadata.ComputeBuffer) error
	TextureCreate(config *metadata.RenderTextureConfig) (*metadata.RenderTexture, error)
	// TextureRead returns Width*Height*Channels values, row-major.
	TextureRead(texture *metadata.RenderTexture) ([]float32, error)
	TextureDestroy(texture *metadata.RenderTexture) error
	Dispatch(kernel metadata.Kernel, bindings *metadata.KernelBindings, size metadata.DispatchSize) error
}
