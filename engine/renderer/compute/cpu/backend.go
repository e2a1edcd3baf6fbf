package cpu

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

// Backend runs the terrain texture kernel on the CPU. Workgroups are split in
// rows and executed on a job system.
type Backend struct {
	jobs *core.JobSystem

	mutex    sync.Mutex
	nextID   uint32
	buffers  map[uint32][]float32
	textures map[uint32]*texture
}

// New creates a backend with the given number of workers. Zero or less uses
// one worker per CPU.
func New(workers int) (*Backend, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	js, err := core.NewJobSystem(workers, workers*2)
	if err != nil {
		return nil, err
	}
	core.LogDebug("CPU compute backend initialized with %d workers", workers)

	return &Backend{
		jobs:     js,
		buffers:  make(map[uint32][]float32),
		textures: make(map[uint32]*texture),
	}, nil
}

func (b *Backend) Name() string { return "cpu" }

func (b *Backend) Shutdown() error {
	b.mutex.Lock()
	leaked := len(b.buffers) + len(b.textures)
	b.buffers = make(map[uint32][]float32)
	b.textures = make(map[uint32]*texture)
	b.mutex.Unlock()

	if leaked > 0 {
		core.LogWarn("CPU compute backend shut down with %d live resources", leaked)
	}
	return b.jobs.Shutdown()
}

func (b *Backend) BufferCreate(name string, count uint32) (*metadata.ComputeBuffer, error) {
	if count == 0 {
		return nil, fmt.Errorf("buffer %s: count must be positive", name)
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.nextID++
	b.buffers[b.nextID] = make([]float32, count)
	return &metadata.ComputeBuffer{
		ID:           b.nextID,
		Name:         name,
		Count:        count,
		InternalData: b.nextID,
	}, nil
}

func (b *Backend) BufferWrite(buffer *metadata.ComputeBuffer, data []float32) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	store, err := b.lookupBuffer(buffer)
	if err != nil {
		return err
	}
	if len(data) != len(store) {
		return fmt.Errorf("buffer %s holds %d values, got %d", buffer.Name, len(store), len(data))
	}
	copy(store, data)
	return nil
}

func (b *Backend) BufferDestroy(buffer *metadata.ComputeBuffer) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, err := b.lookupBuffer(buffer); err != nil {
		return err
	}
	delete(b.buffers, buffer.ID)
	buffer.InternalData = nil
	return nil
}

func (b *Backend) TextureCreate(config *metadata.RenderTextureConfig) (*metadata.RenderTexture, error) {
	if config.Width == 0 || config.Height == 0 {
		return nil, fmt.Errorf("texture %s: size %dx%d: %w", config.Name, config.Width, config.Height, core.ErrInvalidResolution)
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.nextID++
	b.textures[b.nextID] = newTexture(int(config.Width), int(config.Height), int(config.Format.Channels()))
	return &metadata.RenderTexture{
		ID:           b.nextID,
		Name:         config.Name,
		Width:        config.Width,
		Height:       config.Height,
		Format:       config.Format,
		Filter:       config.Filter,
		InternalData: b.nextID,
	}, nil
}

func (b *Backend) TextureRead(tex *metadata.RenderTexture) ([]float32, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	t, err := b.lookupTexture(tex)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(t.pixels))
	copy(out, t.pixels)
	return out, nil
}

func (b *Backend) TextureDestroy(tex *metadata.RenderTexture) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, err := b.lookupTexture(tex); err != nil {
		return err
	}
	delete(b.textures, tex.ID)
	tex.InternalData = nil
	return nil
}

func (b *Backend) Dispatch(kernel metadata.Kernel, bindings *metadata.KernelBindings, size metadata.DispatchSize) error {
	fn, ok := kernels[kernel]
	if !ok {
		return fmt.Errorf("%s: %w", kernel, core.ErrUnknownKernel)
	}
	if bindings == nil {
		return fmt.Errorf("%s: bindings: %w", kernel, core.ErrMissingBinding)
	}

	ctx, target, err := b.resolve(kernel, bindings)
	if err != nil {
		return err
	}

	groupSize := int(metadata.KernelGroupSize)
	width := min(int(size.X)*groupSize, target.width)
	height := min(int(size.Y)*groupSize, target.height)

	tasks := make([]core.JobTask, 0, size.Y)
	for gy := 0; gy < int(size.Y); gy++ {
		tasks = append(tasks, core.JobTask{
			Name:        fmt.Sprintf("%s[%d]", kernel, gy),
			InputParams: gy,
			OnStart: func(params interface{}) error {
				y0 := params.(int) * groupSize
				for y := y0; y < min(y0+groupSize, height); y++ {
					for x := 0; x < width; x++ {
						fn(ctx, x, y)
					}
				}
				return nil
			},
		})
	}
	return b.jobs.SubmitAndWait(tasks...)
}

// resolve checks the bindings required by kernel and returns the dispatch
// context plus the texture the kernel writes.
func (b *Backend) resolve(kernel metadata.Kernel, bindings *metadata.KernelBindings) (*dispatchContext, *texture, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	missing := func(name string) error {
		return fmt.Errorf("%s: %s: %w", kernel, name, core.ErrMissingBinding)
	}
	ctx := &dispatchContext{params: bindings.Params}

	switch kernel {
	case metadata.KernelHeight:
		if bindings.Params == nil {
			return nil, nil, missing("params")
		}
		if bindings.HeightRemap == nil {
			return nil, nil, missing("height remap")
		}
		if bindings.HeightOutput == nil {
			return nil, nil, missing("height output")
		}
		remap, err := b.lookupBuffer(bindings.HeightRemap)
		if err != nil {
			return nil, nil, err
		}
		out, err := b.lookupTexture(bindings.HeightOutput)
		if err != nil {
			return nil, nil, err
		}
		ctx.remap = remap
		ctx.heightOut = out
		ctx.sampler = newHeightSampler(bindings.Params)
		return ctx, out, nil

	case metadata.KernelNormal:
		if bindings.Params == nil {
			return nil, nil, missing("params")
		}
		if bindings.HeightInput == nil {
			return nil, nil, missing("height input")
		}
		if bindings.NormalOutput == nil {
			return nil, nil, missing("normal output")
		}
		in, err := b.lookupTexture(bindings.HeightInput)
		if err != nil {
			return nil, nil, err
		}
		out, err := b.lookupTexture(bindings.NormalOutput)
		if err != nil {
			return nil, nil, err
		}
		ctx.heightIn = in
		ctx.normalOut = out
		return ctx, out, nil

	case metadata.KernelRiverSources:
		if bindings.Params == nil {
			return nil, nil, missing("params")
		}
		if bindings.RiverSources == nil {
			return nil, nil, missing("river sources")
		}
		if bindings.RiversMap == nil {
			return nil, nil, missing("rivers map")
		}
		sources, err := b.lookupBuffer(bindings.RiverSources)
		if err != nil {
			return nil, nil, err
		}
		grid := int(bindings.Params.RiverGridSize)
		if grid <= 0 || len(sources) != grid*grid {
			return nil, nil, fmt.Errorf("%s: river sources hold %d values for grid %d", kernel, len(sources), grid)
		}
		out, err := b.lookupTexture(bindings.RiversMap)
		if err != nil {
			return nil, nil, err
		}
		ctx.sources = sources
		ctx.rivers = out
		return ctx, out, nil

	case metadata.KernelRivers:
		if bindings.HeightInput == nil {
			return nil, nil, missing("height input")
		}
		if bindings.RiversMap == nil {
			return nil, nil, missing("rivers map")
		}
		in, err := b.lookupTexture(bindings.HeightInput)
		if err != nil {
			return nil, nil, err
		}
		out, err := b.lookupTexture(bindings.RiversMap)
		if err != nil {
			return nil, nil, err
		}
		if in.width != out.width || in.height != out.height {
			return nil, nil, fmt.Errorf("%s: height %dx%d and rivers %dx%d differ", kernel, in.width, in.height, out.width, out.height)
		}
		ctx.heightIn = in
		ctx.rivers = out
		ctx.riversPrev = make([]float32, len(out.pixels))
		copy(ctx.riversPrev, out.pixels)
		return ctx, out, nil
	}
	return nil, nil, fmt.Errorf("%s: %w", kernel, core.ErrUnknownKernel)
}

// lookupBuffer returns the store of a live buffer. The caller holds the mutex.
func (b *Backend) lookupBuffer(buffer *metadata.ComputeBuffer) ([]float32, error) {
	if buffer == nil || buffer.InternalData == nil {
		return nil, core.ErrResourceReleased
	}
	store, ok := b.buffers[buffer.ID]
	if !ok {
		return nil, fmt.Errorf("buffer %s: %w", buffer.Name, core.ErrResourceReleased)
	}
	return store, nil
}

// lookupTexture returns the store of a live texture. The caller holds the mutex.
func (b *Backend) lookupTexture(tex *metadata.RenderTexture) (*texture, error) {
	if tex == nil || tex.InternalData == nil {
		return nil, core.ErrResourceReleased
	}
	t, ok := b.textures[tex.ID]
	if !ok {
		return nil, fmt.Errorf("texture %s: %w", tex.Name, core.ErrResourceReleased)
	}
	return t, nil
}
