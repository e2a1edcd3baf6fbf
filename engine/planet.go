package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spaghettifunk/planetforge/engine/assets/loaders"
	"github.com/spaghettifunk/planetforge/engine/containers"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer/compute"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/spaghettifunk/planetforge/engine/systems"
)

/**
 * @brief A planet being authored: its parameter record, the river sources
 * and the systems generating its mesh and textures. The record is owned by
 * the planet; callers change it through Apply and persist it through Save.
 */
type Planet struct {
	ID   uuid.UUID
	Name string

	data    *metadata.PlanetData
	sources *containers.CellSet
	systems *systems.SystemManager
	events  *core.EventSystem
	built   bool
}

// NewPlanet creates a planet from a copy of data. events may be nil.
func NewPlanet(data *metadata.PlanetData, backend compute.Backend, events *core.EventSystem) (*Planet, error) {
	if err := data.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	sm, err := systems.NewSystemManager(backend)
	if err != nil {
		return nil, err
	}
	owned := data.Clone()
	sources, err := containers.NewCellSetFromCells(owned.Rivers.GridSize, owned.Rivers.Sources)
	if err != nil {
		return nil, err
	}

	return &Planet{
		ID:      uuid.New(),
		Name:    owned.Name,
		data:    owned,
		sources: sources,
		systems: sm,
		events:  events,
	}, nil
}

// Data returns a copy of the current record, river sources included.
func (p *Planet) Data() *metadata.PlanetData {
	out := p.data.Clone()
	out.Rivers.Sources = p.sources.Cells()
	return out
}

func (p *Planet) Sources() *containers.CellSet {
	return p.sources
}

func (p *Planet) Faces() []*metadata.FaceMesh {
	return p.systems.PlanetShape().Faces()
}

func (p *Planet) TerrainTexture() *systems.TerrainTextureSystem {
	return p.systems.TerrainTexture()
}

func (p *Planet) IsBuilt() bool {
	return p.built
}

/**
 * @brief Generates the mesh, allocates the terrain textures and runs the
 * height, normal and river source kernels.
 */
func (p *Planet) Build() error {
	return p.build(p.data, p.sources)
}

func (p *Planet) build(data *metadata.PlanetData, sources *containers.CellSet) error {
	shape := data.Shape
	if _, err := p.systems.PlanetShape().Generate(shape.Size, shape.Resolution); err != nil {
		return err
	}

	terrain := p.systems.TerrainTexture()
	if err := terrain.Initialize(data.Terrain.TextureResolution, data.Rivers.GridSize); err != nil {
		p.built = false
		return err
	}
	if err := p.regenerate(data, sources); err != nil {
		p.built = false
		return err
	}
	p.commit(data, sources)
	p.built = true
	core.LogInfo("planet %s (%s) built", p.Name, p.ID)
	return nil
}

func (p *Planet) commit(data *metadata.PlanetData, sources *containers.CellSet) {
	p.data = data
	p.sources = sources
	p.Name = data.Name
}

func (p *Planet) regenerate(data *metadata.PlanetData, sources *containers.CellSet) error {
	terrain := p.systems.TerrainTexture()
	if err := terrain.GenerateHeight(data.Terrain); err != nil {
		return err
	}
	if err := terrain.UpdateRiverSources(sources); err != nil {
		return err
	}
	p.fire(core.EVENT_CODE_TEXTURES_GENERATED, func(ctx *core.EventContext) {
		ctx.Data.U32[0] = terrain.Resolution()
	})
	return nil
}

/**
 * @brief Replaces the record with a copy of data and brings the planet up to
 * date. The mesh is rebuilt only when size or resolution changed, the
 * textures are reallocated only when their resolution or the river grid
 * changed. Sources are taken from data. On failure the previous record, mesh
 * and textures are restored; if the textures cannot be restored the planet is
 * marked unbuilt so the next Apply builds it from scratch.
 */
func (p *Planet) Apply(data *metadata.PlanetData) error {
	if err := data.Validate(); err != nil {
		core.LogError(err.Error())
		return err
	}
	next := data.Clone()
	sources, err := containers.NewCellSetFromCells(next.Rivers.GridSize, next.Rivers.Sources)
	if err != nil {
		return err
	}

	if !p.built {
		return p.build(next, sources)
	}

	prev := p.data
	reshaped := prev.Shape != next.Shape
	reallocated := prev.Terrain.TextureResolution != next.Terrain.TextureResolution || prev.Rivers.GridSize != next.Rivers.GridSize

	err = p.update(next, sources, reshaped, reallocated)
	if err == nil {
		p.commit(next, sources)
		return nil
	}

	core.LogWarn("planet %s: apply failed, restoring previous parameters: %s", p.Name, err)
	p.restore(reshaped, reallocated)
	return err
}

func (p *Planet) update(next *metadata.PlanetData, sources *containers.CellSet, reshaped, reallocated bool) error {
	if reshaped {
		if err := p.systems.PlanetShape().Update(next.Shape.Size, next.Shape.Resolution); err != nil {
			return err
		}
		core.LogDebug("planet %s mesh rebuilt", next.Name)
	}
	if reallocated {
		if err := p.systems.TerrainTexture().Reinitialize(next.Terrain.TextureResolution, next.Rivers.GridSize); err != nil {
			return err
		}
		core.LogDebug("planet %s textures reallocated", next.Name)
	}
	return p.regenerate(next, sources)
}

// restore brings the mesh and textures back to p.data after a failed update.
func (p *Planet) restore(reshaped, reallocated bool) {
	if reshaped {
		if err := p.systems.PlanetShape().Update(p.data.Shape.Size, p.data.Shape.Resolution); err != nil {
			core.LogError("planet %s: failed to restore the mesh: %s", p.Name, err)
		}
	}
	terrain := p.systems.TerrainTexture()
	if reallocated || terrain.State() != systems.TerrainTextureStateInitialized {
		if err := terrain.Reinitialize(p.data.Terrain.TextureResolution, p.data.Rivers.GridSize); err != nil {
			core.LogError("planet %s: failed to restore the textures: %s", p.Name, err)
			p.built = false
			return
		}
	}
	if err := p.regenerate(p.data, p.sources); err != nil {
		core.LogError("planet %s: failed to regenerate the textures: %s", p.Name, err)
		p.built = false
	}
}

/**
 * @brief Toggles the river source at cell (x, y) and restamps the rivers
 * texture when the planet is built.
 * @return Whether the cell is a source after the call.
 */
func (p *Planet) ToggleRiverSource(x, y int) (bool, error) {
	present, err := p.sources.Toggle(x, y)
	if err != nil {
		core.LogError(err.Error())
		return false, err
	}
	if err := p.syncSources(); err != nil {
		return present, err
	}
	p.fire(core.EVENT_CODE_RIVER_SOURCES_CHANGED, func(ctx *core.EventContext) {
		ctx.Data.I32[0] = int32(x)
		ctx.Data.I32[1] = int32(y)
		ctx.Data.U32[0] = uint32(p.sources.Len())
	})
	return present, nil
}

// ClearRiverSources removes every source.
func (p *Planet) ClearRiverSources() error {
	p.sources.Clear()
	if err := p.syncSources(); err != nil {
		return err
	}
	p.fire(core.EVENT_CODE_RIVER_SOURCES_CHANGED, func(ctx *core.EventContext) {
		ctx.Data.I32[0] = -1
		ctx.Data.I32[1] = -1
	})
	return nil
}

func (p *Planet) syncSources() error {
	p.data.Rivers.Sources = p.sources.Cells()
	if !p.built {
		return nil
	}
	return p.systems.TerrainTexture().UpdateRiverSources(p.sources)
}

// StepRivers lets the rivers flow steps times.
func (p *Planet) StepRivers(steps int) error {
	return p.systems.TerrainTexture().FlowRivers(steps)
}

// Materials maps the record onto the material slots.
func (p *Planet) Materials() []metadata.MaterialBinding {
	return systems.BindMaterials(p.data)
}

// Textures reads back the height, normal and rivers textures.
func (p *Planet) Textures() ([]*metadata.Texture, error) {
	terrain := p.systems.TerrainTexture()
	height, err := terrain.HeightMap()
	if err != nil {
		return nil, err
	}
	normal, err := terrain.NormalMap()
	if err != nil {
		return nil, err
	}
	rivers, err := terrain.RiversMap()
	if err != nil {
		return nil, err
	}
	return []*metadata.Texture{height, normal, rivers}, nil
}

// ExportTextures writes the three textures to dir.
func (p *Planet) ExportTextures(dir string, format systems.ExportFormat) ([]string, error) {
	textures, err := p.Textures()
	if err != nil {
		return nil, err
	}
	return systems.ExportTextures(dir, format, textures...)
}

// ExportMesh writes the six faces as one OBJ file.
func (p *Planet) ExportMesh(path string) error {
	faces := p.Faces()
	if faces == nil {
		return core.ErrShapeNotGenerated
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := loaders.WriteOBJ(f, faces); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Save persists the record, river sources included.
func (p *Planet) Save(path string) error {
	return loaders.SavePlanetData(path, p.Data())
}

// Release frees the mesh and every compute resource. The planet can be built again.
func (p *Planet) Release() error {
	p.built = false
	return p.systems.Shutdown()
}

func (p *Planet) fire(code core.SystemEventCode, fill func(ctx *core.EventContext)) {
	if p.events == nil {
		return
	}
	var ctx core.EventContext
	fill(&ctx)
	p.events.Fire(code, p, ctx)
}
