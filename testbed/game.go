package testbed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spaghettifunk/planetforge/engine"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/spaghettifunk/planetforge/engine/systems"
)

// ExportGame writes the generated textures, their previews and the mesh to
// the output directory every time the planet is built.
type ExportGame struct {
	*engine.Game
}

type gameState struct {
	format  systems.ExportFormat
	exports int
	written []string
}

func NewExportGame(config *engine.ApplicationConfig) (*ExportGame, error) {
	format, err := systems.ParseExportFormat(config.ExportFormat)
	if err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = "Planetforge"
	}
	if config.OutputDir == "" {
		config.OutputDir = "out"
	}

	eg := &ExportGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				format: format,
			},
		},
	}

	eg.FnInitialize = eg.Initialize
	eg.FnOnPlanetBuilt = eg.OnPlanetBuilt
	eg.FnOnPlanetReload = eg.OnPlanetBuilt
	eg.FnShutdown = eg.Shutdown

	return eg, nil
}

func (g *ExportGame) Initialize() error {
	core.LogDebug("ExportGame Initialize fn....")
	if err := os.MkdirAll(g.ApplicationConfig.OutputDir, 0o755); err != nil {
		core.LogError("failed to create output directory %s", g.ApplicationConfig.OutputDir)
		return err
	}
	return nil
}

func (g *ExportGame) OnPlanetBuilt(planet *engine.Planet) error {
	state := g.State.(*gameState)
	config := g.ApplicationConfig

	textures, err := planet.Textures()
	if err != nil {
		return err
	}
	paths, err := systems.ExportTextures(config.OutputDir, state.format, textures...)
	if err != nil {
		return err
	}

	if config.PreviewSize > 0 {
		previews := make([]*metadata.Texture, 0, len(textures))
		for _, tex := range textures {
			p, err := systems.Preview(tex, config.PreviewSize)
			if err != nil {
				return err
			}
			p.Name = tex.Name + "Preview"
			previews = append(previews, p)
		}
		written, err := systems.ExportTextures(config.OutputDir, systems.ExportFormatPNG, previews...)
		if err != nil {
			return err
		}
		paths = append(paths, written...)
	}

	if config.ExportMesh {
		meshPath := filepath.Join(config.OutputDir, fileName(planet.Name)+".obj")
		if err := planet.ExportMesh(meshPath); err != nil {
			return err
		}
		paths = append(paths, meshPath)
	}

	for _, b := range planet.Materials() {
		core.LogDebug("%s.%s = %s", b.Target, b.Slot.PropertyName(), describeBinding(b))
	}
	for kernel, ms := range planet.TerrainTexture().Metrics() {
		core.LogDebug("%s: %.3fms average", kernel, ms)
	}

	state.exports++
	state.written = paths
	core.LogInfo("export #%d of %s: %d files in %s", state.exports, planet.Name, len(paths), config.OutputDir)
	return nil
}

func (g *ExportGame) Shutdown() error {
	state := g.State.(*gameState)
	core.LogInfo("exported %d times, last export wrote %d files", state.exports, len(state.written))
	return nil
}

// Written returns the files written by the last export.
func (g *ExportGame) Written() []string {
	return g.State.(*gameState).written
}

func describeBinding(b metadata.MaterialBinding) string {
	switch b.Kind {
	case metadata.MaterialValueFloat:
		return fmt.Sprintf("%g", b.Float)
	case metadata.MaterialValueTexture:
		return fmt.Sprintf("%q", b.Texture)
	default:
		return fmt.Sprintf("(%g, %g, %g, %g)", b.Vector.X, b.Vector.Y, b.Vector.Z, b.Vector.W)
	}
}

func fileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "planet"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
