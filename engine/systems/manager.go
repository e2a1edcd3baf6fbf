package systems

import (
	"github.com/spaghettifunk/planetforge/engine/renderer/compute"
)

// SystemManager owns the systems of one planet.
type SystemManager struct {
	planetShapeSystem    *PlanetShapeSystem
	terrainTextureSystem *TerrainTextureSystem
}

func NewSystemManager(backend compute.Backend) (*SystemManager, error) {
	return &SystemManager{
		planetShapeSystem:    NewPlanetShapeSystem(),
		terrainTextureSystem: NewTerrainTextureSystem(backend),
	}, nil
}

func (sm *SystemManager) PlanetShape() *PlanetShapeSystem {
	return sm.planetShapeSystem
}

func (sm *SystemManager) TerrainTexture() *TerrainTextureSystem {
	return sm.terrainTextureSystem
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.terrainTextureSystem.Release(); err != nil {
		return err
	}
	if err := sm.planetShapeSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
