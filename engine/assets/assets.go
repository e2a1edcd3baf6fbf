package assets

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spaghettifunk/planetforge/engine/assets/loaders"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager dispatches files to the loader of their resource type and
// remembers when each one was last loaded.
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypePlanetData, &loaders.PlanetDataLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeModel, &loaders.ModelLoader{})

	return am
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// LoadAsset loads path with the loader matching its extension.
func (am *AssetManager) LoadAsset(path string, params interface{}) (*metadata.Resource, error) {
	resourceType := DetermineAssetType(path)
	if resourceType == metadata.ResourceTypeNone {
		return nil, fmt.Errorf("unknown resource type for %s", path)
	}

	am.mutex.RLock()
	loader, exists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	res, err := loader.Load(path, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       resourceType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()

	core.LogDebug("loaded %s asset %s", resourceType, path)
	return res, nil
}

// LoadPlanetData loads a planet file through the registered loader.
func (am *AssetManager) LoadPlanetData(path string) (*metadata.PlanetData, error) {
	res, err := am.LoadAsset(path, nil)
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*metadata.PlanetData)
	if !ok {
		return nil, fmt.Errorf("%s is not a planet file", path)
	}
	return data, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	am.mutex.Lock()
	loader, exists := am.loaders[asset.Type]
	delete(am.assets, asset.FullPath)
	am.mutex.Unlock()

	if !exists {
		return fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Unload(asset)
}

// Info returns what is known about a loaded asset.
func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[path]
	return info, ok
}

func DetermineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case loaders.PlanetDataExtension:
		return metadata.ResourceTypePlanetData
	case ".png", ".tif", ".tiff":
		return metadata.ResourceTypeImage
	case ".obj":
		return metadata.ResourceTypeModel
	default:
		return metadata.ResourceTypeNone
	}
}
