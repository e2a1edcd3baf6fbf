package assets

import (
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/planetforge/engine/assets/loaders"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineAssetType(t *testing.T) {
	for path, want := range map[string]metadata.ResourceType{
		"planet.toml":     metadata.ResourceTypePlanetData,
		"out/Height.PNG":  metadata.ResourceTypeImage,
		"out/Normal.tiff": metadata.ResourceTypeImage,
		"out/Normal.tif":  metadata.ResourceTypeImage,
		"planet.obj":      metadata.ResourceTypeModel,
		"notes.txt":       metadata.ResourceTypeNone,
	} {
		assert.Equal(t, want, DetermineAssetType(path), path)
	}
}

func TestAssetManagerLoadsPlanetData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planet.toml")
	data := metadata.NewDefaultPlanetData()
	data.Name = "Managed"
	require.NoError(t, loaders.SavePlanetData(path, data))

	am := NewAssetManager()
	loaded, err := am.LoadPlanetData(path)
	require.NoError(t, err)
	assert.Equal(t, "Managed", loaded.Name)

	info, ok := am.Info(path)
	require.True(t, ok)
	assert.Equal(t, metadata.ResourceTypePlanetData, info.Type)
	assert.False(t, info.LastLoaded.IsZero())

	res, err := am.LoadAsset(path, nil)
	require.NoError(t, err)
	require.NoError(t, am.UnloadAsset(res))
	_, ok = am.Info(path)
	assert.False(t, ok)
}

func TestAssetManagerRejectsUnknownTypes(t *testing.T) {
	am := NewAssetManager()
	_, err := am.LoadAsset("readme.md", nil)
	assert.Error(t, err)

	_, err = am.LoadPlanetData(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
