package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

/** @brief The extension of planet parameter files. */
const PlanetDataExtension string = ".toml"

type PlanetDataLoader struct{}

func (pl *PlanetDataLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := LoadPlanetData(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypePlanetData,
		Name:     data.Name,
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     data,
	}, nil
}

func (pl *PlanetDataLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}

// LoadPlanetData reads and validates a planet file.
func LoadPlanetData(path string) (*metadata.PlanetData, error) {
	f, err := os.Open(path)
	if err != nil {
		core.LogError("failed to open planet file %s: %s", path, err)
		return nil, err
	}
	defer f.Close()

	data, err := DecodePlanetData(f)
	if err != nil {
		core.LogError("failed to load planet file %s: %s", path, err)
		return nil, err
	}
	return data, nil
}

/**
 * @brief Decodes a planet record. Fields missing from the document keep
 * their default value, unknown fields are rejected.
 */
func DecodePlanetData(r io.Reader) (*metadata.PlanetData, error) {
	defaults := metadata.NewDefaultPlanetData()
	data := defaults.Clone()
	// lists are replaced, never merged with the defaults
	data.Terrain.HeightRemap.Keys = nil
	data.TerrainMaterial.Layers = nil
	data.Rivers.Sources = nil

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(data); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", core.ErrInvalidPlanetData, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", core.ErrInvalidPlanetData, row, col, decodeErr)
		}
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidPlanetData, err)
	}

	if data.Terrain.HeightRemap.Keys == nil {
		data.Terrain.HeightRemap = defaults.Terrain.HeightRemap
	}
	if data.TerrainMaterial.Layers == nil {
		data.TerrainMaterial.Layers = defaults.TerrainMaterial.Layers
	}
	if data.Rivers.Sources == nil {
		data.Rivers.Sources = defaults.Rivers.Sources
	}
	// keys may be listed in any order
	data.Terrain.HeightRemap = math.NewCurve(data.Terrain.HeightRemap.Keys...)

	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

// EncodePlanetData writes the record as TOML.
func EncodePlanetData(w io.Writer, data *metadata.PlanetData) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(data)
}

/**
 * @brief Validates and writes the record to path. The file is replaced
 * atomically so watchers never read a partial document.
 */
func SavePlanetData(path string, data *metadata.PlanetData) error {
	if err := data.Validate(); err != nil {
		core.LogError("refusing to save planet %s: %s", data.Name, err)
		return err
	}

	var buf bytes.Buffer
	if err := EncodePlanetData(&buf, data); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".planet-*"+PlanetDataExtension)
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	core.LogDebug("planet %s saved to %s", data.Name, path)
	return nil
}
