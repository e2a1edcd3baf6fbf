package core

import (
	"errors"
)

var (
	ErrInvalidShape          = errors.New("invalid planet shape parameters")
	ErrShapeNotGenerated     = errors.New("planet shape has not been generated")
	ErrCellOutOfRange        = errors.New("grid cell out of range")
	ErrInvalidResolution     = errors.New("texture resolution must be a positive multiple of 8")
	ErrTerrainNotInitialized = errors.New("terrain texture system is not initialized")
	ErrResourceReleased      = errors.New("compute resource already released")
	ErrMissingBinding        = errors.New("kernel binding missing")
	ErrUnknownKernel         = errors.New("unknown compute kernel")
	ErrInvalidPlanetData     = errors.New("invalid planet data")
	ErrUnsupportedFormat     = errors.New("unsupported export format")
	ErrEngineNotInitialized  = errors.New("engine is not initialized")
)
