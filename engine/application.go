package engine

import "time"

type ApplicationConfig struct {
	// The application name used in log output.
	Name string
	// Planet parameter file (.toml). Created from defaults when missing and CreateIfMissing is set.
	PlanetFile      string
	CreateIfMissing bool
	// Directory receiving the exported textures and mesh.
	OutputDir string
	// "png" or "tiff".
	ExportFormat string
	ExportMesh   bool
	// Size of the preview images written next to the textures. Zero disables previews.
	PreviewSize int
	LogLevel    string
	// Rebuild the planet whenever the parameter file changes.
	Watch          bool
	ReloadDebounce time.Duration
	// Number of flow steps run after every build.
	RiverSteps int
	// Compute backend name and worker count; zero workers means one per CPU.
	Backend string
	Workers int
}
