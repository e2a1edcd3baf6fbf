/*
Planetforge generates a cube-sphere planet and its terrain textures from a
parameter file and exports them, optionally rebuilding on every change of the
file.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/planetforge/engine"
	"github.com/spaghettifunk/planetforge/engine/assets"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/testbed"
)

func main() {
	config := &engine.ApplicationConfig{Name: "Planetforge"}
	flag.StringVar(&config.PlanetFile, "planet", "planet.toml", "planet parameter file")
	flag.BoolVar(&config.CreateIfMissing, "init", false, "write default parameters when the planet file does not exist")
	flag.StringVar(&config.OutputDir, "out", "out", "export directory")
	flag.StringVar(&config.ExportFormat, "format", "png", "texture format: png or tiff")
	flag.BoolVar(&config.ExportMesh, "mesh", true, "export the planet mesh as OBJ")
	flag.IntVar(&config.PreviewSize, "preview", 0, "write previews of this size, 0 disables them")
	flag.StringVar(&config.LogLevel, "log-level", "info", "debug, info, warn or error")
	flag.BoolVar(&config.Watch, "watch", false, "rebuild whenever the planet file changes")
	flag.DurationVar(&config.ReloadDebounce, "debounce", assets.DefaultReloadDebounce, "delay collapsing bursts of file changes")
	flag.IntVar(&config.RiverSteps, "river-steps", 0, "river flow steps run after every build")
	flag.StringVar(&config.Backend, "backend", "cpu", "compute backend")
	flag.IntVar(&config.Workers, "workers", 0, "compute workers, 0 means one per CPU")
	flag.Parse()

	game, err := testbed.NewExportGame(config)
	if err != nil {
		core.LogFatal(err.Error())
	}

	engine, err := engine.New(game.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := engine.Initialize(); err != nil {
		_ = engine.Shutdown()
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = engine.Shutdown()
	}()

	// run engine
	if err := engine.Run(); err != nil {
		_ = engine.Shutdown()
		core.LogFatal(err.Error())
	}
	if err := engine.Shutdown(); err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
}
