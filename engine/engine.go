package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/spaghettifunk/planetforge/engine/assets"
	"github.com/spaghettifunk/planetforge/engine/assets/loaders"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer"
	"github.com/spaghettifunk/planetforge/engine/renderer/compute"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	stageMutex   sync.Mutex
	gameInstance *Game
	assetManager *assets.AssetManager
	events       *core.EventSystem
	backend      compute.Backend
	planet       *Planet
	watcher      *assets.ParameterWatcher
	clock        *core.Clock

	quit         chan struct{}
	quitOnce     sync.Once
	runDone      chan struct{}
	shutdownOnce sync.Once
	shutdownErr  error
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		err := fmt.Errorf("engine requires a game with an application config")
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		assetManager: assets.NewAssetManager(),
		events:       core.NewEventSystem(),
		clock:        core.NewClock(),
		quit:         make(chan struct{}),
		runDone:      make(chan struct{}),
	}, nil
}

func (e *Engine) Stage() Stage {
	e.stageMutex.Lock()
	defer e.stageMutex.Unlock()
	return e.currentStage
}

func (e *Engine) setStage(s Stage) {
	e.stageMutex.Lock()
	e.currentStage = s
	e.stageMutex.Unlock()
}

func (e *Engine) Planet() *Planet {
	return e.planet
}

func (e *Engine) Events() *core.EventSystem {
	return e.events
}

func (e *Engine) Initialize() error {
	e.setStage(EngineStageInitializing)
	config := e.gameInstance.ApplicationConfig

	if config.LogLevel != "" {
		if err := core.SetLogLevel(config.LogLevel); err != nil {
			core.LogError("invalid log level %q: %s", config.LogLevel, err)
			return err
		}
	}

	bt, err := renderer.ParseBackendType(config.Backend)
	if err != nil {
		return err
	}
	backend, err := renderer.NewBackend(bt, config.Workers)
	if err != nil {
		return err
	}
	e.backend = backend

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_PARAMETERS_CHANGED, e, e.onParametersChanged)

	data, err := e.loadPlanetData(config)
	if err != nil {
		return err
	}

	planet, err := NewPlanet(data, backend, e.events)
	if err != nil {
		return err
	}
	e.planet = planet

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.setStage(EngineStageInitialized)
	core.LogInfo("%s initialized with the %s backend", config.Name, backend.Name())
	return nil
}

func (e *Engine) loadPlanetData(config *ApplicationConfig) (*metadata.PlanetData, error) {
	if config.PlanetFile == "" {
		core.LogInfo("no planet file given, using defaults")
		return metadata.NewDefaultPlanetData(), nil
	}

	if _, err := os.Stat(config.PlanetFile); errors.Is(err, fs.ErrNotExist) && config.CreateIfMissing {
		data := metadata.NewDefaultPlanetData()
		if err := loaders.SavePlanetData(config.PlanetFile, data); err != nil {
			return nil, err
		}
		core.LogInfo("created %s with default parameters", config.PlanetFile)
		return data, nil
	}

	return e.assetManager.LoadPlanetData(config.PlanetFile)
}

/**
 * @brief Builds the planet, lets the rivers flow and hands it to the game.
 * When watching, it then rebuilds on every change of the parameter file
 * until Shutdown is called or the quit event fires.
 */
func (e *Engine) Run() error {
	e.stageMutex.Lock()
	switch e.currentStage {
	case EngineStageInitialized:
	case EngineStageShuttingDown:
		e.stageMutex.Unlock()
		core.LogInfo("engine shut down before it ran")
		return nil
	default:
		e.stageMutex.Unlock()
		return core.ErrEngineNotInitialized
	}
	e.currentStage = EngineStageRunning
	e.stageMutex.Unlock()
	defer close(e.runDone)

	e.clock.Start()
	if err := e.build(e.gameInstance.FnOnPlanetBuilt); err != nil {
		return err
	}
	e.clock.Update()
	core.LogInfo("planet ready in %s", e.clock.Elapsed())

	config := e.gameInstance.ApplicationConfig
	if !config.Watch || config.PlanetFile == "" {
		return nil
	}

	watcher, err := assets.NewParameterWatcher(config.PlanetFile, config.ReloadDebounce)
	if err != nil {
		return err
	}
	e.watcher = watcher
	core.LogInfo("watching %s for changes", watcher.Path())

	for {
		select {
		case path, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			var ctx core.EventContext
			ctx.Data.C[0] = path
			e.events.Fire(core.EVENT_CODE_PARAMETERS_CHANGED, e, ctx)
		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			core.LogWarn("parameter watcher: %s", err)
		case <-e.quit:
			return nil
		}
	}
}

func (e *Engine) build(hook OnPlanetBuilt) error {
	if err := e.planet.Build(); err != nil {
		return err
	}
	if err := e.planet.StepRivers(e.gameInstance.ApplicationConfig.RiverSteps); err != nil {
		return err
	}
	if hook != nil {
		return hook(e.planet)
	}
	return nil
}

// Reload reads the parameter file again and applies it to the planet. A file
// that fails to load, validate or apply leaves the previous planet in place.
func (e *Engine) Reload(path string) error {
	data, err := e.assetManager.LoadPlanetData(path)
	if err != nil {
		core.LogWarn("keeping previous parameters: %s", err)
		return err
	}
	if err := e.planet.Apply(data); err != nil {
		core.LogWarn("keeping previous planet: %s", err)
		return err
	}
	if err := e.planet.StepRivers(e.gameInstance.ApplicationConfig.RiverSteps); err != nil {
		return err
	}
	core.LogInfo("planet %s reloaded", e.planet.Name)
	if e.gameInstance.FnOnPlanetReload != nil {
		return e.gameInstance.FnOnPlanetReload(e.planet)
	}
	return nil
}

// Shutdown stops the run loop, waits for it and releases every resource.
func (e *Engine) Shutdown() error {
	e.requestQuit()
	e.shutdownOnce.Do(func() {
		e.stageMutex.Lock()
		running := e.currentStage == EngineStageRunning
		e.currentStage = EngineStageShuttingDown
		e.stageMutex.Unlock()
		if running {
			<-e.runDone
		}
		e.shutdownErr = e.release()
	})
	return e.shutdownErr
}

func (e *Engine) release() error {
	var errs []error
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.planet != nil {
		if err := e.planet.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.backend != nil {
		if err := e.backend.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.events.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	core.LogInfo("engine shut down")
	return errors.Join(errs...)
}

func (e *Engine) requestQuit() {
	e.quitOnce.Do(func() { close(e.quit) })
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.requestQuit()
		return true
	}
	return false
}

func (e *Engine) onParametersChanged(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	path := data.Data.C[0]
	core.LogDebug("parameters changed: %s", path)
	// Errors are logged by Reload; the previous planet stays live.
	_ = e.Reload(path)
	return true
}
