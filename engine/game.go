package engine

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnOnPlanetBuilt   OnPlanetBuilt
	FnOnPlanetReload  OnPlanetBuilt
	FnShutdown        Shutdown
}

type Initialize func() error
type OnPlanetBuilt func(planet *Planet) error
type Shutdown func() error
