//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds planet.toml once and exports textures, previews and mesh to out/.
func (Run) Export() error {
	fmt.Println("Export planet...")
	if _, err := executeCmd("go", withArgs("run", ".", "-planet", "planet.toml", "-init", "-out", "out", "-preview", "512", "-river-steps", "64"), withStream()); err != nil {
		return err
	}
	return nil
}

// Rebuilds the planet every time planet.toml changes.
func (Run) Watch() error {
	fmt.Println("Watch planet...")
	if _, err := executeCmd("go", withArgs("run", ".", "-planet", "planet.toml", "-init", "-watch", "-log-level", "debug"), withStream()); err != nil {
		return err
	}
	return nil
}
