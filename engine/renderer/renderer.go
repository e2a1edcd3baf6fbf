package renderer

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/renderer/compute"
	"github.com/spaghettifunk/planetforge/engine/renderer/compute/cpu"
)

type BackendType uint8

const (
	CPU BackendType = iota
)

func (bt BackendType) String() string {
	switch bt {
	case CPU:
		return "cpu"
	default:
		return fmt.Sprintf("BackendType(%d)", uint8(bt))
	}
}

// ParseBackendType maps a configuration name onto a backend type.
func ParseBackendType(name string) (BackendType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cpu":
		return CPU, nil
	default:
		return 0, fmt.Errorf("unknown compute backend %q", name)
	}
}

/**
 * @brief Creates the compute backend used by the terrain texture system.
 * @param bt The backend type.
 * @param workers Worker count for CPU backends, 0 for one per CPU.
 */
func NewBackend(bt BackendType, workers int) (compute.Backend, error) {
	switch bt {
	case CPU:
		b, err := cpu.New(workers)
		if err != nil {
			core.LogError("failed to create the CPU compute backend: %s", err)
			return nil, err
		}
		core.LogInfo("compute backend: %s", b.Name())
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported compute backend %s", bt)
	}
}
