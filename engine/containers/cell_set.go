package containers

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/planetforge/engine/core"
)

// GridCell is a cell coordinate of a square grid, origin at the top-left cell.
type GridCell struct {
	X int `toml:"x"`
	Y int `toml:"y"`
}

// CellSet is a membership-only set of cells of a gridSize x gridSize grid.
// It is used for river sources: a cell is either a source or it isn't.
type CellSet struct {
	gridSize int
	cells    map[GridCell]struct{}
}

func NewCellSet(gridSize int) (*CellSet, error) {
	if gridSize <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %d", gridSize)
	}
	return &CellSet{
		gridSize: gridSize,
		cells:    make(map[GridCell]struct{}),
	}, nil
}

// NewCellSetFromCells builds a set from a list, dropping duplicates. Any cell
// outside of the grid is an error.
func NewCellSetFromCells(gridSize int, cells []GridCell) (*CellSet, error) {
	cs, err := NewCellSet(gridSize)
	if err != nil {
		return nil, err
	}
	for _, c := range cells {
		if err := cs.check(c.X, c.Y); err != nil {
			return nil, err
		}
		cs.cells[c] = struct{}{}
	}
	return cs, nil
}

func (cs *CellSet) GridSize() int {
	return cs.gridSize
}

func (cs *CellSet) check(x, y int) error {
	if x < 0 || y < 0 || x >= cs.gridSize || y >= cs.gridSize {
		return fmt.Errorf("cell (%d, %d) not in [0, %d): %w", x, y, cs.gridSize, core.ErrCellOutOfRange)
	}
	return nil
}

// Toggle removes the cell if present, inserts it otherwise. It returns whether
// the cell is in the set after the call.
func (cs *CellSet) Toggle(x, y int) (bool, error) {
	if err := cs.check(x, y); err != nil {
		return false, err
	}
	c := GridCell{X: x, Y: y}
	if _, ok := cs.cells[c]; ok {
		delete(cs.cells, c)
		return false, nil
	}
	cs.cells[c] = struct{}{}
	return true, nil
}

func (cs *CellSet) Contains(x, y int) bool {
	_, ok := cs.cells[GridCell{X: x, Y: y}]
	return ok
}

func (cs *CellSet) Len() int {
	return len(cs.cells)
}

func (cs *CellSet) Clear() {
	for c := range cs.cells {
		delete(cs.cells, c)
	}
}

// Cells lists the set in row-major order.
func (cs *CellSet) Cells() []GridCell {
	out := make([]GridCell, 0, len(cs.cells))
	for c := range cs.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Equal reports whether both sets share the grid size and members.
func (cs *CellSet) Equal(other *CellSet) bool {
	if other == nil || cs.gridSize != other.gridSize || len(cs.cells) != len(other.cells) {
		return false
	}
	for c := range cs.cells {
		if _, ok := other.cells[c]; !ok {
			return false
		}
	}
	return true
}

// BuildMask flattens the set into a dense row-major gridSize² mask: 1.0 at
// index x + y*gridSize for every member, 0.0 elsewhere.
func (cs *CellSet) BuildMask() []float32 {
	mask := make([]float32, cs.gridSize*cs.gridSize)
	for c := range cs.cells {
		mask[c.X+c.Y*cs.gridSize] = 1.0
	}
	return mask
}

// DecodeMask is the inverse of BuildMask. A cell is a member iff its value is 1.0.
func DecodeMask(mask []float32, gridSize int) (*CellSet, error) {
	if len(mask) != gridSize*gridSize {
		return nil, fmt.Errorf("mask has %d cells, expected %d", len(mask), gridSize*gridSize)
	}
	cs, err := NewCellSet(gridSize)
	if err != nil {
		return nil, err
	}
	for i, v := range mask {
		if v == 1.0 {
			cs.cells[GridCell{X: i % gridSize, Y: i / gridSize}] = struct{}{}
		}
	}
	return cs, nil
}
