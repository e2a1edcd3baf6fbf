package containers

import (
	"testing"

	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellSetToggle(t *testing.T) {
	cs, err := NewCellSet(4)
	require.NoError(t, err)

	present, err := cs.Toggle(1, 2)
	require.NoError(t, err)
	assert.True(t, present)
	assert.True(t, cs.Contains(1, 2))
	assert.Equal(t, 1, cs.Len())

	present, err = cs.Toggle(1, 2)
	require.NoError(t, err)
	assert.False(t, present)
	assert.False(t, cs.Contains(1, 2))
	assert.Equal(t, 0, cs.Len())
}

func TestCellSetRejectsOutOfRange(t *testing.T) {
	cs, err := NewCellSet(4)
	require.NoError(t, err)

	for _, c := range []GridCell{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		_, err := cs.Toggle(c.X, c.Y)
		assert.ErrorIs(t, err, core.ErrCellOutOfRange, "cell %v", c)
	}
	assert.Equal(t, 0, cs.Len())

	_, err = NewCellSetFromCells(4, []GridCell{{1, 1}, {9, 9}})
	assert.ErrorIs(t, err, core.ErrCellOutOfRange)

	_, err = NewCellSet(0)
	assert.Error(t, err)
}

func TestCellSetFromCellsDropsDuplicates(t *testing.T) {
	cs, err := NewCellSetFromCells(8, []GridCell{{3, 1}, {0, 2}, {3, 1}, {7, 0}})
	require.NoError(t, err)

	assert.Equal(t, 3, cs.Len())
	assert.Equal(t, []GridCell{{7, 0}, {3, 1}, {0, 2}}, cs.Cells())
}

func TestCellSetMaskRoundTrip(t *testing.T) {
	cs, err := NewCellSetFromCells(4, []GridCell{{0, 0}, {3, 1}, {2, 3}})
	require.NoError(t, err)

	mask := cs.BuildMask()
	require.Len(t, mask, 16)
	assert.Equal(t, float32(1), mask[0])
	assert.Equal(t, float32(1), mask[3+1*4])
	assert.Equal(t, float32(1), mask[2+3*4])
	assert.Equal(t, float32(0), mask[1])

	decoded, err := DecodeMask(mask, 4)
	require.NoError(t, err)
	assert.True(t, cs.Equal(decoded))

	_, err = DecodeMask(mask[:10], 4)
	assert.Error(t, err)
}

func TestCellSetClear(t *testing.T) {
	cs, err := NewCellSetFromCells(4, []GridCell{{0, 0}, {1, 1}})
	require.NoError(t, err)

	cs.Clear()
	assert.Equal(t, 0, cs.Len())
	assert.Empty(t, cs.Cells())
	assert.Equal(t, make([]float32, 16), cs.BuildMask())
}
