package metadata

import (
	"github.com/spaghettifunk/planetforge/engine/math"
)

const (
	InvalidID       uint32 = 4294967295
	InvalidIDUint16 uint16 = 65535
)

/**
 * @brief One of the six sides of a cube-sphere. Positions lie on a sphere of
 * the planet size, normals are the unit outward directions.
 */
type FaceMesh struct {
	/** @brief The name of the face, e.g. "Planet Face +Y". */
	Name string
	/** @brief The cube axis this face is perpendicular to. */
	Direction math.Vec3
	/** @brief The number of vertices along one edge of the face. */
	VertexPerRow uint32
	/** @brief The number of vertices. */
	VertexCount uint32
	/** @brief An array of Vertices. */
	Vertices []math.Vertex3D
	/** @brief The number of indices. */
	IndexCount uint32
	/** @brief An array of Indices, three per triangle. */
	Indices []uint32

	Center     math.Vec3
	MinExtents math.Vec3
	MaxExtents math.Vec3

	/** @brief The face generation. Incremented every time the face is rebuilt. */
	Generation uint16
}

// TriangleCount returns the number of triangles of the face.
func (f *FaceMesh) TriangleCount() uint32 {
	return f.IndexCount / 3
}
