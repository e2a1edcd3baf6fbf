package systems

import (
	"fmt"

	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

/** @brief The number of faces of a cube-sphere. */
const PlanetFaceCount int = 6

type faceDirection struct {
	name string
	dir  math.Vec3
}

// The order is part of the contract: face i is always built from direction i.
var faceDirections = [PlanetFaceCount]faceDirection{
	{"up", math.NewVec3(0, 1, 0)},
	{"down", math.NewVec3(0, -1, 0)},
	{"right", math.NewVec3(1, 0, 0)},
	{"left", math.NewVec3(-1, 0, 0)},
	{"forward", math.NewVec3(0, 0, 1)},
	{"back", math.NewVec3(0, 0, -1)},
}

// FaceDirections returns the six cube axes in face order.
func FaceDirections() [PlanetFaceCount]math.Vec3 {
	var out [PlanetFaceCount]math.Vec3
	for i, fd := range faceDirections {
		out[i] = fd.dir
	}
	return out
}

/**
 * @brief Builds the six faces of a cube-sphere. The system owns the faces and
 * rebuilds them wholesale on every Update.
 */
type PlanetShapeSystem struct {
	size       float32
	resolution uint32
	faces      []*metadata.FaceMesh
}

func NewPlanetShapeSystem() *PlanetShapeSystem {
	return &PlanetShapeSystem{}
}

func (pss *PlanetShapeSystem) Shutdown() error {
	pss.faces = nil
	return nil
}

/**
 * @brief Creates the six faces for the given size and resolution.
 * @param size The radius of the sphere, > 0.
 * @param resolution The number of subdivisions of a face edge, >= 1.
 */
func (pss *PlanetShapeSystem) Generate(size float32, resolution uint32) ([]*metadata.FaceMesh, error) {
	if err := checkShape(size, resolution); err != nil {
		return nil, err
	}

	faces := make([]*metadata.FaceMesh, PlanetFaceCount)
	for i, fd := range faceDirections {
		faces[i] = &metadata.FaceMesh{
			Name:      fmt.Sprintf("Planet Face %s", fd.name),
			Direction: fd.dir,
		}
		buildFace(faces[i], size, resolution)
	}
	pss.faces = faces
	pss.size = size
	pss.resolution = resolution

	core.LogDebug("planet shape generated: size %v, resolution %d", size, resolution)
	return faces, nil
}

/**
 * @brief Rebuilds the existing faces in place. Generate must have been
 * called before.
 */
func (pss *PlanetShapeSystem) Update(size float32, resolution uint32) error {
	if len(pss.faces) != PlanetFaceCount {
		core.LogError("planet shape update requested before generation")
		return core.ErrShapeNotGenerated
	}
	if err := checkShape(size, resolution); err != nil {
		return err
	}
	for _, f := range pss.faces {
		buildFace(f, size, resolution)
	}
	pss.size = size
	pss.resolution = resolution
	return nil
}

// Faces returns the faces built by the last Generate or Update, nil before.
func (pss *PlanetShapeSystem) Faces() []*metadata.FaceMesh {
	return pss.faces
}

func (pss *PlanetShapeSystem) Size() float32 {
	return pss.size
}

func (pss *PlanetShapeSystem) Resolution() uint32 {
	return pss.resolution
}

func checkShape(size float32, resolution uint32) error {
	if size <= 0 {
		err := fmt.Errorf("size must be > 0, got %v: %w", size, core.ErrInvalidShape)
		core.LogError(err.Error())
		return err
	}
	if resolution == 0 {
		err := fmt.Errorf("resolution must be >= 1: %w", core.ErrInvalidShape)
		core.LogError(err.Error())
		return err
	}
	return nil
}

// buildFace projects a subdivided cube face onto the sphere.
func buildFace(face *metadata.FaceMesh, size float32, resolution uint32) {
	d := face.Direction
	axisA := math.NewVec3(d.Y, d.Z, d.X)
	axisB := d.Cross(axisA)

	vpr := resolution + 1
	vertexCount := vpr * vpr
	indexCount := (vpr - 1) * (vpr - 1) * 6

	vertices := make([]math.Vertex3D, vertexCount)
	indices := make([]uint32, indexCount)

	step := float32(vpr - 1)
	triIndex := 0
	for y := uint32(0); y < vpr; y++ {
		for x := uint32(0); x < vpr; x++ {
			i := x + y*vpr
			px := float32(x) / step
			py := float32(y) / step

			pointOnCube := d.
				Add(axisA.MulScalar((px - 0.5) * 2)).
				Add(axisB.MulScalar((py - 0.5) * 2))
			pointOnSphere := pointOnCube.Normalized()

			vertices[i] = math.Vertex3D{
				Position: pointOnSphere.MulScalar(size),
				Normal:   pointOnSphere,
				Texcoord: math.NewVec2(px, py),
			}

			if x != vpr-1 && y != vpr-1 {
				indices[triIndex+0] = i
				indices[triIndex+1] = i + vpr + 1
				indices[triIndex+2] = i + vpr

				indices[triIndex+3] = i
				indices[triIndex+4] = i + 1
				indices[triIndex+5] = i + vpr + 1
				triIndex += 6
			}
		}
	}

	face.VertexPerRow = vpr
	face.VertexCount = vertexCount
	face.Vertices = vertices
	face.IndexCount = indexCount
	face.Indices = indices
	face.MinExtents, face.MaxExtents, face.Center = math.GeometryCalculateExtents(vertices)
	face.Generation++
}
