package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

// ModelLoader reads Wavefront OBJ files, one face mesh per object.
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	faces, err := ReadOBJ(f)
	if err != nil {
		core.LogError("failed to parse model %s: %s", path, err)
		return nil, err
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeModel,
		Name:     path,
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     faces,
	}, nil
}

func (ml *ModelLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}

/**
 * @brief Writes the faces as one OBJ document, one object per face.
 * Positions, normals and texture coordinates share their index.
 */
func WriteOBJ(w io.Writer, faces []*metadata.FaceMesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# planetforge cube-sphere, %d faces\n", len(faces))

	offset := uint32(1)
	for _, face := range faces {
		fmt.Fprintf(bw, "o %s\n", face.Name)
		for _, v := range face.Vertices {
			fmt.Fprintf(bw, "v %s %s %s\n", ff(v.Position.X), ff(v.Position.Y), ff(v.Position.Z))
		}
		for _, v := range face.Vertices {
			fmt.Fprintf(bw, "vn %s %s %s\n", ff(v.Normal.X), ff(v.Normal.Y), ff(v.Normal.Z))
		}
		for _, v := range face.Vertices {
			fmt.Fprintf(bw, "vt %s %s\n", ff(v.Texcoord.X), ff(v.Texcoord.Y))
		}
		for i := 0; i+2 < len(face.Indices); i += 3 {
			a := face.Indices[i] + offset
			b := face.Indices[i+1] + offset
			c := face.Indices[i+2] + offset
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
		offset += uint32(len(face.Vertices))
	}
	return bw.Flush()
}

func ff(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

type objIndex struct {
	v, vt, vn int
}

/**
 * @brief Parses an OBJ document. Each "o" or "g" statement starts a new face
 * mesh; polygons are fanned into triangles.
 */
func ReadOBJ(r io.Reader) ([]*metadata.FaceMesh, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		texcoords []math.Vec2
		faces     []*metadata.FaceMesh
		current   *metadata.FaceMesh
		lookup    map[objIndex]uint32
	)

	startFace := func(name string) {
		current = &metadata.FaceMesh{Name: name}
		faces = append(faces, current)
		lookup = make(map[objIndex]uint32)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "o", "g":
			startFace(strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, math.NewVec3(v[0], v[1], v[2]))
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, math.NewVec3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			texcoords = append(texcoords, math.NewVec2(v[0], v[1]))
		case "f":
			if current == nil {
				startFace("default")
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: polygon needs at least 3 vertices", lineNo)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, token := range fields[1:] {
				idx, err := parseObjIndex(token, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				vi, ok := lookup[idx]
				if !ok {
					vertex := math.Vertex3D{Position: positions[idx.v]}
					if idx.vn >= 0 {
						vertex.Normal = normals[idx.vn]
					}
					if idx.vt >= 0 {
						vertex.Texcoord = texcoords[idx.vt]
					}
					vi = uint32(len(current.Vertices))
					current.Vertices = append(current.Vertices, vertex)
					lookup[idx] = vi
				}
				corners = append(corners, vi)
			}
			for i := 1; i+1 < len(corners); i++ {
				current.Indices = append(current.Indices, corners[0], corners[i], corners[i+1])
			}
		default:
			core.LogDebug("OBJ line %d: skipping unsupported statement '%s'", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, f := range faces {
		f.VertexCount = uint32(len(f.Vertices))
		f.IndexCount = uint32(len(f.Indices))
		f.MinExtents, f.MaxExtents, f.Center = math.GeometryCalculateExtents(f.Vertices)
	}
	return faces, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseObjIndex resolves a v, v/vt, v//vn or v/vt/vn token to 0-based
// indices, -1 for absent parts. Negative OBJ indices are relative.
func parseObjIndex(token string, nv, nvt, nvn int) (objIndex, error) {
	parts := strings.Split(token, "/")
	idx := objIndex{v: -1, vt: -1, vn: -1}
	targets := []*int{&idx.v, &idx.vt, &idx.vn}
	counts := []int{nv, nvt, nvn}
	for i, p := range parts {
		if i >= len(targets) {
			return idx, fmt.Errorf("invalid face token %q", token)
		}
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return idx, fmt.Errorf("invalid face token %q", token)
		}
		if n < 0 {
			n = counts[i] + n + 1
		}
		if n < 1 || n > counts[i] {
			return idx, fmt.Errorf("face index %d out of range in %q", n, token)
		}
		*targets[i] = n - 1
	}
	if idx.v < 0 {
		return idx, fmt.Errorf("face token %q has no position", token)
	}
	return idx, nil
}
