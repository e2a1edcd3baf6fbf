package math

// GeometryCalculateExtents returns the min/max extents and the center of the
// given vertices. Empty input yields zero vectors.
func GeometryCalculateExtents(vertices []Vertex3D) (Vec3, Vec3, Vec3) {
	if len(vertices) == 0 {
		return NewVec3Zero(), NewVec3Zero(), NewVec3Zero()
	}
	minExtents := vertices[0].Position
	maxExtents := vertices[0].Position
	for _, v := range vertices[1:] {
		p := v.Position
		minExtents = Vec3{min(minExtents.X, p.X), min(minExtents.Y, p.Y), min(minExtents.Z, p.Z)}
		maxExtents = Vec3{max(maxExtents.X, p.X), max(maxExtents.Y, p.Y), max(maxExtents.Z, p.Z)}
	}
	center := minExtents.Add(maxExtents).MulScalar(0.5)
	return minExtents, maxExtents, center
}
