package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
	Z float32 `toml:"z"`
}

// Vec4 represents a 4D vector. Colours are stored as Vec4 in RGBA order.
type Vec4 struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
	Z float32 `toml:"z"`
	W float32 `toml:"w"`
}

/**
 * @brief Represents a single vertex in 3D space.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The normal of the vertex. */
	Normal Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}

/**
 * @brief A single key of a Curve.
 */
type Keyframe struct {
	/** @brief The time of the key, usually in [0, 1]. */
	Time float32 `toml:"time"`
	/** @brief The value of the curve at Time. */
	Value float32 `toml:"value"`
	/** @brief The incoming tangent (slope) at this key. */
	InTangent float32 `toml:"in_tangent"`
	/** @brief The outgoing tangent (slope) at this key. */
	OutTangent float32 `toml:"out_tangent"`
}

/**
 * @brief A piecewise cubic Hermite curve defined by keyframes sorted by time.
 */
type Curve struct {
	Keys []Keyframe `toml:"keys"`
}
