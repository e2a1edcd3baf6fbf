package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown resource type. */
	ResourceTypeNone ResourceType = iota
	/** @brief Planet parameter file (TOML). */
	ResourceTypePlanetData
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Model resource type (Wavefront OBJ). */
	ResourceTypeModel
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypePlanetData:
		return "planet"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeModel:
		return "model"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The resource type of the loader which handled this resource. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource file in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
