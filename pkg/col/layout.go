package col

// Fixed record sizes shared by every version.
const (
	HeaderSize    = 32 // signature + size + name + id
	BoundsSize    = 40
	SphereSize    = 20
	FaceGroupSize = 28
	NameSize      = 22

	// FixedPointScale converts COL2/3 compressed vertices to floats.
	FixedPointScale = 128.0
)

// boundsOrder selects the field order of the bounding volume.
type boundsOrder uint8

const (
	boundsRadiusFirst boundsOrder = iota // radius, center, min, max (COL1)
	boundsMinFirst                       // min, max, center, radius (COL2/3)
)

// layout describes the on-disk shape of one format version.
type layout struct {
	bounds            boundsOrder
	sphereRadiusFirst bool

	boxSize  int
	boxFlags bool // trailing 32-bit flag word

	vertexSize int
	fixedPoint bool // int16 components scaled by FixedPointScale

	faceSize    int
	wideIndices bool // 32-bit indices and 16-bit material

	// addressed layouts store section offsets relative to the byte after
	// the signature; the others store sections back to back.
	addressed  bool
	shadowMesh bool

	// size of the count/flag/offset block that follows the bounds
	sectionTableSize int
}

var layouts = [...]*layout{
	Version1: {
		bounds:            boundsRadiusFirst,
		sphereRadiusFirst: true,
		boxSize:           32,
		boxFlags:          true,
		vertexSize:        12,
		faceSize:          16,
		wideIndices:       true,
		sectionTableSize:  20,
	},
	Version2: {
		bounds:           boundsMinFirst,
		boxSize:          28,
		vertexSize:       6,
		fixedPoint:       true,
		faceSize:         8,
		addressed:        true,
		sectionTableSize: 36,
	},
	Version3: {
		bounds:           boundsMinFirst,
		boxSize:          28,
		vertexSize:       6,
		fixedPoint:       true,
		faceSize:         8,
		addressed:        true,
		shadowMesh:       true,
		sectionTableSize: 48,
	},
}

// layoutFor returns the layout of a decodable version.
// Version 4 has no known layout and returns false.
func layoutFor(v Version) (*layout, bool) {
	if int(v) >= len(layouts) || layouts[v] == nil {
		return nil, false
	}
	return layouts[v], true
}
