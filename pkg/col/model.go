package col

import (
	"fmt"

	"github.com/Faultbox/colkit/pkg/encoding"
)

// Decoder decodes models and archives with a fixed set of options.
// A Decoder holds no per-call state and may be shared between goroutines.
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder. Zero limits are replaced by defaults.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts.normalize()}
}

// Options returns the effective options.
func (d *Decoder) Options() Options {
	return d.opts
}

// DecodeModel decodes one model with default options.
func DecodeModel(buf []byte, offset int) (*Model, int, error) {
	return NewDecoder(DefaultOptions()).DecodeModel(buf, offset)
}

// DecodeModel decodes the model whose signature starts at offset.
// It returns the model and the number of bytes it occupies. All failures
// are returned as *DecodeError; nothing is consumed on failure.
func (d *Decoder) DecodeModel(buf []byte, offset int) (*Model, int, error) {
	m, consumed, _, err := d.decode(buf, offset)
	return m, consumed, err
}

// decode is DecodeModel that also returns the end of the furthest byte
// range read, which bounds the model's span when its size field lies.
func (d *Decoder) decode(buf []byte, offset int) (*Model, int, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, 0, 0, &DecodeError{
			Offset:  offset,
			Section: "signature",
			Err:     fmt.Errorf("%w: offset outside buffer of %d bytes", ErrTruncatedSection, len(buf)),
		}
	}

	version, ok := MatchSignature(buf[offset:])
	if !ok {
		tag := buf[offset:min(offset+SignatureSize, len(buf))]
		return nil, 0, 0, &DecodeError{
			Offset:  offset,
			Section: "signature",
			Err:     fmt.Errorf("%w: %q", ErrUnknownSignature, tag),
		}
	}

	lay, ok := layoutFor(version)
	if !ok {
		return nil, 0, 0, &DecodeError{
			Offset:  offset,
			Section: "signature",
			Err:     fmt.Errorf("%w: %s has no known layout", ErrUnsupportedVersion, version),
		}
	}

	r := newReader(buf, offset)
	if err := r.require(HeaderSize+BoundsSize, "header"); err != nil {
		return nil, 0, 0, err
	}

	r.skip(SignatureSize)
	size := r.u32()
	m := &Model{Version: version}
	m.Name = decodeName(r.bytes(NameSize))
	m.ID = r.u16()
	m.Bounds = readBounds(r, lay)

	var consumed int
	var err error
	if lay.addressed {
		consumed, err = d.decodeAddressed(r, m, lay, size)
	} else {
		consumed, err = d.decodeSequential(r, m, lay)
	}
	if err != nil {
		return nil, 0, 0, err
	}
	return m, consumed, r.reach, nil
}

// decodeName decodes the 22-byte header name up to its first null byte.
// Bytes that are not printable ASCII are dropped.
func decodeName(field []byte) string {
	return encoding.FixedString(field)
}

// readBounds reads the 40-byte bounding volume.
func readBounds(r *reader, lay *layout) BoundingVolume {
	var b BoundingVolume
	switch lay.bounds {
	case boundsRadiusFirst:
		b.Radius = r.f32()
		b.Center = r.vec3()
		b.Min = r.vec3()
		b.Max = r.vec3()
	case boundsMinFirst:
		b.Min = r.vec3()
		b.Max = r.vec3()
		b.Center = r.vec3()
		b.Radius = r.f32()
	}
	return b
}

// checkCount rejects element counts above the configured ceiling.
func (d *Decoder) checkCount(r *reader, section string, n uint64) error {
	if n > uint64(d.opts.MaxElements) {
		return r.fail(section, fmt.Errorf("%w: %d %s exceeds limit of %d",
			ErrUnrealisticGeometry, n, section, d.opts.MaxElements))
	}
	return nil
}

// decodeSequential decodes a COL1 body: a flat count block followed by
// spheres, boxes, vertices and faces stored back to back.
func (d *Decoder) decodeSequential(r *reader, m *Model, lay *layout) (int, error) {
	if err := r.require(lay.sectionTableSize, "counts"); err != nil {
		return 0, err
	}

	numSpheres := r.u32()
	r.skip(4) // reserved, always zero
	numBoxes := r.u32()
	numVertices := r.u32()
	numFaces := r.u32()

	counts := []struct {
		section string
		n       uint32
	}{
		{"spheres", numSpheres},
		{"boxes", numBoxes},
		{"vertices", numVertices},
		{"faces", numFaces},
	}
	for _, c := range counts {
		if err := d.checkCount(r, c.section, uint64(c.n)); err != nil {
			return 0, err
		}
	}

	var err error
	if m.Spheres, err = decodeSpheres(r, int(numSpheres), lay); err != nil {
		return 0, err
	}
	if m.Boxes, err = decodeBoxes(r, int(numBoxes), lay); err != nil {
		return 0, err
	}
	if m.Vertices, err = decodeVertices(r, int(numVertices), lay, "vertices"); err != nil {
		return 0, err
	}
	if m.Faces, err = decodeFaces(r, int(numFaces), lay, "faces"); err != nil {
		return 0, err
	}

	return r.pos - r.model, nil
}

// sectionTable holds the counts and absolute addresses read from a
// COL2/3 header. It only lives for one DecodeModel call.
type sectionTable struct {
	size  uint32 // bytes after the signature and size fields
	flags uint32

	numSpheres int
	numBoxes   int
	numFaces   int
	numWheels  uint8

	sphereAddr int
	boxAddr    int
	vertexAddr int
	faceAddr   int

	numShadowFaces   uint32
	shadowVertexAddr int
	shadowFaceAddr   int
}

// readSectionTable reads the counts, flags and offsets of a COL2/3 header.
// Offsets are relative to the byte after the signature.
func readSectionTable(r *reader, lay *layout, size uint32) (*sectionTable, error) {
	if err := r.require(lay.sectionTableSize, "section table"); err != nil {
		return nil, err
	}

	base := r.model + SignatureSize
	addr := func() int {
		return base + int(r.u32())
	}

	t := &sectionTable{size: size}
	t.numSpheres = int(r.u16())
	t.numBoxes = int(r.u16())
	t.numFaces = int(r.u16())
	t.numWheels = r.u8()
	r.skip(1) // padding
	t.flags = r.u32()

	t.sphereAddr = addr()
	t.boxAddr = addr()
	r.skip(4) // suspension data, unused
	t.vertexAddr = addr()
	t.faceAddr = addr()
	r.skip(4) // planes, unused

	if lay.shadowMesh {
		t.numShadowFaces = r.u32()
		t.shadowVertexAddr = addr()
		t.shadowFaceAddr = addr()
	}
	return t, nil
}

// decodeAddressed decodes a COL2/3 body. Each section is read at its own
// address; the model size comes from the header, not from the cursor.
func (d *Decoder) decodeAddressed(r *reader, m *Model, lay *layout, size uint32) (int, error) {
	t, err := readSectionTable(r, lay, size)
	if err != nil {
		return 0, err
	}
	m.Flags = t.flags

	for _, c := range []struct {
		section string
		n       int
	}{
		{"spheres", t.numSpheres},
		{"boxes", t.numBoxes},
		{"faces", t.numFaces},
	} {
		if err := d.checkCount(r, c.section, uint64(c.n)); err != nil {
			return 0, err
		}
	}

	r.seek(t.sphereAddr)
	if m.Spheres, err = decodeSpheres(r, t.numSpheres, lay); err != nil {
		return 0, err
	}

	r.seek(t.boxAddr)
	if m.Boxes, err = decodeBoxes(r, t.numBoxes, lay); err != nil {
		return 0, err
	}

	if m.Vertices, m.Faces, err = d.decodeIndexedMesh(r, lay, t.vertexAddr, t.faceAddr, t.numFaces, "faces", "vertices"); err != nil {
		return 0, err
	}

	if m.HasFaceGroups() && len(m.Faces) > 0 {
		groups, err := resolveFaceGroups(r.buf, t.faceAddr, r.model, d.opts.MaxFaceGroups)
		if err != nil {
			m.Warnings = append(m.Warnings, newDiagnostic(r.model, SeverityWarning, err))
		} else {
			m.FaceGroups = groups
		}
	}

	if lay.shadowMesh && m.HasShadowMesh() && t.numShadowFaces > 0 {
		if err := d.checkCount(r, "shadow faces", uint64(t.numShadowFaces)); err != nil {
			return 0, err
		}
		m.ShadowVertices, m.ShadowFaces, err = d.decodeIndexedMesh(r, lay,
			t.shadowVertexAddr, t.shadowFaceAddr, int(t.numShadowFaces), "shadow faces", "shadow vertices")
		if err != nil {
			return 0, err
		}
	}

	return 8 + int(t.size), nil
}

// decodeIndexedMesh decodes a face array and then the vertex array it
// references, whose length is derived from the highest face index.
func (d *Decoder) decodeIndexedMesh(r *reader, lay *layout, vertexAddr, faceAddr, numFaces int, faceSection, vertexSection string) ([]Vertex, []Face, error) {
	if numFaces == 0 {
		return nil, nil, nil
	}

	r.seek(faceAddr)
	faces, err := decodeFaces(r, numFaces, lay, faceSection)
	if err != nil {
		return nil, nil, err
	}

	numVertices := vertexCountFromFaces(faces)
	if err := d.checkCount(r, vertexSection, uint64(numVertices)); err != nil {
		return nil, nil, err
	}

	r.seek(vertexAddr)
	vertices, err := decodeVertices(r, numVertices, lay, vertexSection)
	if err != nil {
		return nil, nil, err
	}
	return vertices, faces, nil
}
