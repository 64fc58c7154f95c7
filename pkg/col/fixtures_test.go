package col

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/Faultbox/colkit/pkg/encoding"
)

// testModel describes a synthetic model for the fixture builders.
type testModel struct {
	name           string
	id             uint16
	bounds         BoundingVolume
	flags          uint32 // extra COL2/3 flag bits
	spheres        []Sphere
	boxes          []Box
	vertices       []Vertex
	faces          []Face
	groups         []FaceGroup
	shadowVertices []Vertex
	shadowFaces    []Face
}

func writeLE(buf *bytes.Buffer, v any) {
	binary.Write(buf, binary.LittleEndian, v)
}

func writeSurface(buf *bytes.Buffer, s Surface) {
	buf.Write([]byte{s.Material, s.Flag, s.Brightness, s.Light})
}

func writeHeader(buf *bytes.Buffer, v Version, m testModel) {
	buf.WriteString(v.Signature())
	writeLE(buf, uint32(0)) // size, patched by finishModel
	buf.Write(encoding.ToFixedString(m.name, NameSize))
	writeLE(buf, m.id)
}

// finishModel patches the size field: bytes after signature and size.
func finishModel(buf *bytes.Buffer) []byte {
	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))
	return data
}

// createTestCOL1 builds a COL1 model.
func createTestCOL1(m testModel) []byte {
	buf := new(bytes.Buffer)
	writeHeader(buf, Version1, m)

	// Bounds: radius, center, min, max
	writeLE(buf, m.bounds.Radius)
	writeLE(buf, m.bounds.Center)
	writeLE(buf, m.bounds.Min)
	writeLE(buf, m.bounds.Max)

	// Counts
	writeLE(buf, uint32(len(m.spheres)))
	writeLE(buf, uint32(0))
	writeLE(buf, uint32(len(m.boxes)))
	writeLE(buf, uint32(len(m.vertices)))
	writeLE(buf, uint32(len(m.faces)))

	for _, s := range m.spheres {
		writeLE(buf, s.Radius)
		writeLE(buf, s.Center)
		writeSurface(buf, s.Surface)
	}
	for _, b := range m.boxes {
		writeLE(buf, b.Min)
		writeLE(buf, b.Max)
		writeSurface(buf, b.Surface)
		writeLE(buf, b.Flags)
	}
	for _, v := range m.vertices {
		writeLE(buf, v.Position)
	}
	for _, f := range m.faces {
		writeLE(buf, [3]uint32{f.A, f.B, f.C})
		writeLE(buf, f.Material)
		writeLE(buf, uint16(0))
	}

	return finishModel(buf)
}

// minimalCOL1 builds a COL1 model with no primitives and no mesh.
func minimalCOL1(name string) []byte {
	return createTestCOL1(testModel{name: name})
}

func writeCompressedVertices(buf *bytes.Buffer, vertices []Vertex) {
	for _, v := range vertices {
		for _, c := range v.Position {
			writeLE(buf, int16(math.Round(float64(c)*FixedPointScale)))
		}
	}
	if (len(vertices)*6)%4 != 0 {
		writeLE(buf, uint16(0))
	}
}

func writeShortFaces(buf *bytes.Buffer, faces []Face) {
	for _, f := range faces {
		writeLE(buf, [3]uint16{uint16(f.A), uint16(f.B), uint16(f.C)})
		buf.WriteByte(uint8(f.Material))
		buf.WriteByte(f.Light)
	}
}

// createTestCOL23 builds a COL2 or COL3 model. Sections are laid out as
// spheres, boxes, vertices, face groups, faces, shadow vertices, shadow
// faces; the header offsets point at them.
func createTestCOL23(v Version, m testModel) []byte {
	tableSize := 36
	if v == Version3 {
		tableSize = 48
	}
	bodyStart := HeaderSize + BoundsSize + tableSize

	body := new(bytes.Buffer)
	rel := func() uint32 {
		// Offsets are relative to the byte after the signature
		return uint32(bodyStart + body.Len() - SignatureSize)
	}

	sphereOff := rel()
	for _, s := range m.spheres {
		writeLE(body, s.Center)
		writeLE(body, s.Radius)
		writeSurface(body, s.Surface)
	}

	boxOff := rel()
	for _, b := range m.boxes {
		writeLE(body, b.Min)
		writeLE(body, b.Max)
		writeSurface(body, b.Surface)
	}

	vertexOff := rel()
	writeCompressedVertices(body, m.vertices)

	flags := m.flags
	if len(m.groups) > 0 {
		flags |= FlagFaceGroups
		for _, g := range m.groups {
			writeLE(body, g.Min)
			writeLE(body, g.Max)
			writeLE(body, g.StartFace)
			writeLE(body, g.EndFace)
		}
		writeLE(body, uint32(len(m.groups)))
	}

	faceOff := rel()
	writeShortFaces(body, m.faces)

	shadowVertexOff := rel()
	writeCompressedVertices(body, m.shadowVertices)
	shadowFaceOff := rel()
	writeShortFaces(body, m.shadowFaces)
	if v == Version3 && len(m.shadowFaces) > 0 {
		flags |= FlagShadowMesh
	}

	buf := new(bytes.Buffer)
	writeHeader(buf, v, m)

	// Bounds: min, max, center, radius
	writeLE(buf, m.bounds.Min)
	writeLE(buf, m.bounds.Max)
	writeLE(buf, m.bounds.Center)
	writeLE(buf, m.bounds.Radius)

	writeLE(buf, uint16(len(m.spheres)))
	writeLE(buf, uint16(len(m.boxes)))
	writeLE(buf, uint16(len(m.faces)))
	buf.WriteByte(0) // wheels
	buf.WriteByte(0) // padding
	writeLE(buf, flags)

	writeLE(buf, sphereOff)
	writeLE(buf, boxOff)
	writeLE(buf, uint32(0)) // suspension
	writeLE(buf, vertexOff)
	writeLE(buf, faceOff)
	writeLE(buf, uint32(0)) // planes

	if v == Version3 {
		writeLE(buf, uint32(len(m.shadowFaces)))
		writeLE(buf, shadowVertexOff)
		writeLE(buf, shadowFaceOff)
	}

	buf.Write(body.Bytes())
	return finishModel(buf)
}

// Header field positions of a COL2/3 model.
const (
	col23FlagsPos      = 80
	col23SuspensionPos = 92
	col23VertexOffPos  = 96
	col23FaceOffPos    = 100
	col23PlanesPos     = 104
)

// sectionAddr returns the absolute address stored in an offset field.
func sectionAddr(data []byte, fieldPos int) int {
	return SignatureSize + int(binary.LittleEndian.Uint32(data[fieldPos:]))
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
