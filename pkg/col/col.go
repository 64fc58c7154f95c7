// Package col decodes collision geometry files (COL1-COL4).
//
// A collision file holds one or more models, each starting with a 4-byte
// signature. Every model carries a bounding volume, collision primitives
// (spheres and boxes) and an optional triangle mesh. COL2/COL3 models may
// add face groups and, for COL3, a secondary shadow mesh.
package col

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Version identifies the collision format revision.
type Version uint8

// Known format versions.
const (
	Version1 Version = 1 // "COLL"
	Version2 Version = 2 // "COL\x02"
	Version3 Version = 3 // "COL\x03"
	Version4 Version = 4 // "COL\x04", recognised but not decodable
)

// SignatureSize is the length of a model signature in bytes.
const SignatureSize = 4

var signatures = [...]struct {
	tag     string
	version Version
}{
	{"COLL", Version1},
	{"COL\x02", Version2},
	{"COL\x03", Version3},
	{"COL\x04", Version4},
}

// MatchSignature returns the version selected by the 4-byte tag at the start of b.
func MatchSignature(b []byte) (Version, bool) {
	if len(b) < SignatureSize {
		return 0, false
	}
	for _, s := range signatures {
		if string(b[:SignatureSize]) == s.tag {
			return s.version, true
		}
	}
	return 0, false
}

// Signature returns the 4-byte tag written at the start of a model of this version.
func (v Version) Signature() string {
	for _, s := range signatures {
		if s.version == v {
			return s.tag
		}
	}
	return ""
}

// String returns the version as "COLn".
func (v Version) String() string {
	switch v {
	case Version1, Version2, Version3, Version4:
		return fmt.Sprintf("COL%d", uint8(v))
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(v))
	}
}

// MarshalText encodes the version as "COLn".
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a version written by MarshalText.
func (v *Version) UnmarshalText(text []byte) error {
	for _, s := range signatures {
		if s.version.String() == string(text) {
			*v = s.version
			return nil
		}
	}
	return fmt.Errorf("unknown COL version %q", text)
}

// Vector3 is a 3D position.
type Vector3 = mgl32.Vec3

// BoundingVolume encloses a whole model.
type BoundingVolume struct {
	Min    Vector3 `json:"min"`
	Max    Vector3 `json:"max"`
	Center Vector3 `json:"center"`
	Radius float32 `json:"radius"`
}

// Surface holds the 4-byte surface word attached to spheres and boxes.
type Surface struct {
	Material   uint8 `json:"material"`   // Surface material ID
	Flag       uint8 `json:"flag"`       // Surface flags
	Brightness uint8 `json:"brightness"` // Low byte of the trailing word
	Light      uint8 `json:"light"`      // High byte of the trailing word
}

// Word returns the trailing 16-bit part of the surface word.
func (s Surface) Word() uint16 {
	return uint16(s.Brightness) | uint16(s.Light)<<8
}

// Sphere is a collision sphere.
type Sphere struct {
	Center  Vector3 `json:"center"`
	Radius  float32 `json:"radius"`
	Surface Surface `json:"surface"`
}

// Box is an axis-aligned collision box.
type Box struct {
	Min     Vector3 `json:"min"`
	Max     Vector3 `json:"max"`
	Surface Surface `json:"surface"`
	Flags   uint32  `json:"flags,omitempty"` // COL1 only
}

// Vertex is a mesh vertex.
type Vertex struct {
	Position Vector3 `json:"position"`
}

// Face is a mesh triangle.
type Face struct {
	A        uint32 `json:"a"`
	B        uint32 `json:"b"`
	C        uint32 `json:"c"`
	Material uint16 `json:"material"`
	Light    uint8  `json:"light"` // COL2/3 only
}

// Indices returns the three vertex indices.
func (f Face) Indices() [3]uint32 {
	return [3]uint32{f.A, f.B, f.C}
}

// FaceGroup is a spatial partition of the face array (COL2/3).
// StartFace and EndFace are inclusive.
type FaceGroup struct {
	Min       Vector3 `json:"min"`
	Max       Vector3 `json:"max"`
	StartFace uint16  `json:"start_face"`
	EndFace   uint16  `json:"end_face"`
}

// FaceCount returns the number of faces covered by the group.
func (g FaceGroup) FaceCount() int {
	if g.EndFace < g.StartFace {
		return 0
	}
	return int(g.EndFace) - int(g.StartFace) + 1
}

// Model flag bits (COL2/3).
const (
	FlagFaceGroups uint32 = 8
	FlagShadowMesh uint32 = 16
)

// Model is a single decoded collision model.
type Model struct {
	Name    string         `json:"name"`
	ID      uint16         `json:"id"`
	Version Version        `json:"version"`
	Bounds  BoundingVolume `json:"bounds"`
	Flags   uint32         `json:"flags"` // COL2/3 header flags

	Spheres    []Sphere    `json:"spheres"`
	Boxes      []Box       `json:"boxes"`
	Vertices   []Vertex    `json:"vertices"`
	Faces      []Face      `json:"faces"`
	FaceGroups []FaceGroup `json:"face_groups,omitempty"`

	// Shadow mesh (COL3 only)
	ShadowVertices []Vertex `json:"shadow_vertices,omitempty"`
	ShadowFaces    []Face   `json:"shadow_faces,omitempty"`

	// Warnings holds non-fatal decode problems, e.g. an unreadable face group table.
	Warnings []Diagnostic `json:"warnings,omitempty"`
}

// HasFaceGroups returns true if the header announces a face group table.
func (m *Model) HasFaceGroups() bool {
	return m.Version != Version1 && m.Flags&FlagFaceGroups != 0
}

// HasShadowMesh returns true if the header announces a shadow mesh.
func (m *Model) HasShadowMesh() bool {
	return m.Version == Version3 && m.Flags&FlagShadowMesh != 0
}

// Summary is a layout-independent description of a model.
type Summary struct {
	Name           string  `json:"name"`
	ID             uint16  `json:"id"`
	Version        Version `json:"version"`
	Spheres        int     `json:"spheres"`
	Boxes          int     `json:"boxes"`
	Vertices       int     `json:"vertices"`
	Faces          int     `json:"faces"`
	FaceGroups     int     `json:"face_groups"`
	ShadowVertices int     `json:"shadow_vertices"`
	ShadowFaces    int     `json:"shadow_faces"`
}

// Summary returns element counts and identity of the model.
func (m *Model) Summary() Summary {
	return Summary{
		Name:           m.Name,
		ID:             m.ID,
		Version:        m.Version,
		Spheres:        len(m.Spheres),
		Boxes:          len(m.Boxes),
		Vertices:       len(m.Vertices),
		Faces:          len(m.Faces),
		FaceGroups:     len(m.FaceGroups),
		ShadowVertices: len(m.ShadowVertices),
		ShadowFaces:    len(m.ShadowFaces),
	}
}

// String renders the summary on one line.
func (s Summary) String() string {
	str := fmt.Sprintf("%q (%s, id %d) S:%d B:%d V:%d F:%d",
		s.Name, s.Version, s.ID, s.Spheres, s.Boxes, s.Vertices, s.Faces)
	if s.FaceGroups > 0 {
		str += fmt.Sprintf(" G:%d", s.FaceGroups)
	}
	if s.ShadowFaces > 0 {
		str += fmt.Sprintf(" SV:%d SF:%d", s.ShadowVertices, s.ShadowFaces)
	}
	return str
}

// String returns the model summary.
func (m *Model) String() string {
	return m.Summary().String()
}
