package web

import (
	"strconv"

	"github.com/chewxy/math32"

	"github.com/Faultbox/colkit/pkg/col"
)

// jsonFloat encodes NaN and infinities as null. Decoded models pass
// such values through and encoding/json rejects them.
type jsonFloat float32

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float32(f)
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(v), 'g', -1, 32), nil
}

type jsonVec3 [3]jsonFloat

func vec3(v col.Vector3) jsonVec3 {
	return jsonVec3{jsonFloat(v[0]), jsonFloat(v[1]), jsonFloat(v[2])}
}

type boundsJSON struct {
	Min    jsonVec3  `json:"min"`
	Max    jsonVec3  `json:"max"`
	Center jsonVec3  `json:"center"`
	Radius jsonFloat `json:"radius"`
}

type sphereJSON struct {
	Center  jsonVec3    `json:"center"`
	Radius  jsonFloat   `json:"radius"`
	Surface col.Surface `json:"surface"`
}

type boxJSON struct {
	Min     jsonVec3    `json:"min"`
	Max     jsonVec3    `json:"max"`
	Surface col.Surface `json:"surface"`
	Flags   uint32      `json:"flags,omitempty"`
}

type vertexJSON struct {
	Position jsonVec3 `json:"position"`
}

type faceGroupJSON struct {
	Min       jsonVec3 `json:"min"`
	Max       jsonVec3 `json:"max"`
	StartFace uint16   `json:"start_face"`
	EndFace   uint16   `json:"end_face"`
}

// modelJSON is the wire form of a col.Model with the same field names.
type modelJSON struct {
	Name    string      `json:"name"`
	ID      uint16      `json:"id"`
	Version col.Version `json:"version"`
	Bounds  boundsJSON  `json:"bounds"`
	Flags   uint32      `json:"flags"`

	Spheres    []sphereJSON    `json:"spheres"`
	Boxes      []boxJSON       `json:"boxes"`
	Vertices   []vertexJSON    `json:"vertices"`
	Faces      []col.Face      `json:"faces"`
	FaceGroups []faceGroupJSON `json:"face_groups,omitempty"`

	ShadowVertices []vertexJSON `json:"shadow_vertices,omitempty"`
	ShadowFaces    []col.Face   `json:"shadow_faces,omitempty"`

	Warnings []col.Diagnostic `json:"warnings,omitempty"`
}

func newModelJSON(m *col.Model) modelJSON {
	out := modelJSON{
		Name:    m.Name,
		ID:      m.ID,
		Version: m.Version,
		Bounds: boundsJSON{
			Min:    vec3(m.Bounds.Min),
			Max:    vec3(m.Bounds.Max),
			Center: vec3(m.Bounds.Center),
			Radius: jsonFloat(m.Bounds.Radius),
		},
		Flags:          m.Flags,
		Spheres:        make([]sphereJSON, len(m.Spheres)),
		Boxes:          make([]boxJSON, len(m.Boxes)),
		Vertices:       vertices(m.Vertices),
		Faces:          m.Faces,
		ShadowVertices: vertices(m.ShadowVertices),
		ShadowFaces:    m.ShadowFaces,
		Warnings:       m.Warnings,
	}
	if out.Vertices == nil {
		out.Vertices = []vertexJSON{}
	}
	if out.Faces == nil {
		out.Faces = []col.Face{}
	}

	for i, s := range m.Spheres {
		out.Spheres[i] = sphereJSON{Center: vec3(s.Center), Radius: jsonFloat(s.Radius), Surface: s.Surface}
	}
	for i, b := range m.Boxes {
		out.Boxes[i] = boxJSON{Min: vec3(b.Min), Max: vec3(b.Max), Surface: b.Surface, Flags: b.Flags}
	}
	for _, g := range m.FaceGroups {
		out.FaceGroups = append(out.FaceGroups, faceGroupJSON{
			Min:       vec3(g.Min),
			Max:       vec3(g.Max),
			StartFace: g.StartFace,
			EndFace:   g.EndFace,
		})
	}
	return out
}

func vertices(vs []col.Vertex) []vertexJSON {
	if vs == nil {
		return nil
	}
	out := make([]vertexJSON, len(vs))
	for i, v := range vs {
		out[i] = vertexJSON{Position: vec3(v.Position)}
	}
	return out
}
