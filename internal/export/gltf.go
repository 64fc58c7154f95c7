// Package export converts decoded collision models to glTF 2.0.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/colkit/pkg/col"
)

// Options select what is exported.
type Options struct {
	Binary     bool // GLB instead of JSON with an embedded buffer
	Shadow     bool // Include the COL3 shadow mesh
	Primitives bool // Include boxes and spheres
}

// DefaultOptions exports everything as GLB.
func DefaultOptions() Options {
	return Options{Binary: true, Shadow: true, Primitives: true}
}

// Material slots of every exported document.
const (
	materialCollision uint32 = iota
	materialShadow
	materialPrimitive
)

const (
	sphereRings    = 8
	sphereSegments = 12
)

// Document builds a glTF document for m.
//
// The collision mesh and shadow mesh are exported as indexed triangle
// meshes; faces referencing a missing vertex are left out. Boxes share a
// unit cube and spheres share a unit sphere, placed by node translation
// and scale. Everything hangs off one root node named after the model.
func Document(m *col.Model, opts Options) (*gltf.Document, error) {
	if m == nil {
		return nil, errors.New("no model to export")
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "colkit"
	doc.Materials = []*gltf.Material{
		{Name: "collision", DoubleSided: true},
		{Name: "shadow", DoubleSided: true},
		{Name: "primitive", DoubleSided: true},
	}

	root := &gltf.Node{Name: nodeName(m)}
	var children []*gltf.Node

	if mesh, ok := triangleMesh(doc, "collision", m.Vertices, m.Faces, materialCollision); ok {
		children = append(children, &gltf.Node{Name: "collision", Mesh: gltf.Index(mesh)})
	}

	if opts.Shadow {
		if mesh, ok := triangleMesh(doc, "shadow", m.ShadowVertices, m.ShadowFaces, materialShadow); ok {
			children = append(children, &gltf.Node{Name: "shadow", Mesh: gltf.Index(mesh)})
		}
	}

	if opts.Primitives && len(m.Boxes) > 0 {
		cube := unitCube(doc)
		for i, b := range m.Boxes {
			children = append(children, &gltf.Node{
				Name:        fmt.Sprintf("box_%d", i),
				Mesh:        gltf.Index(cube),
				Translation: b.Min.Add(b.Max).Mul(0.5),
				Scale:       nonZero(b.Max.Sub(b.Min)),
				Extras:      surfaceExtras(b.Surface),
			})
		}
	}

	if opts.Primitives && len(m.Spheres) > 0 {
		sphere := unitSphere(doc)
		for i, s := range m.Spheres {
			r := math32.Max(s.Radius, minScale)
			children = append(children, &gltf.Node{
				Name:        fmt.Sprintf("sphere_%d", i),
				Mesh:        gltf.Index(sphere),
				Translation: s.Center,
				Scale:       mgl32.Vec3{r, r, r},
				Extras:      surfaceExtras(s.Surface),
			})
		}
	}

	doc.Nodes = append(doc.Nodes, root)
	for _, child := range children {
		root.Children = append(root.Children, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, child)
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc, nil
}

// Write encodes m to w.
func Write(w io.Writer, m *col.Model, opts Options) error {
	doc, err := Document(m, opts)
	if err != nil {
		return err
	}

	if !opts.Binary {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = opts.Binary
	if err := enc.Encode(doc); err != nil {
		return errors.Wrapf(err, "failed to encode %q", m.Name)
	}
	return nil
}

// WriteFile encodes m to a new file at path.
func WriteFile(path string, m *col.Model, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	if err := Write(f, m, opts); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close export file")
}

// Ext returns the file extension matching opts.
func Ext(opts Options) string {
	if opts.Binary {
		return ".glb"
	}
	return ".gltf"
}

func nodeName(m *col.Model) string {
	if m.Name == "" {
		return fmt.Sprintf("model_%d", m.ID)
	}
	return m.Name
}

// triangleMesh adds an indexed mesh. Faces with an index outside vertices
// are dropped. It reports false when no face is left.
func triangleMesh(doc *gltf.Document, name string, vertices []col.Vertex, faces []col.Face, material uint32) (uint32, bool) {
	indices := make([]uint32, 0, len(faces)*3)
	for _, f := range faces {
		if int(f.A) >= len(vertices) || int(f.B) >= len(vertices) || int(f.C) >= len(vertices) {
			continue
		}
		indices = append(indices, f.A, f.B, f.C)
	}
	if len(indices) == 0 {
		return 0, false
	}

	positions := make([][3]float32, len(vertices))
	for i, v := range vertices {
		positions[i] = v.Position
	}

	return addMesh(doc, name, positions, indices, material), true
}

func addMesh(doc *gltf.Document, name string, positions [][3]float32, indices []uint32, material uint32) uint32 {
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]uint32{
				"POSITION": modeler.WritePosition(doc, positions),
			},
			Material: gltf.Index(material),
		}},
	})
	return uint32(len(doc.Meshes) - 1)
}

// unitCube adds a 12-triangle cube spanning -0.5..0.5.
func unitCube(doc *gltf.Document) uint32 {
	positions := make([][3]float32, 8)
	for i := range positions {
		positions[i] = [3]float32{
			float32(i&1) - 0.5,
			float32(i>>1&1) - 0.5,
			float32(i>>2&1) - 0.5,
		}
	}
	indices := []uint32{
		0, 2, 1, 1, 2, 3, // -z
		4, 5, 6, 5, 7, 6, // +z
		0, 1, 4, 1, 5, 4, // -y
		2, 6, 3, 3, 6, 7, // +y
		0, 4, 2, 2, 4, 6, // -x
		1, 3, 5, 3, 7, 5, // +x
	}
	return addMesh(doc, "box", positions, indices, materialPrimitive)
}

// unitSphere adds a UV sphere of radius 1.
func unitSphere(doc *gltf.Document) uint32 {
	var positions [][3]float32
	for ring := 0; ring <= sphereRings; ring++ {
		theta := math32.Pi * float32(ring) / sphereRings
		for seg := 0; seg <= sphereSegments; seg++ {
			phi := 2 * math32.Pi * float32(seg) / sphereSegments
			positions = append(positions, [3]float32{
				math32.Sin(theta) * math32.Cos(phi),
				math32.Sin(theta) * math32.Sin(phi),
				math32.Cos(theta),
			})
		}
	}

	var indices []uint32
	stride := uint32(sphereSegments + 1)
	for ring := uint32(0); ring < sphereRings; ring++ {
		for seg := uint32(0); seg < sphereSegments; seg++ {
			a := ring*stride + seg
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return addMesh(doc, "sphere", positions, indices, materialPrimitive)
}

// minScale keeps degenerate primitives from producing a singular transform.
const minScale = 1e-4

func nonZero(v mgl32.Vec3) mgl32.Vec3 {
	for i := range v {
		v[i] = math32.Max(math32.Abs(v[i]), minScale)
	}
	return v
}

func surfaceExtras(s col.Surface) map[string]any {
	return map[string]any{
		"material":   s.Material,
		"flag":       s.Flag,
		"brightness": s.Brightness,
		"light":      s.Light,
	}
}
