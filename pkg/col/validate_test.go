package col

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
)

func validModel() *Model {
	return &Model{
		Name:    "valid",
		Version: Version2,
		Bounds: BoundingVolume{
			Min:    Vector3{-1, -1, -1},
			Max:    Vector3{1, 1, 1},
			Radius: 2,
		},
		Spheres: []Sphere{{Radius: 1}},
		Boxes:   []Box{{Min: Vector3{0, 0, 0}, Max: Vector3{1, 1, 1}}},
		Vertices: []Vertex{
			{Position: Vector3{0, 0, 0}},
			{Position: Vector3{1, 0, 0}},
			{Position: Vector3{0, 1, 0}},
		},
		Faces:      []Face{{A: 0, B: 1, C: 2}},
		FaceGroups: []FaceGroup{{StartFace: 0, EndFace: 0}},
	}
}

func kinds(diags []Diagnostic) []Kind {
	out := make([]Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	for _, strict := range []bool{false, true} {
		if diags := Validate(validModel(), ValidateOptions{Strict: strict}); len(diags) != 0 {
			t.Errorf("strict=%v: expected no diagnostics, got %v", strict, diags)
		}
	}
}

func TestValidate_IndexOutOfRange(t *testing.T) {
	m := validModel()
	m.Faces = append(m.Faces, Face{A: 0, B: 1, C: 3})

	diags := Validate(m, ValidateOptions{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.Kind != KindIndexOutOfRange || d.Severity != SeverityWarning || d.Offset != -1 {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if !strings.Contains(d.Message, "face 1 index 3") {
		t.Errorf("expected message to name face and index, got %q", d.Message)
	}

	// Validation never modifies the model
	if len(m.Faces) != 2 || len(m.Vertices) != 3 {
		t.Errorf("model was modified: %d faces, %d vertices", len(m.Faces), len(m.Vertices))
	}
}

func TestValidate_ShadowIndexOutOfRange(t *testing.T) {
	m := validModel()
	m.ShadowVertices = []Vertex{{}, {}}
	m.ShadowFaces = []Face{{A: 0, B: 1, C: 2}}

	diags := Validate(m, ValidateOptions{})
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "shadow face 0") {
		t.Errorf("expected shadow face diagnostic, got %v", diags)
	}
}

func TestValidate_IndexDiagnosticsCapped(t *testing.T) {
	m := validModel()
	m.Faces = nil
	for range 40 {
		m.Faces = append(m.Faces, Face{A: 9, B: 9, C: 9})
	}
	m.FaceGroups = nil

	diags := Validate(m, ValidateOptions{})
	if len(diags) != maxIndexDiagnostics+1 {
		t.Fatalf("expected %d diagnostics, got %d", maxIndexDiagnostics+1, len(diags))
	}
	last := diags[len(diags)-1]
	if !strings.Contains(last.Message, "8 more faces not listed") {
		t.Errorf("unexpected summary message %q", last.Message)
	}
}

func TestValidate_MissingName(t *testing.T) {
	m := validModel()
	m.Name = ""

	diags := Validate(m, ValidateOptions{})
	if len(diags) != 1 || diags[0].Kind != KindMissingName {
		t.Errorf("expected MissingName, got %v", diags)
	}
}

func TestValidate_Strict(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m *Model)
		want   Kind
	}{
		{"inverted bounds", func(m *Model) { m.Bounds.Min[0] = 5 }, KindInvalidBounds},
		{"negative radius", func(m *Model) { m.Bounds.Radius = -1 }, KindInvalidBounds},
		{"nan bounds", func(m *Model) { m.Bounds.Center[1] = math32.NaN() }, KindInvalidBounds},
		{"nan sphere", func(m *Model) { m.Spheres[0].Radius = math32.NaN() }, KindInvalidBounds},
		{"inverted box", func(m *Model) { m.Boxes[0].Min[2] = 2 }, KindInvalidBounds},
		{"infinite vertex", func(m *Model) { m.Vertices[1].Position[0] = math32.Inf(1) }, KindInvalidBounds},
		{"group past faces", func(m *Model) { m.FaceGroups[0].EndFace = 1 }, KindInvalidFaceGroup},
		{"group reversed", func(m *Model) { m.FaceGroups[0].StartFace = 1 }, KindInvalidFaceGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModel()
			tt.modify(m)

			if diags := Validate(m, ValidateOptions{}); len(diags) != 0 {
				t.Errorf("expected no diagnostics outside strict mode, got %v", diags)
			}

			diags := Validate(m, ValidateOptions{Strict: true})
			if len(diags) != 1 || diags[0].Kind != tt.want {
				t.Errorf("expected [%s], got %v", tt.want, kinds(diags))
			}
		})
	}
}
