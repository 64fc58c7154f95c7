package col

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeVertices_FixedPoint(t *testing.T) {
	buf := new(bytes.Buffer)
	writeLE(buf, []int16{128, 256, -128})
	writeLE(buf, uint16(0xffff)) // pad
	writeLE(buf, uint32(0xdeadbeef))

	r := newReader(buf.Bytes(), 0)
	vertices, err := decodeVertices(r, 1, layouts[Version2], "vertices")
	if err != nil {
		t.Fatalf("decodeVertices failed: %v", err)
	}
	if len(vertices) != 1 || vertices[0].Position != (Vector3{1, 2, -1}) {
		t.Errorf("expected (1, 2, -1), got %v", vertices)
	}
	if r.pos != 8 {
		t.Errorf("expected pad to be skipped, cursor at %d", r.pos)
	}
}

func TestDecodeVertices_NoPadWhenAligned(t *testing.T) {
	buf := new(bytes.Buffer)
	writeLE(buf, []int16{1, 2, 3, 4, 5, 6})

	r := newReader(buf.Bytes(), 0)
	if _, err := decodeVertices(r, 2, layouts[Version3], "vertices"); err != nil {
		t.Fatalf("decodeVertices failed: %v", err)
	}
	if r.pos != 12 {
		t.Errorf("expected cursor at 12, got %d", r.pos)
	}
}

func TestDecodeVertices_PadAtEndOfBuffer(t *testing.T) {
	buf := new(bytes.Buffer)
	writeLE(buf, []int16{-64, 0, 64})

	r := newReader(buf.Bytes(), 0)
	vertices, err := decodeVertices(r, 1, layouts[Version2], "vertices")
	if err != nil {
		t.Fatalf("missing pad at end of buffer should not fail: %v", err)
	}
	if vertices[0].Position != (Vector3{-0.5, 0, 0.5}) {
		t.Errorf("unexpected position %v", vertices[0].Position)
	}
}

func TestDecodeFaces_Truncated(t *testing.T) {
	r := newReader(make([]byte, 30), 0)
	_, err := decodeFaces(r, 2, layouts[Version1], "faces")
	if !errors.Is(err, ErrTruncatedSection) {
		t.Fatalf("expected ErrTruncatedSection, got %v", err)
	}
}

func TestVertexCountFromFaces(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
		want  int
	}{
		{"none", nil, 0},
		{"single", []Face{{A: 0, B: 1, C: 2}}, 3},
		{"highest in middle", []Face{{A: 0, B: 9, C: 2}, {A: 4, B: 1, C: 3}}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vertexCountFromFaces(tt.faces); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
