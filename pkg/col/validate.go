package col

import (
	"fmt"

	"github.com/chewxy/math32"
)

// maxIndexDiagnostics caps out-of-range reports per mesh.
const maxIndexDiagnostics = 32

// ValidateOptions selects the checks run by Validate.
type ValidateOptions struct {
	// Strict also checks bounds ordering, finiteness and face group ranges.
	Strict bool
}

// Validate checks a decoded model and returns warnings. It never modifies
// the model. Returned diagnostics have Offset -1; the scanner fills in the
// model offset.
func Validate(m *Model, opts ValidateOptions) []Diagnostic {
	var diags []Diagnostic
	warn := func(err error) {
		diags = append(diags, newDiagnostic(-1, SeverityWarning, err))
	}

	if m.Name == "" {
		warn(ErrMissingName)
	}

	for _, err := range checkIndices("face", m.Faces, len(m.Vertices)) {
		warn(err)
	}
	for _, err := range checkIndices("shadow face", m.ShadowFaces, len(m.ShadowVertices)) {
		warn(err)
	}

	if !opts.Strict {
		return diags
	}

	if err := checkBounds(m.Bounds); err != nil {
		warn(err)
	}
	for i, s := range m.Spheres {
		if !finite(s.Center[:]...) || !finite(s.Radius) || s.Radius < 0 {
			warn(fmt.Errorf("%w: sphere %d has center %v radius %v", ErrInvalidBounds, i, s.Center, s.Radius))
		}
	}
	for i, b := range m.Boxes {
		if !finite(b.Min[:]...) || !finite(b.Max[:]...) || !ordered(b.Min, b.Max) {
			warn(fmt.Errorf("%w: box %d spans %v to %v", ErrInvalidBounds, i, b.Min, b.Max))
		}
	}
	for i, v := range m.Vertices {
		if !finite(v.Position[:]...) {
			warn(fmt.Errorf("%w: vertex %d is not finite", ErrInvalidBounds, i))
		}
	}
	for i, g := range m.FaceGroups {
		if g.StartFace > g.EndFace || int(g.EndFace) >= len(m.Faces) {
			warn(fmt.Errorf("%w: group %d covers faces %d-%d of %d",
				ErrInvalidFaceGroup, i, g.StartFace, g.EndFace, len(m.Faces)))
		}
	}
	return diags
}

// checkIndices reports faces referencing a vertex at or beyond count.
func checkIndices(label string, faces []Face, count int) []error {
	var errs []error
	bad := 0
	for i, f := range faces {
		for _, idx := range f.Indices() {
			if uint64(idx) < uint64(count) {
				continue
			}
			bad++
			if bad <= maxIndexDiagnostics {
				errs = append(errs, fmt.Errorf("%w: %s %d index %d, vertex count %d",
					ErrIndexOutOfRange, label, i, idx, count))
			}
			break
		}
	}
	if bad > maxIndexDiagnostics {
		errs = append(errs, fmt.Errorf("%w: %d more %ss not listed",
			ErrIndexOutOfRange, bad-maxIndexDiagnostics, label))
	}
	return errs
}

// checkBounds verifies min <= max and that every component is finite.
func checkBounds(b BoundingVolume) error {
	if !finite(b.Min[:]...) || !finite(b.Max[:]...) || !finite(b.Center[:]...) || !finite(b.Radius) {
		return fmt.Errorf("%w: non-finite component", ErrInvalidBounds)
	}
	if !ordered(b.Min, b.Max) {
		return fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidBounds, b.Min, b.Max)
	}
	if b.Radius < 0 {
		return fmt.Errorf("%w: negative radius %v", ErrInvalidBounds, b.Radius)
	}
	return nil
}

func ordered(lo, hi Vector3) bool {
	return lo[0] <= hi[0] && lo[1] <= hi[1] && lo[2] <= hi[2]
}

func finite(values ...float32) bool {
	for _, v := range values {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
