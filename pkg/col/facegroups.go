package col

import "fmt"

// resolveFaceGroups reads the face group table that precedes a face array.
//
// The table is addressed backward from faceAddr:
//
//	[group 0 .. group n-1][n uint32][faces...]
//
// Each group is min(12) + max(12) + startFace(2) + endFace(2). Any address
// that would leave the buffer yields ErrMalformedFaceGroupTable and no groups.
func resolveFaceGroups(buf []byte, faceAddr, model, maxGroups int) ([]FaceGroup, error) {
	malformed := func(format string, args ...any) error {
		return &DecodeError{
			Offset:  model,
			Section: "face groups",
			Err:     fmt.Errorf("%w: "+format, append([]any{ErrMalformedFaceGroupTable}, args...)...),
		}
	}

	countAddr := faceAddr - 4
	if countAddr < 0 || faceAddr > len(buf) {
		return nil, malformed("group count at %d is outside the buffer", countAddr)
	}

	r := newReader(buf, model)
	r.seek(countAddr)
	count := int(r.u32())
	if count == 0 {
		return nil, nil
	}
	if count > maxGroups {
		return nil, malformed("%d groups exceeds limit of %d", count, maxGroups)
	}

	groupsAddr := countAddr - count*FaceGroupSize
	if groupsAddr < 0 {
		return nil, malformed("%d groups would start at %d, before the buffer", count, groupsAddr)
	}

	r.seek(groupsAddr)
	groups := make([]FaceGroup, count)
	for i := range groups {
		g := &groups[i]
		g.Min = r.vec3()
		g.Max = r.vec3()
		g.StartFace = r.u16()
		g.EndFace = r.u16()
	}
	return groups, nil
}
