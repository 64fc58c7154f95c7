package col

// decodeVertices reads count vertices at the cursor.
//
// COL1 stores three float32 per vertex. COL2/3 store three int16 in 1/128
// units; an array whose byte length is not a multiple of 4 is followed by a
// 2-byte alignment pad, which is skipped.
func decodeVertices(r *reader, count int, lay *layout, section string) ([]Vertex, error) {
	if count == 0 {
		return nil, nil
	}
	if err := r.requireArray(count, lay.vertexSize, section); err != nil {
		return nil, err
	}

	vertices := make([]Vertex, count)
	if !lay.fixedPoint {
		for i := range vertices {
			vertices[i].Position = r.vec3()
		}
		return vertices, nil
	}

	for i := range vertices {
		vertices[i].Position = Vector3{
			fixedToFloat(r.i16()),
			fixedToFloat(r.i16()),
			fixedToFloat(r.i16()),
		}
	}

	// Alignment pad, may be cut off at the end of the buffer
	if (count*lay.vertexSize)%4 != 0 {
		r.skip(min(2, r.remaining()))
	}
	return vertices, nil
}

// fixedToFloat converts a 1/128 fixed-point component.
func fixedToFloat(v int16) float32 {
	return float32(v) / FixedPointScale
}

// decodeFaces reads count faces at the cursor.
//
// COL1: a, b, c (uint32) + material (uint16) + 2 unused bytes
// COL2/3: a, b, c (uint16) + material (uint8) + light (uint8)
//
// Indices are not range checked here; see Validate.
func decodeFaces(r *reader, count int, lay *layout, section string) ([]Face, error) {
	if count == 0 {
		return nil, nil
	}
	if err := r.requireArray(count, lay.faceSize, section); err != nil {
		return nil, err
	}

	faces := make([]Face, count)
	for i := range faces {
		f := &faces[i]
		if lay.wideIndices {
			f.A = r.u32()
			f.B = r.u32()
			f.C = r.u32()
			f.Material = r.u16()
			r.skip(2)
		} else {
			f.A = uint32(r.u16())
			f.B = uint32(r.u16())
			f.C = uint32(r.u16())
			f.Material = uint16(r.u8())
			f.Light = r.u8()
		}
	}
	return faces, nil
}

// vertexCountFromFaces derives the vertex count of a mesh that does not
// store one: one more than the highest index referenced.
func vertexCountFromFaces(faces []Face) int {
	if len(faces) == 0 {
		return 0
	}
	var highest uint32
	for _, f := range faces {
		highest = max(highest, f.A, f.B, f.C)
	}
	return int(highest) + 1
}
