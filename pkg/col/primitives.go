package col

// readSurface reads the 4-byte surface word.
func readSurface(r *reader) Surface {
	return Surface{
		Material:   r.u8(),
		Flag:       r.u8(),
		Brightness: r.u8(),
		Light:      r.u8(),
	}
}

// decodeSpheres reads count sphere records at the cursor.
//
// COL1: radius(4) + center(12) + surface(4)
// COL2/3: center(12) + radius(4) + surface(4)
func decodeSpheres(r *reader, count int, lay *layout) ([]Sphere, error) {
	if count == 0 {
		return nil, nil
	}
	if err := r.requireArray(count, SphereSize, "spheres"); err != nil {
		return nil, err
	}

	spheres := make([]Sphere, count)
	for i := range spheres {
		s := &spheres[i]
		if lay.sphereRadiusFirst {
			s.Radius = r.f32()
			s.Center = r.vec3()
		} else {
			s.Center = r.vec3()
			s.Radius = r.f32()
		}
		s.Surface = readSurface(r)
	}
	return spheres, nil
}

// decodeBoxes reads count box records at the cursor.
//
// min(12) + max(12) + surface(4), plus a 32-bit flag word in COL1.
func decodeBoxes(r *reader, count int, lay *layout) ([]Box, error) {
	if count == 0 {
		return nil, nil
	}
	if err := r.requireArray(count, lay.boxSize, "boxes"); err != nil {
		return nil, err
	}

	boxes := make([]Box, count)
	for i := range boxes {
		b := &boxes[i]
		b.Min = r.vec3()
		b.Max = r.vec3()
		b.Surface = readSurface(r)
		if lay.boxFlags {
			b.Flags = r.u32()
		}
	}
	return boxes, nil
}
