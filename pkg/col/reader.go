package col

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader is a bounds-checked cursor over the input buffer.
// Positions are absolute within buf. Callers reserve space with require
// before using the unchecked read helpers.
type reader struct {
	buf   []byte
	pos   int
	model int // offset of the model being decoded, for errors
	reach int // end of the furthest range passed by require
}

func newReader(buf []byte, model int) *reader {
	return &reader{buf: buf, pos: model, model: model, reach: model}
}

// remaining returns the bytes left after the cursor.
func (r *reader) remaining() int {
	if r.pos < 0 || r.pos > len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

// require checks that n bytes can be read at the cursor.
func (r *reader) require(n int, section string) error {
	if n < 0 || r.pos < 0 || r.pos > len(r.buf) || n > len(r.buf)-r.pos {
		return &DecodeError{
			Offset:  r.model,
			Section: section,
			Err: fmt.Errorf("%w: need %d bytes at offset %d, %d available",
				ErrTruncatedSection, n, r.pos, r.remaining()),
		}
	}
	r.reach = max(r.reach, r.pos+n)
	return nil
}

// requireArray checks that count records of size bytes each fit at the cursor.
func (r *reader) requireArray(count, size int, section string) error {
	if count < 0 || size <= 0 || count > math.MaxInt32/size {
		return &DecodeError{
			Offset:  r.model,
			Section: section,
			Err:     fmt.Errorf("%w: %d records of %d bytes", ErrTruncatedSection, count, size),
		}
	}
	return r.require(count*size, section)
}

// seek moves the cursor to an absolute position. No bounds check is made
// until the next require.
func (r *reader) seek(pos int) {
	r.pos = pos
}

func (r *reader) skip(n int) {
	r.pos += n
}

func (r *reader) u8() uint8 {
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *reader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *reader) vec3() Vector3 {
	return Vector3{r.f32(), r.f32(), r.f32()}
}

func (r *reader) bytes(n int) []byte {
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v
}

// fail wraps err as a decode error for the current model.
func (r *reader) fail(section string, err error) error {
	return &DecodeError{Offset: r.model, Section: section, Err: err}
}
