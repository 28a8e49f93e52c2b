// Package endian reads and writes fixed-width integers from byte slices in
// either little- or big-endian order.
package endian

// Endian identifies the byte order used to interpret a multi-byte field.
type Endian byte

const (
	Little Endian = iota
	Big
)

// String returns a short human-readable label, used by error messages and
// the ELF identifier pretty-printer.
func (e Endian) String() string {
	switch e {
	case Little:
		return "little-endian"
	case Big:
		return "big-endian"
	default:
		return "unknown-endian"
	}
}

// Uint16 decodes a 16-bit unsigned integer from the first 2 bytes of b.
func (e Endian) Uint16(b []byte) uint16 {
	_ = b[1]
	if e == Big {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

// PutUint16 encodes v into the first 2 bytes of b.
func (e Endian) PutUint16(b []byte, v uint16) {
	_ = b[1]
	if e == Big {
		b[0] = byte(v >> 8)
		b[1] = byte(v)
		return
	}
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// Uint32 decodes a 32-bit unsigned integer from the first 4 bytes of b.
func (e Endian) Uint32(b []byte) uint32 {
	_ = b[3]
	if e == Big {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// PutUint32 encodes v into the first 4 bytes of b.
func (e Endian) PutUint32(b []byte, v uint32) {
	_ = b[3]
	if e == Big {
		b[0] = byte(v >> 24)
		b[1] = byte(v >> 16)
		b[2] = byte(v >> 8)
		b[3] = byte(v)
		return
	}
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Uint64 decodes a 64-bit unsigned integer from the first 8 bytes of b.
func (e Endian) Uint64(b []byte) uint64 {
	_ = b[7]
	if e == Big {
		return uint64(e.Uint32(b))<<32 | uint64(e.Uint32(b[4:]))
	}
	return uint64(e.Uint32(b)) | uint64(e.Uint32(b[4:]))<<32
}

// PutUint64 encodes v into the first 8 bytes of b.
func (e Endian) PutUint64(b []byte, v uint64) {
	_ = b[7]
	if e == Big {
		e.PutUint32(b, uint32(v>>32))
		e.PutUint32(b[4:], uint32(v))
		return
	}
	e.PutUint32(b, uint32(v))
	e.PutUint32(b[4:], uint32(v>>32))
}

// Uint128 decodes a 128-bit unsigned integer (as hi, lo words) from the
// first 16 bytes of b.
func (e Endian) Uint128(b []byte) (hi, lo uint64) {
	_ = b[15]
	if e == Big {
		return e.Uint64(b), e.Uint64(b[8:])
	}
	return e.Uint64(b[8:]), e.Uint64(b)
}

// PutUint128 encodes hi, lo into the first 16 bytes of b.
func (e Endian) PutUint128(b []byte, hi, lo uint64) {
	_ = b[15]
	if e == Big {
		e.PutUint64(b, hi)
		e.PutUint64(b[8:], lo)
		return
	}
	e.PutUint64(b[8:], hi)
	e.PutUint64(b, lo)
}

// FromByte maps a raw ELF ei_data byte ({1: LE, 2: BE}) to an Endian. ok is
// false for any other value.
func FromByte(b byte) (e Endian, ok bool) {
	switch b {
	case 1:
		return Little, true
	case 2:
		return Big, true
	default:
		return 0, false
	}
}
