package ntp

import (
	"encoding/binary"
)

// Cursor is a read/write position over a byte slice owned by the caller.
// Every accessor advances the position by the width of the value. Running
// past the end of the slice panics.
type Cursor struct {
	b   []byte
	off int
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

func (c *Cursor) Offset() int { return c.off }

func (c *Cursor) Remaining() int { return len(c.b) - c.off }

func (c *Cursor) next(n int) []byte {
	s := c.b[c.off : c.off+n]
	c.off += n
	return s
}

func (c *Cursor) Uint8() uint8 {
	return c.next(1)[0]
}

func (c *Cursor) Int8() int8 {
	return int8(c.Uint8())
}

func (c *Cursor) Uint16() uint16 {
	return binary.BigEndian.Uint16(c.next(2))
}

func (c *Cursor) Uint32() uint32 {
	return binary.BigEndian.Uint32(c.next(4))
}

// Read copies len(dst) bytes into dst.
func (c *Cursor) Read(dst []byte) {
	copy(dst, c.next(len(dst)))
}

func (c *Cursor) PutUint8(v uint8) {
	c.next(1)[0] = v
}

func (c *Cursor) PutInt8(v int8) {
	c.PutUint8(uint8(v))
}

func (c *Cursor) PutUint16(v uint16) {
	binary.BigEndian.PutUint16(c.next(2), v)
}

func (c *Cursor) PutUint32(v uint32) {
	binary.BigEndian.PutUint32(c.next(4), v)
}

func (c *Cursor) Write(src []byte) {
	copy(c.next(len(src)), src)
}
