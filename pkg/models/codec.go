package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Store file layout: a sequence of records, each a little-endian uint32
// byte length followed by one encoded mesh:
//
//	id        uint16 length + bytes
//	vertices  uint32 rows, uint32 cols (3), rows*cols float64
//	faces     uint32 rows, then per face uint32 arity + arity int64
//	color     3 bytes
//	flags     1 byte (bit 0 ka, bit 1 kd, bit 2 ks present)
//	ka kd ks  3 float32

// ErrCorruptStore reports a store stream that cannot be decoded.
var ErrCorruptStore = errors.New("corrupt mesh store")

const (
	flagKa = 1 << iota
	flagKd
	flagKs
)

// maxRecordSize bounds a single record so a corrupt length prefix cannot
// trigger a huge allocation.
const maxRecordSize = 1 << 30

var le = binary.LittleEndian

// WriteTo writes every mesh, in key order, to w.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, k := range s.Keys() {
		rec, err := encodeMesh(s.meshes[k])
		if err != nil {
			return total, err
		}
		var prefix [4]byte
		le.PutUint32(prefix[:], uint32(len(rec)))
		n, err := w.Write(prefix[:])
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = w.Write(rec)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom replaces the store's contents with the meshes read from r. On
// error the store is left unchanged.
func (s *Store) ReadFrom(r io.Reader) (int64, error) {
	meshes := make(map[string]*Mesh)
	var total int64
	for {
		var prefix [4]byte
		n, err := io.ReadFull(r, prefix[:])
		total += int64(n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("%w: record length: %v", ErrCorruptStore, err)
		}

		size := le.Uint32(prefix[:])
		if size > maxRecordSize {
			return total, fmt.Errorf("%w: record of %d bytes", ErrCorruptStore, size)
		}
		rec := make([]byte, size)
		n, err = io.ReadFull(r, rec)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("%w: record body: %v", ErrCorruptStore, err)
		}

		m, err := decodeMesh(rec)
		if err != nil {
			return total, err
		}
		meshes[m.ID] = m
	}
	s.meshes = meshes
	return total, nil
}

func encodeMesh(m *Mesh) ([]byte, error) {
	if len(m.ID) > math.MaxUint16 {
		return nil, fmt.Errorf("mesh id of %d bytes is too long", len(m.ID))
	}

	b := make([]byte, 0, 64+len(m.Vertices)*24+len(m.Faces)*28)
	b = le.AppendUint16(b, uint16(len(m.ID)))
	b = append(b, m.ID...)

	b = le.AppendUint32(b, uint32(len(m.Vertices)))
	b = le.AppendUint32(b, 3)
	for _, v := range m.Vertices {
		b = le.AppendUint64(b, math.Float64bits(v.X))
		b = le.AppendUint64(b, math.Float64bits(v.Y))
		b = le.AppendUint64(b, math.Float64bits(v.Z))
	}

	b = le.AppendUint32(b, uint32(len(m.Faces)))
	for _, f := range m.Faces {
		b = le.AppendUint32(b, uint32(len(f)))
		for _, idx := range f {
			b = le.AppendUint64(b, uint64(int64(idx)))
		}
	}

	b = append(b, m.Color[0], m.Color[1], m.Color[2])

	var flags byte
	var coefs [3]float32
	for i, c := range []*float64{m.Ka, m.Kd, m.Ks} {
		if c != nil {
			flags |= 1 << i
			coefs[i] = float32(*c)
		}
	}
	b = append(b, flags)
	for _, c := range coefs {
		b = le.AppendUint32(b, math.Float32bits(c))
	}
	return b, nil
}

// decoder reads fixed-width values from a record, remembering the first
// short read.
type decoder struct {
	buf []byte
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.buf) {
		d.err = fmt.Errorf("%w: record truncated", ErrCorruptStore)
		return nil
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out
}

func (d *decoder) u16() uint16 {
	if b := d.take(2); b != nil {
		return le.Uint16(b)
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return le.Uint32(b)
	}
	return 0
}

func (d *decoder) u64() uint64 {
	if b := d.take(8); b != nil {
		return le.Uint64(b)
	}
	return 0
}

func (d *decoder) u8() byte {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func decodeMesh(rec []byte) (*Mesh, error) {
	d := &decoder{buf: rec}

	id := string(d.take(int(d.u16())))

	rows, cols := int(d.u32()), int(d.u32())
	if d.err == nil && cols != 3 {
		return nil, fmt.Errorf("%w: mesh %q has %d vertex columns", ErrCorruptStore, id, cols)
	}
	if d.err == nil && rows*24 > len(d.buf) {
		return nil, fmt.Errorf("%w: mesh %q vertex data truncated", ErrCorruptStore, id)
	}
	vertices := make([]math3d.Vec3, 0, rows)
	for range rows {
		x := math.Float64frombits(d.u64())
		y := math.Float64frombits(d.u64())
		z := math.Float64frombits(d.u64())
		vertices = append(vertices, math3d.V3(x, y, z))
	}

	nfaces := int(d.u32())
	if d.err == nil && nfaces*4 > len(d.buf) {
		return nil, fmt.Errorf("%w: mesh %q face data truncated", ErrCorruptStore, id)
	}
	faces := make([][]int, 0, nfaces)
	for range nfaces {
		arity := int(d.u32())
		if d.err == nil && arity*8 > len(d.buf) {
			return nil, fmt.Errorf("%w: mesh %q face data truncated", ErrCorruptStore, id)
		}
		f := make([]int, arity)
		for j := range f {
			f[j] = int(int64(d.u64()))
		}
		faces = append(faces, f)
	}

	color := RGB{d.u8(), d.u8(), d.u8()}
	flags := d.u8()
	var coefs [3]float64
	for i := range coefs {
		coefs[i] = float64(math.Float32frombits(d.u32()))
	}
	if d.err != nil {
		return nil, d.err
	}

	m := NewMesh(id, vertices, faces, color)
	if flags&flagKa != 0 {
		m.Ka = Coef(coefs[0])
	}
	if flags&flagKd != 0 {
		m.Kd = Coef(coefs[1])
	}
	if flags&flagKs != 0 {
		m.Ks = Coef(coefs[2])
	}
	return m, nil
}
