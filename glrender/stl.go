package glrender

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/soypat/geometry/ms3"
)

const (
	stlHeaderSize = 80
	stlTriSize    = 50
)

// WriteBinarySTL writes model to w in binary STL format. Facet normals are
// computed from the vertex winding.
func WriteBinarySTL(w io.Writer, model []ms3.Triangle) error {
	if uint64(len(model)) > math.MaxUint32 {
		return errors.New("too many triangles for STL")
	}
	bw := bufio.NewWriter(w)
	var header [stlHeaderSize + 4]byte
	copy(header[:], "binary STL")
	binary.LittleEndian.PutUint32(header[stlHeaderSize:], uint32(len(model)))
	_, err := bw.Write(header[:])
	if err != nil {
		return err
	}
	var buf [stlTriSize]byte
	for _, t := range model {
		n := normal(t)
		putVec(buf[0:], n)
		putVec(buf[12:], t[0])
		putVec(buf[24:], t[1])
		putVec(buf[36:], t[2])
		// Attribute byte count left zeroed.
		_, err = bw.Write(buf[:])
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

// normal returns the unit normal of t following the right hand rule,
// or the zero vector for degenerate triangles.
func normal(t ms3.Triangle) ms3.Vec {
	n := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
	if n == (ms3.Vec{}) {
		return n
	}
	return ms3.Unit(n)
}
