// Package glrender generates triangle meshes from text shapes and writes them out.
package glrender

import (
	"errors"
	"io"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/orbit/forge/textmesh"
)

// Renderer streams a triangle mesh. ReadTriangles returns io.EOF once the mesh is exhausted.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.RenderAll implementation.
func RenderAll(r Renderer, userData any) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf, userData)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// ExtrusionRenderer streams the extruded mesh of a set of shapes one shape at a time.
type ExtrusionRenderer struct {
	shapes   []textmesh.Shape
	settings textmesh.ExtrudeSettings
	next     int
	// pending holds triangles of the current shape not yet read from buf.
	pending []ms3.Triangle
	buf     []ms3.Triangle
	caps    [][3]ms2.Vec
}

// NewExtrusionRenderer returns a Renderer for the prism meshes of shapes extruded
// from z=0 to z=settings.Depth. Bevel settings are ignored.
func NewExtrusionRenderer(shapes []textmesh.Shape, settings textmesh.ExtrudeSettings) (*ExtrusionRenderer, error) {
	er := &ExtrusionRenderer{}
	err := er.Reset(shapes, settings)
	if err != nil {
		return nil, err
	}
	return er, nil
}

// Reset replaces the shapes and settings and rewinds the renderer, reusing its buffers.
func (er *ExtrusionRenderer) Reset(shapes []textmesh.Shape, settings textmesh.ExtrudeSettings) error {
	if settings.Depth < 0 {
		return errors.New("negative extrusion depth")
	} else if settings.CurveSegments < 1 {
		return errors.New("need at least one curve segment")
	}
	er.shapes = shapes
	er.settings = settings
	er.next = 0
	er.pending = nil
	return nil
}

func (er *ExtrusionRenderer) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	for n < len(dst) {
		if len(er.pending) == 0 {
			if er.next >= len(er.shapes) {
				return n, io.EOF // Done rendering model.
			}
			er.buf = er.extrudeShape(er.buf[:0], er.shapes[er.next])
			er.pending = er.buf
			er.next++
			continue
		}
		k := copy(dst[n:], er.pending)
		n += k
		er.pending = er.pending[k:]
	}
	return n, nil
}
