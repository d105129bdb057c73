//go:build manifold

// Package manifold is a cgo geometry kernel backed by the Manifold library
// (https://github.com/elalish/manifold). Its booleans are exact, so wall
// meshes come out with sharp corners and a handful of triangles per face
// instead of a marching cubes surface.
//
// Requires libmanifoldc under /usr/local. Build with -tags=manifold.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/mortar/pkg/kernel"
)

// Available reports whether this binary was built with the Manifold kernel.
const Available = true

// ErrUnavailable is returned by New in builds without the manifold tag.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

var (
	_ kernel.Kernel = (*Kernel)(nil)
	_ kernel.Solid  = (*solid)(nil)
)

type solid struct {
	ptr *C.ManifoldManifold
}

func (s *solid) BoundingBox() (lo, hi [3]float64) {
	bbox := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(bbox)

	lo = [3]float64{
		float64(C.manifold_box_min_x(bbox)),
		float64(C.manifold_box_min_y(bbox)),
		float64(C.manifold_box_min_z(bbox)),
	}
	hi = [3]float64{
		float64(C.manifold_box_max_x(bbox)),
		float64(C.manifold_box_max_y(bbox)),
		float64(C.manifold_box_max_z(bbox)),
	}
	return lo, hi
}

// wrap takes ownership of ptr; the C object is freed by the finalizer.
func wrap(ptr *C.ManifoldManifold) *solid {
	s := &solid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *solid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// Kernel implements kernel.Kernel on Manifold.
type Kernel struct{}

// New returns a Manifold kernel.
func New() (kernel.Kernel, error) {
	return &Kernel{}, nil
}

// Box returns a box with its minimum corner at the origin.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return wrap(C.manifold_cube(C.manifold_alloc_manifold(),
		C.double(x), C.double(y), C.double(z), C.int(0)))
}

func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_union(C.manifold_alloc_manifold(), a.(*solid).ptr, b.(*solid).ptr))
}

func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_difference(C.manifold_alloc_manifold(), a.(*solid).ptr, b.(*solid).ptr))
}

func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_intersection(C.manifold_alloc_manifold(), a.(*solid).ptr, b.(*solid).ptr))
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(C.manifold_translate(C.manifold_alloc_manifold(), s.(*solid).ptr,
		C.double(x), C.double(y), C.double(z)))
}

// ToMesh reads the solid's MeshGL. Positions occupy the first three vertex
// properties; normals, when Manifold carries them, the next three.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), s.(*solid).ptr)
	defer C.manifold_delete_meshgl(gl)

	numVert := int(C.manifold_meshgl_num_vert(gl))
	numTri := int(C.manifold_meshgl_num_tri(gl))
	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}
	numProp := int(C.manifold_meshgl_num_prop(gl))

	props := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)
	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), gl)

	m := &kernel.Mesh{
		Vertices: make([]float32, numVert*3),
		Indices:  indices,
	}
	if numProp >= 6 {
		m.Normals = make([]float32, numVert*3)
	}
	for i := range numVert {
		base := i * numProp
		copy(m.Vertices[i*3:i*3+3], props[base:base+3])
		if m.Normals != nil {
			copy(m.Normals[i*3:i*3+3], props[base+3:base+6])
		}
	}
	if m.Normals == nil {
		m.Normals = vertexNormals(m.Vertices, indices)
	}

	if m.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count %d, want %d", m.VertexCount(), numVert)
	}
	return m, nil
}

// vertexNormals averages the face normals around each vertex.
func vertexNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float32, len(vertices))
	at := func(i uint32) (x, y, z float64) {
		return float64(vertices[i*3]), float64(vertices[i*3+1]), float64(vertices[i*3+2])
	}
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		ax, ay, az := at(i0)
		bx, by, bz := at(i1)
		cx, cy, cz := at(i2)
		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az
		n := [3]float32{
			float32(e1y*e2z - e1z*e2y),
			float32(e1z*e2x - e1x*e2z),
			float32(e1x*e2y - e1y*e2x),
		}
		for _, idx := range [3]uint32{i0, i1, i2} {
			normals[idx*3] += n[0]
			normals[idx*3+1] += n[1]
			normals[idx*3+2] += n[2]
		}
	}
	for v := 0; v+2 < len(normals); v += 3 {
		x, y, z := float64(normals[v]), float64(normals[v+1]), float64(normals[v+2])
		if l := math.Sqrt(x*x + y*y + z*z); l > 1e-12 {
			normals[v] = float32(x / l)
			normals[v+1] = float32(y / l)
			normals[v+2] = float32(z / l)
		}
	}
	return normals
}
