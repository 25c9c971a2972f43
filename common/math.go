package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for mapped buffer writes.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ClipPerspProj builds an off-center perspective frustum in column-major order.
// With clipControl set the depth range is mapped to [0, 1] (GL_ZERO_TO_ONE),
// otherwise the classic GL [-1, 1] range is produced.
//
// Parameters:
//   - left, right, bottom, top: frustum extents on the near plane
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//   - clipControl: true when the driver clip space uses zero-to-one depth
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func ClipPerspProj(left, right, bottom, top, near, far float32, clipControl bool) mgl32.Mat4 {
	m := mgl32.Frustum(left, right, bottom, top, near, far)
	if clipControl {
		m[10] = -far / (far - near)
		m[14] = -(far * near) / (far - near)
	}
	return m
}
