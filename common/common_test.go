package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 1920, H: 1080}
	b := Rect{X: 1000, Y: 500, W: 1920, H: 1080}

	assert.Equal(t, Rect{X: 1000, Y: 500, W: 920, H: 580}, a.Intersect(b))
	assert.True(t, a.Intersect(Rect{X: 1920, Y: 0, W: 10, H: 10}).Empty())
	assert.Equal(t, Rect{}, a.Intersect(Rect{X: -50, Y: -50, W: 10, H: 10}))
}

func TestRectUnion(t *testing.T) {
	left := Rect{X: 0, Y: 0, W: 1920, H: 1080}
	right := Rect{X: 1920, Y: 0, W: 2560, H: 1440}

	assert.Equal(t, Rect{X: 0, Y: 0, W: 4480, H: 1440}, left.Union(right))
	assert.Equal(t, right, Rect{}.Union(right))
	assert.Equal(t, left, left.Union(Rect{}))
}

func TestMakeEven(t *testing.T) {
	assert.Equal(t, 0, MakeEven(0))
	assert.Equal(t, 2, MakeEven(1))
	assert.Equal(t, 4, MakeEven(4))
	assert.Equal(t, 8, MakeEven(7))
}

func TestClampAndCoalesce(t *testing.T) {
	assert.Equal(t, 3, Clamp(1, 3, 4))
	assert.Equal(t, 4, Clamp(9, 3, 4))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestClipPerspProjDepthRange(t *testing.T) {
	const near, far = float32(10), float32(40)

	gl := ClipPerspProj(-1, 1, -1, 1, near, far, false)
	assert.InDelta(t, -(far+near)/(far-near), gl[10], 1e-6)
	assert.InDelta(t, -2*far*near/(far-near), gl[14], 1e-4)
	assert.Equal(t, float32(-1), gl[11])

	zo := ClipPerspProj(-1, 1, -1, 1, near, far, true)
	assert.InDelta(t, -far/(far-near), zo[10], 1e-6)
	assert.InDelta(t, -far*near/(far-near), zo[14], 1e-4)

	// a point on the near plane maps to NDC depth 0 under zero-to-one clipping
	z := zo[10]*-near + zo[14]
	w := zo[11] * -near
	assert.InDelta(t, 0, z/w, 1e-5)
}
