package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/stretchr/testify/assert"
)

func newGeometry(x, y, w, h int, dual, left bool, displays []common.Rect) *Geometry {
	g := &Geometry{
		WinPos:        common.Int2{X: x, Y: y},
		WinSize:       common.Int2{X: w, Y: h},
		DualScreen:    dual,
		MiniMapOnLeft: left,
	}
	g.SetScreenBounds(displays)
	return g
}

func TestRecomputeViewGeometrySingleScreen(t *testing.T) {
	displays := []common.Rect{{W: 1920, H: 1080}}
	g := newGeometry(0, 0, 1280, 720, false, false, displays)
	g.RecomputeViewGeometry(displays)

	assert.Equal(t, common.Rect{W: 1280, H: 720}, g.MainView())
	assert.True(t, g.DualView().Empty())
	assert.InDelta(t, 1.0/1280, g.PixelX, 1e-9)
	assert.InDelta(t, 1.0/720, g.PixelY, 1e-9)
	assert.InDelta(t, 1280.0/720, g.Aspect, 1e-6)
}

func TestRecomputeViewGeometryDualOneDisplay(t *testing.T) {
	displays := []common.Rect{{W: 1920, H: 1080}}

	g := newGeometry(0, 0, 1920, 1080, true, false, displays)
	g.RecomputeViewGeometry(displays)
	assert.Equal(t, common.Rect{X: 0, Y: 0, W: 960, H: 1080}, g.MainView())
	assert.Equal(t, common.Rect{X: 960, Y: 0, W: 960, H: 1080}, g.DualView())

	g = newGeometry(0, 0, 1920, 1080, true, true, displays)
	g.RecomputeViewGeometry(displays)
	assert.Equal(t, common.Rect{X: 960, Y: 0, W: 960, H: 1080}, g.MainView())
	assert.Equal(t, common.Rect{X: 0, Y: 0, W: 960, H: 1080}, g.DualView())
}

func TestRecomputeViewGeometryDualFullscreenIgnoresDisplays(t *testing.T) {
	displays := []common.Rect{{W: 1920, H: 1080}, {X: 1920, W: 1920, H: 1080}}
	g := newGeometry(0, 0, 3840, 1080, true, false, displays)
	g.Fullscreen = true
	g.RecomputeViewGeometry(displays)

	assert.Equal(t, common.Rect{W: 1920, H: 1080}, g.MainView())
	assert.Equal(t, common.Rect{X: 1920, W: 1920, H: 1080}, g.DualView())
}

func TestRecomputeViewGeometryDualAcrossDisplays(t *testing.T) {
	// a 1920x1080 main display with a shorter 1280x1024 display to its right
	displays := []common.Rect{{W: 1920, H: 1080}, {X: 1920, W: 1280, H: 1024}}
	g := newGeometry(0, 0, 3200, 1080, true, false, displays)
	g.RecomputeViewGeometry(displays)

	assert.Equal(t, common.Rect{X: 0, Y: 0, W: 1920, H: 1080}, g.MainView())
	assert.Equal(t, common.Rect{X: 1920, Y: 56, W: 1280, H: 1024}, g.DualView())

	g.MiniMapOnLeft = true
	g.RecomputeViewGeometry(displays)
	assert.Equal(t, common.Rect{X: 1920, Y: 56, W: 1280, H: 1024}, g.MainView())
	assert.Equal(t, common.Rect{X: 0, Y: 0, W: 1920, H: 1080}, g.DualView())
}

func TestRecomputeViewGeometryDualWindowOnOneDisplay(t *testing.T) {
	displays := []common.Rect{{W: 1920, H: 1080}, {X: 1920, W: 1920, H: 1080}}
	g := newGeometry(2000, 100, 1600, 900, true, false, displays)
	g.RecomputeViewGeometry(displays)

	assert.Equal(t, common.Rect{X: 0, Y: 0, W: 800, H: 900}, g.MainView())
	assert.Equal(t, common.Rect{X: 800, Y: 0, W: 800, H: 900}, g.DualView())
}

func TestRecomputeViewGeometryIsIdempotent(t *testing.T) {
	displays := []common.Rect{{W: 1920, H: 1080}, {X: 1920, W: 1280, H: 1024}}
	for _, left := range []bool{false, true} {
		g := newGeometry(100, 0, 3000, 1000, true, left, displays)
		g.RecomputeViewGeometry(displays)
		first := *g
		g.RecomputeViewGeometry(displays)
		assert.Equal(t, first, *g)
	}
}

func TestRecomputeScreenMatrices(t *testing.T) {
	displays := []common.Rect{{W: 1920, H: 1080}}
	g := newGeometry(0, 0, 1920, 1080, false, false, displays)
	g.RecomputeViewGeometry(displays)
	g.RecomputeScreenMatrices(false)

	zplane := float32(eyeDistanceMeters * (1920 / screenWidthMeters))

	// a full-screen viewport centers the frustum
	assert.InDelta(t, -960, g.ScreenViewMatrix.At(0, 3), 1e-3)
	assert.InDelta(t, -540, g.ScreenViewMatrix.At(1, 3), 1e-3)
	assert.InDelta(t, -zplane, g.ScreenViewMatrix.At(2, 3), 1e-2)
	assert.InDelta(t, 0, g.ScreenProjMatrix.At(0, 2), 1e-6)

	g.RecomputeScreenMatrices(true)
	clip := g.ScreenProjMatrix
	g.RecomputeScreenMatrices(false)
	assert.NotEqual(t, clip, g.ScreenProjMatrix, "clip control changes the depth mapping")
}

func TestBoundWindowPosSize(t *testing.T) {
	screen := common.Rect{W: 1920, H: 1080}

	assert.Equal(t, common.Rect{X: 100, Y: 32, W: 1280, H: 720},
		boundWindowPosSize(screen, common.Rect{X: 100, Y: 32, W: 1280, H: 720}, false))

	assert.Equal(t, common.Rect{X: 0, Y: 0, W: 400, H: 400},
		boundWindowPosSize(screen, common.Rect{X: -50, Y: -10, W: 100, H: 50}, false), "windowed minimum")

	assert.Equal(t, common.Rect{X: 1520, Y: 680, W: 400, H: 400},
		boundWindowPosSize(screen, common.Rect{X: 5000, Y: 5000, W: 800, H: 600}, false), "kept on screen")

	assert.Equal(t, common.Rect{X: 1000, Y: 500, W: 920, H: 580},
		boundWindowPosSize(screen, common.Rect{X: 1000, Y: 500, W: 4000, H: 4000}, false), "clipped to the remaining extent")

	assert.Equal(t, common.Rect{W: 1920, H: 1080},
		boundWindowPosSize(screen, common.Rect{W: 1920, H: 1080}, true))
}
