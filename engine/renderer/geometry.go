package renderer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// screenWidthMeters and eyeDistanceMeters model a physical monitor for the screen-space frustum.
	screenWidthMeters = 0.36
	eyeDistanceMeters = 0.60

	// minWindowRes is the smallest windowed client size in either dimension.
	minWindowRes = 400
)

// Geometry holds the screen, window, and viewport layout of the main window.
// Positions are in desktop pixels except viewport Y values, which use a bottom-left origin.
type Geometry struct {
	// ScreenPos and ScreenSize bound the union of all displays.
	ScreenPos  common.Int2
	ScreenSize common.Int2

	WinPos  common.Int2
	WinSize common.Int2

	// WinBorder holds the decoration insets: left, top, right, bottom.
	WinBorder [4]int

	ViewPos  common.Int2
	ViewSize common.Int2

	DualViewPos  common.Int2
	DualViewSize common.Int2

	// ViewWindowOffsetY and DualWindowOffsetY are the top-left-origin Y offsets of each view
	// inside the window.
	ViewWindowOffsetY int
	DualWindowOffsetY int

	PixelX float32
	PixelY float32
	Aspect float32

	Fullscreen    bool
	DualScreen    bool
	MiniMapOnLeft bool

	ScreenViewMatrix mgl32.Mat4
	ScreenProjMatrix mgl32.Mat4
}

// MainView returns the main viewport as a rectangle with a bottom-left-origin Y.
func (g *Geometry) MainView() common.Rect {
	return common.Rect{X: g.ViewPos.X, Y: g.ViewPos.Y, W: g.ViewSize.X, H: g.ViewSize.Y}
}

// DualView returns the secondary viewport, which is empty outside dual-screen mode.
func (g *Geometry) DualView() common.Rect {
	return common.Rect{X: g.DualViewPos.X, Y: g.DualViewPos.Y, W: g.DualViewSize.X, H: g.DualViewSize.Y}
}

// SetScreenBounds sets the screen bounds to the union of displays.
func (g *Geometry) SetScreenBounds(displays []common.Rect) {
	var u common.Rect
	for _, d := range displays {
		u = u.Union(d)
	}
	g.ScreenPos = common.Int2{X: u.X, Y: u.Y}
	g.ScreenSize = common.Int2{X: u.W, Y: u.H}
}

// RecomputeViewGeometry derives the main and dual viewports from the window rectangle.
// With dual-screen mode on and the window spanning several displays, the views follow
// display boundaries; otherwise the window is split in half.
// Calling it repeatedly with the same inputs yields the same result.
//
// Parameters:
//   - displays: the desktop rectangle of each display
func (g *Geometry) RecomputeViewGeometry(displays []common.Rect) {
	winSizeX, winSizeY := g.WinSize.X, g.WinSize.Y

	g.ViewWindowOffsetY = 0
	g.DualWindowOffsetY = 0

	switch {
	case !g.DualScreen:
		g.ViewPos = common.Int2{}
		g.ViewSize = common.Int2{X: winSizeX, Y: winSizeY}
		g.DualViewPos = common.Int2{}
		g.DualViewSize = common.Int2{}

	case len(displays) <= 1 || g.Fullscreen:
		g.splitHalf(common.Rect{W: winSizeX, H: winSizeY})

	default:
		g.splitDisplays(displays)
	}

	g.ViewPos.Y = winSizeY - (g.ViewSize.Y + g.ViewWindowOffsetY)
	if g.DualScreen {
		g.DualViewPos.Y = winSizeY - (g.DualViewSize.Y + g.DualWindowOffsetY)
	}

	g.PixelX = 1.0 / math32.Max(1, float32(g.ViewSize.X))
	g.PixelY = 1.0 / math32.Max(1, float32(g.ViewSize.Y))
	g.Aspect = float32(g.ViewSize.X) / math32.Max(1, float32(g.ViewSize.Y))
}

// splitHalf divides area into two equal halves, placing the main view on the side
// opposite the minimap.
func (g *Geometry) splitHalf(area common.Rect) {
	half := area.W >> 1
	left := common.BoolToInt(g.MiniMapOnLeft)

	g.ViewPos.X = area.X + half*left
	g.DualViewPos.X = area.X + half - half*left
	g.ViewSize = common.Int2{X: half, Y: area.H}
	g.DualViewSize = common.Int2{X: half, Y: area.H}
	g.ViewWindowOffsetY = area.Y
	g.DualWindowOffsetY = area.Y
}

// splitDisplays assigns one display-covered part of the window to the minimap view and
// the span of the remaining displays to the main view.
func (g *Geometry) splitDisplays(displays []common.Rect) {
	win := common.Rect{X: g.WinPos.X, Y: g.WinPos.Y, W: g.WinSize.X, H: g.WinSize.Y}

	parts := make([]common.Rect, 0, len(displays))
	for _, d := range displays {
		r := win.Intersect(d)
		if r.Empty() {
			continue
		}
		parts = append(parts, r.Translate(-win.X, -win.Y))
	}
	slices.SortFunc(parts, func(a, b common.Rect) int {
		return a.X - b.X
	})

	switch len(parts) {
	case 0:
		g.splitHalf(common.Rect{W: win.W, H: win.H})
		return
	case 1:
		g.splitHalf(parts[0])
		return
	}

	var dual common.Rect
	var rest []common.Rect
	if g.MiniMapOnLeft {
		dual, rest = parts[0], parts[1:]
	} else {
		dual, rest = parts[len(parts)-1], parts[:len(parts)-1]
	}

	first, last := rest[0], rest[len(rest)-1]
	g.ViewPos.X = first.X
	g.ViewSize = common.Int2{X: last.Right() - first.X, Y: first.H}
	g.ViewWindowOffsetY = first.Y

	g.DualViewPos.X = dual.X
	g.DualViewSize = common.Int2{X: dual.W, Y: dual.H}
	g.DualWindowOffsetY = dual.Y
}

// RecomputeScreenMatrices builds the screen-space view and projection matrices.
// The frustum models an eye 0.60m from a 0.36m wide screen, so a pixel at the
// zero-parallax plane maps one-to-one onto the main viewport.
//
// Parameters:
//   - clipControl: true when the driver maps depth to [0, 1]
func (g *Geometry) RecomputeScreenMatrices(clipControl bool) {
	ssx := float32(g.ScreenSize.X)
	ssy := float32(g.ScreenSize.Y)
	vsx := float32(g.ViewSize.X)
	vsy := float32(g.ViewSize.Y)

	zplane := eyeDistanceMeters * (ssx / screenWidthMeters)
	znear := zplane * 0.5
	zfar := zplane * 2.0
	const zfact = 0.5

	vpx := float32(g.ViewPos.X + g.WinPos.X)
	vpy := float32(g.ViewPos.Y + (g.ScreenSize.Y - g.WinSize.Y - g.WinPos.Y))

	left := (vpx - ssx*0.5) * zfact
	right := ((vpx + vsx) - ssx*0.5) * zfact
	bottom := (vpy - ssy*0.5) * zfact
	top := ((vpy + vsy) - ssy*0.5) * zfact

	g.ScreenViewMatrix = mgl32.Translate3D(left/zfact, bottom/zfact, -zplane)
	g.ScreenProjMatrix = common.ClipPerspProj(left, right, bottom, top, znear, zfar, clipControl)
}

// boundWindowPosSize clamps a window rectangle into the display union.
// Windowed sizes never drop below minWindowRes.
//
// Parameters:
//   - screen: the union of all displays
//   - rect: the requested window position and size
//   - fullscreen: true when the window covers a display
//
// Returns:
//   - common.Rect: the bounded window rectangle
func boundWindowPosSize(screen, rect common.Rect, fullscreen bool) common.Rect {
	minSize := minWindowRes
	if fullscreen {
		minSize = 1
	}

	x := common.Clamp(rect.X, screen.X, screen.Right()-minSize)
	y := common.Clamp(rect.Y, screen.Y, screen.Bottom()-minSize)
	w := common.Clamp(rect.W, minSize, max(minSize, screen.Right()-x))
	h := common.Clamp(rect.H, minSize, max(minSize, screen.Bottom()-y))
	return common.Rect{X: x, Y: y, W: w, H: h}
}
