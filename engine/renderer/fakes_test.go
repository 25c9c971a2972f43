package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

var errFakeRejected = errors.New("pixel format rejected")

// fakeWindow records every mutation instead of talking to a window system.
type fakeWindow struct {
	attrs  window.Attributes
	border [4]int

	closed     bool
	grabbed    bool
	minimized  bool
	maximized  bool
	fullscreen bool
	exclusive  bool
	current    int
	swaps      int

	// syncEvents fires the resize and move callbacks from inside the setters,
	// as Win32 does for SetWindowPos.
	syncEvents bool
	onResize   func(width, height int)
	onMove     func(x, y int)
}

var _ window.Window = &fakeWindow{}

func newFakeWindow(a window.Attributes) *fakeWindow {
	return &fakeWindow{attrs: a, fullscreen: a.Fullscreen}
}

func (w *fakeWindow) SetUpdateCallback(func()) {}
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetMoveCallback(cb func(x, y int)) { w.onMove = cb }
func (w *fakeWindow) SetFocusCallback(func(bool)) {}
func (w *fakeWindow) SetKeyDownCallback(func(uint32)) {}
func (w *fakeWindow) SetKeyUpCallback(func(uint32)) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Attributes() window.Attributes { return w.attrs }

func (w *fakeWindow) PixelFormatName() string {
	return fmt.Sprintf("FAKE_D%d_MS%d", w.attrs.DepthBits, w.attrs.MSAA)
}

func (w *fakeWindow) IsRunning() bool { return !w.closed }

func (w *fakeWindow) Close() error {
	if w.closed {
		return errors.New("already closed")
	}
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {}
func (w *fakeWindow) PollEvents() bool { return !w.closed }
func (w *fakeWindow) Width() int { return w.attrs.Width }
func (w *fakeWindow) Height() int { return w.attrs.Height }
func (w *fakeWindow) Title() string { return w.attrs.Title }
func (w *fakeWindow) SetTitle(title string) { w.attrs.Title = title }
func (w *fakeWindow) Position() (x, y int) { return w.attrs.X, w.attrs.Y }
func (w *fakeWindow) Size() (width, height int) { return w.attrs.Width, w.attrs.Height }

func (w *fakeWindow) SetPosition(x, y int) {
	w.attrs.X, w.attrs.Y = x, y
	if w.syncEvents && w.onMove != nil {
		w.onMove(x, y)
	}
}

func (w *fakeWindow) SetSize(width, height int) {
	w.attrs.Width, w.attrs.Height = width, height
	if w.syncEvents && w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *fakeWindow) BorderSize() (left, top, right, bottom int) {
	return w.border[0], w.border[1], w.border[2], w.border[3]
}

func (w *fakeWindow) SetBorderless(borderless bool) { w.attrs.Borderless = borderless }

func (w *fakeWindow) SetFullscreen(fullscreen, exclusive bool, rect common.Rect) {
	w.fullscreen, w.exclusive = fullscreen, exclusive
	if fullscreen {
		w.attrs.X, w.attrs.Y, w.attrs.Width, w.attrs.Height = rect.X, rect.Y, rect.W, rect.H
		if w.syncEvents && w.onResize != nil {
			w.onResize(rect.W, rect.H)
		}
	}
}

func (w *fakeWindow) SetInputGrab(grab bool) { w.grabbed = grab }
func (w *fakeWindow) InputGrabbed() bool { return w.grabbed }
func (w *fakeWindow) Minimized() bool { return w.minimized }
func (w *fakeWindow) Maximized() bool { return w.maximized }
func (w *fakeWindow) Minimize() { w.minimized, w.maximized = true, false }
func (w *fakeWindow) Maximize() { w.minimized, w.maximized = false, true }
func (w *fakeWindow) Restore() { w.minimized, w.maximized = false, false }
func (w *fakeWindow) Focused() bool { return true }
func (w *fakeWindow) MakeContextCurrent() { w.current++ }
func (w *fakeWindow) SwapBuffers() { w.swaps++ }

// fakePlatform creates fakeWindows, rejecting the attribute sets that accept refuses.
type fakePlatform struct {
	displays  []common.Rect
	colorBits int
	accept    func(a window.Attributes) bool

	attempts     []window.Attributes
	created      []*fakeWindow
	swapInterval int
	detached     int
}

var _ window.Platform = &fakePlatform{}

func newFakePlatform(displays ...common.Rect) *fakePlatform {
	if len(displays) == 0 {
		displays = []common.Rect{{W: 1920, H: 1080}}
	}
	return &fakePlatform{displays: displays, colorBits: 24}
}

func (p *fakePlatform) Init() error { return nil }
func (p *fakePlatform) Terminate() {}

func (p *fakePlatform) CreateWindow(options ...window.WindowBuilderOption) (window.Window, error) {
	a := window.BuildAttributes(options...)
	p.attempts = append(p.attempts, a)
	if p.accept != nil && !p.accept(a) {
		return nil, errFakeRejected
	}
	w := newFakeWindow(a)
	p.created = append(p.created, w)
	return w, nil
}

func (p *fakePlatform) Displays() []common.Rect { return p.displays }
func (p *fakePlatform) DesktopColorBits() int { return p.colorBits }
func (p *fakePlatform) DetachCurrentContext() { p.detached++ }
func (p *fakePlatform) SetSwapInterval(interval int) { p.swapInterval = interval }
func (p *fakePlatform) PollEvents() {}

// fakeContextFactory models a driver that creates contexts up to a maximum version per profile.
// A zero maximum means the profile is unavailable.
type fakeContextFactory struct {
	maxCore   caps.Version
	maxCompat caps.Version

	trials    int
	destroyed int
	mains     int
}

var _ contextFactory = &fakeContextFactory{}

func (f *fakeContextFactory) createContext(req contextRequest, trial bool) (window.Window, error) {
	limit := f.maxCompat
	if req.core {
		limit = f.maxCore
	}
	if limit.IsZero() || !limit.AtLeast(req.version) {
		return nil, fmt.Errorf("version %s unavailable", req.version)
	}
	if trial {
		f.trials++
	} else {
		f.mains++
	}
	return newFakeWindow(window.BuildAttributes(
		window.WithContextVersion(req.version.Major, req.version.Minor, req.core),
	)), nil
}

func (f *fakeContextFactory) destroyContext(ctx window.Window) {
	f.destroyed++
	_ = ctx.Close()
}

// contextVersion reports the profile maximum, as drivers hand out the newest compatible version.
func (f *fakeContextFactory) contextVersion(ctx window.Window) (caps.Version, bool, error) {
	a := ctx.Attributes()
	if a.CoreProfile {
		return f.maxCore, true, nil
	}
	return f.maxCompat, false, nil
}

// fakeDriver answers capability queries from fixed tables.
type fakeDriver struct {
	strings    map[DriverString]string
	extensions []string
	ints       map[DriverParam]int
	floats     map[DriverParam]float32
	depthOK    map[int]bool
	compileErr error
	formats    []uint32
	debugTool  bool

	compiled int
}

var _ Driver = &fakeDriver{}

func newFakeDriver(extra ...string) *fakeDriver {
	return &fakeDriver{
		strings: map[DriverString]string{
			StringVendor:                 "NVIDIA Corporation",
			StringRenderer:               "NVIDIA GeForce RTX 3080/PCIe/SSE2",
			StringVersion:                "4.6.0 NVIDIA 535.54.03",
			StringShadingLanguageVersion: "4.60 NVIDIA",
		},
		extensions: append([]string{
			"GL_ARB_multitexture",
			"GL_ARB_texture_env_combine",
			"GL_ARB_texture_compression",
			"GL_ARB_vertex_shader",
			"GL_ARB_fragment_shader",
		}, extra...),
		ints: map[DriverParam]int{
			ParamMaxTextureSize:               16384,
			ParamMaxTextureImageUnits:         32,
			ParamMaxCombinedTextureImageUnits: 192,
			ParamMaxVaryingFloats:             124,
			ParamMaxVertexAttribs:             16,
			ParamMaxDrawBuffers:               8,
		},
		floats:  map[DriverParam]float32{},
		depthOK: map[int]bool{16: true, 24: true, 32: true},
	}
}

func (d *fakeDriver) String(name DriverString) string { return d.strings[name] }
func (d *fakeDriver) Extensions() []string { return d.extensions }
func (d *fakeDriver) Integer(param DriverParam) int { return d.ints[param] }
func (d *fakeDriver) Float(param DriverParam) float32 { return d.floats[param] }
func (d *fakeDriver) TestDepthFormat(bits int) bool { return d.depthOK[bits] }
func (d *fakeDriver) CompressedFormats() []uint32 { return d.formats }
func (d *fakeDriver) DebugToolAttached() bool { return d.debugTool }

func (d *fakeDriver) CompileTestProgram(vertexSrc, fragmentSrc string) error {
	d.compiled++
	return d.compileErr
}

// fakeTimerQueries stamps from a manual clock. Each slot becomes available after
// pendingPolls calls to Available.
type fakeTimerQueries struct {
	clock        uint64
	stamps       [2 * NumTimerQueries]uint64
	pendingPolls int
	polls        int
	deleted      int
}

var _ TimerQueries = &fakeTimerQueries{}

func (q *fakeTimerQueries) Stamp(slot int) { q.stamps[slot] = q.clock }

func (q *fakeTimerQueries) Available(slot int) bool {
	q.polls++
	return q.polls > q.pendingPolls
}

func (q *fakeTimerQueries) Result(slot int) uint64 { return q.stamps[slot] }
func (q *fakeTimerQueries) Delete() { q.deleted++ }

// fakeBackend drives the real window negotiator against a fakePlatform and reports fixed features.
type fakeBackend struct {
	platform *fakePlatform
	features caps.Features
	timers   TimerQueries
	probeErr error

	win          window.Window
	viewports    [][4]int
	presents     int
	clears       int
	swapInterval int
	current      int
	released     int
	updates      int
	debug        []bool
	destroyed    int
}

var _ RendererBackend = &fakeBackend{}

func (b *fakeBackend) Type() RendererBackendType { return BackendTypeModernGL }

func (b *fakeBackend) CreateWindow(req windowRequest) (window.Window, caps.ContextInfo, error) {
	req.api = window.APIOpenGL
	win, msaa, depth, err := negotiateWindow(b.platform, req)
	if err != nil {
		return nil, caps.ContextInfo{}, err
	}
	b.win = win
	return win, caps.ContextInfo{
		Requested: caps.Version{Major: 3},
		Actual:    caps.Version{Major: 4, Minor: 6},
		MSAALevel: msaa,
		DepthBits: depth,
	}, nil
}

func (b *fakeBackend) ProbeCapabilities(reg *caps.Registry, ctx caps.ContextInfo) error {
	if b.probeErr != nil {
		return b.probeErr
	}
	reg.Update(func(c *caps.Capabilities) {
		c.Identity.Renderer = "fake renderer"
		c.Context = ctx
		c.Features = b.features
	})
	return nil
}

func (b *fakeBackend) TimerQueries() TimerQueries { return b.timers }
func (b *fakeBackend) MakeCurrent() { b.current++ }
func (b *fakeBackend) ReleaseCurrent() { b.released++ }
func (b *fakeBackend) UpdateWindow() { b.updates++ }
func (b *fakeBackend) SetSwapInterval(interval int) {
	b.swapInterval = interval
}

func (b *fakeBackend) Viewport(x, y, width, height int) {
	b.viewports = append(b.viewports, [4]int{x, y, width, height})
}

func (b *fakeBackend) Present(clearErrors bool) {
	b.presents++
	if clearErrors {
		b.clears++
	}
}

func (b *fakeBackend) SetDebugOutput(enable bool, filter debugFilter, stacktraces bool) error {
	b.debug = append(b.debug, enable)
	return nil
}

func (b *fakeBackend) DestroyWindow() {
	b.destroyed++
	if b.win != nil {
		_ = b.win.Close()
		b.win = nil
	}
}
