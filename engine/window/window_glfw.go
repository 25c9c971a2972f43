package window

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwPlatform is the GLFW implementation of Platform.
type glfwPlatform struct {
	mu          sync.Mutex
	initialized bool
	windows     map[*glfwWindow]struct{}
}

var _ Platform = &glfwPlatform{}

// NewPlatform returns the GLFW windowing platform. Call Init before creating windows.
//
// Returns:
//   - Platform: the GLFW platform
func NewPlatform() Platform {
	return &glfwPlatform{
		windows: make(map[*glfwWindow]struct{}),
	}
}

func (p *glfwPlatform) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}

	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}
	p.initialized = true
	return nil
}

func (p *glfwPlatform) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	for gw := range p.windows {
		gw.destroy()
	}
	clear(p.windows)
	glfw.Terminate()
	p.initialized = false
}

func (p *glfwPlatform) CreateWindow(options ...WindowBuilderOption) (Window, error) {
	p.mu.Lock()
	initialized := p.initialized
	p.mu.Unlock()
	if !initialized {
		return nil, fmt.Errorf("GLFW is not initialized")
	}

	w := &engineWindow{attrs: BuildAttributes(options...)}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}

	gw := w.internalWindow.(*glfwWindow)
	gw.platform = p
	p.mu.Lock()
	p.windows[gw] = struct{}{}
	p.mu.Unlock()
	return w, nil
}

func (p *glfwPlatform) Displays() []common.Rect {
	monitors := glfw.GetMonitors()
	primary := glfw.GetPrimaryMonitor()

	displays := make([]common.Rect, 0, len(monitors))
	for _, m := range monitors {
		vm := m.GetVideoMode()
		if vm == nil {
			continue
		}
		x, y := m.GetPos()
		r := common.Rect{X: x, Y: y, W: vm.Width, H: vm.Height}
		if m == primary {
			displays = append([]common.Rect{r}, displays...)
			continue
		}
		displays = append(displays, r)
	}
	return displays
}

func (p *glfwPlatform) DesktopColorBits() int {
	m := glfw.GetPrimaryMonitor()
	if m == nil {
		return 0
	}
	vm := m.GetVideoMode()
	if vm == nil {
		return 0
	}
	return vm.RedBits + vm.GreenBits + vm.BlueBits
}

func (p *glfwPlatform) DetachCurrentContext() {
	glfw.DetachCurrentContext()
}

func (p *glfwPlatform) SetSwapInterval(interval int) {
	glfw.SwapInterval(interval)
}

func (p *glfwPlatform) PollEvents() {
	glfw.PollEvents()
}

func (p *glfwPlatform) forget(gw *glfwWindow) {
	p.mu.Lock()
	delete(p.windows, gw)
	p.mu.Unlock()
}

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent   *engineWindow
	platform *glfwPlatform
	window   *glfw.Window
	running  bool
	focused  bool
}

func (gw *glfwWindow) destroy() {
	if gw.window == nil {
		return
	}
	gw.running = false
	gw.window.Destroy()
	gw.window = nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func glfwLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// applyWindowHints translates Attributes into GLFW window and context hints.
//
// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints
func applyWindowHints(a Attributes) {
	glfw.DefaultWindowHints()

	glfw.WindowHint(glfw.Visible, glfwBool(!a.Hidden))
	glfw.WindowHint(glfw.Decorated, glfwBool(!a.Borderless))
	glfw.WindowHint(glfw.AutoIconify, glfwBool(a.MinimizeOnFocusLoss))
	glfw.WindowHint(glfw.Resizable, glfw.True)

	glfw.WindowHint(glfw.RedBits, 8)
	glfw.WindowHint(glfw.GreenBits, 8)
	glfw.WindowHint(glfw.BlueBits, 8)
	glfw.WindowHint(glfw.AlphaBits, 8)
	glfw.WindowHint(glfw.DepthBits, a.DepthBits)
	glfw.WindowHint(glfw.StencilBits, a.StencilBits)
	glfw.WindowHint(glfw.Samples, a.MSAA)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)

	if a.API == APINone {
		// WebGPU provides its own graphics API, so disable OpenGL context creation.
		// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
		return
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	if a.ContextMajor > 0 {
		glfw.WindowHint(glfw.ContextVersionMajor, a.ContextMajor)
		glfw.WindowHint(glfw.ContextVersionMinor, a.ContextMinor)
	}

	// Profiles only exist from 3.2 onwards; older requests must ask for any profile.
	switch {
	case a.ContextMajor*10+a.ContextMinor < 32:
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLAnyProfile)
	case a.CoreProfile:
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	default:
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	}
	glfw.WindowHint(glfw.OpenGLDebugContext, glfwBool(a.DebugContext))
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	a := w.attrs
	applyWindowHints(a)

	var monitor *glfw.Monitor
	width, height := a.Width, a.Height
	if a.Fullscreen {
		primary := glfw.GetPrimaryMonitor()
		if a.Borderless {
			if vm := primary.GetVideoMode(); vm != nil {
				width, height = vm.Width, vm.Height
			}
		} else {
			monitor = primary
		}
	}

	win, err := glfw.CreateWindow(width, height, a.Title, monitor, nil)
	if err != nil {
		return fmt.Errorf("failed to create GLFW window: %v", err)
	}

	if monitor == nil {
		if a.Fullscreen {
			x, y := glfw.GetPrimaryMonitor().GetPos()
			win.SetPos(x, y)
		} else {
			win.SetPos(a.X, a.Y)
		}
	}
	win.SetSizeLimits(glfwLimit(a.MinWidth), glfwLimit(a.MinHeight), glfwLimit(a.MaxWidth), glfwLimit(a.MaxHeight))

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
		focused: win.GetAttrib(glfw.Focused) == glfw.True,
	}
	w.internalWindow = gw

	// Register GLFW callbacks for input and window events.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		gw.focused = focused
		if w.onFocus != nil {
			w.onFocus(focused)
		}
	})

	win.SetPosCallback(func(_ *glfw.Window, x, y int) {
		if w.onMove != nil {
			w.onMove(x, y)
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

func glfwOf(w *engineWindow) *glfw.Window {
	if w.internalWindow == nil {
		return nil
	}
	return w.internalWindow.(*glfwWindow).window
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	win := glfwOf(w)
	if win == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(win)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && gw.window != nil && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and its context.
// Returns an error if the internal window has not been initialized.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	if gw.window == nil {
		return fmt.Errorf("window is already closed")
	}
	gw.destroy()
	if gw.platform != nil {
		gw.platform.forget(gw)
	}
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}

func platformSetTitle(w *engineWindow, title string) {
	if win := glfwOf(w); win != nil {
		win.SetTitle(title)
	}
}

func platformSetInputGrab(w *engineWindow, grab bool) {
	win := glfwOf(w)
	if win == nil {
		return
	}
	if grab {
		win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		return
	}
	win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func (w *engineWindow) Position() (x, y int) {
	if win := glfwOf(w); win != nil {
		return win.GetPos()
	}
	return w.attrs.X, w.attrs.Y
}

func (w *engineWindow) SetPosition(x, y int) {
	w.attrs.X, w.attrs.Y = x, y
	if win := glfwOf(w); win != nil {
		win.SetPos(x, y)
	}
}

func (w *engineWindow) Size() (width, height int) {
	if win := glfwOf(w); win != nil {
		return win.GetSize()
	}
	return w.attrs.Width, w.attrs.Height
}

func (w *engineWindow) SetSize(width, height int) {
	w.attrs.Width, w.attrs.Height = width, height
	if win := glfwOf(w); win != nil {
		win.SetSize(width, height)
	}
}

func (w *engineWindow) BorderSize() (left, top, right, bottom int) {
	if win := glfwOf(w); win != nil {
		return win.GetFrameSize()
	}
	return 0, 0, 0, 0
}

func (w *engineWindow) SetBorderless(borderless bool) {
	w.attrs.Borderless = borderless
	if win := glfwOf(w); win != nil {
		win.SetAttrib(glfw.Decorated, glfwBool(!borderless))
	}
}

func (w *engineWindow) SetFullscreen(fullscreen, exclusive bool, rect common.Rect) {
	win := glfwOf(w)
	if win == nil {
		return
	}
	w.attrs.Fullscreen = fullscreen

	if !fullscreen || !exclusive {
		// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_windowed_full_screen
		win.SetMonitor(nil, rect.X, rect.Y, rect.W, rect.H, glfw.DontCare)
		win.SetAttrib(glfw.Decorated, glfwBool(!fullscreen && !w.attrs.Borderless))
		return
	}

	primary := glfw.GetPrimaryMonitor()
	refresh := glfw.DontCare
	if vm := primary.GetVideoMode(); vm != nil {
		refresh = vm.RefreshRate
	}
	win.SetMonitor(primary, 0, 0, rect.W, rect.H, refresh)
	log.Printf("[Window] switched to exclusive fullscreen %dx%d@%d", rect.W, rect.H, refresh)
}

func (w *engineWindow) Minimized() bool {
	win := glfwOf(w)
	return win != nil && win.GetAttrib(glfw.Iconified) == glfw.True
}

func (w *engineWindow) Maximized() bool {
	win := glfwOf(w)
	return win != nil && win.GetAttrib(glfw.Maximized) == glfw.True
}

func (w *engineWindow) Minimize() {
	if win := glfwOf(w); win != nil {
		win.Iconify()
	}
}

func (w *engineWindow) Maximize() {
	if win := glfwOf(w); win != nil {
		win.Maximize()
	}
}

func (w *engineWindow) Restore() {
	if win := glfwOf(w); win != nil {
		win.Restore()
	}
}

func (w *engineWindow) Focused() bool {
	if w.internalWindow == nil {
		return false
	}
	return w.internalWindow.(*glfwWindow).focused
}

func (w *engineWindow) MakeContextCurrent() {
	if win := glfwOf(w); win != nil {
		win.MakeContextCurrent()
	}
}

func (w *engineWindow) SwapBuffers() {
	if win := glfwOf(w); win != nil {
		win.SwapBuffers()
	}
}
