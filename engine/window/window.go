package window

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides a platform window, its graphics surface, and input event handling.
// Wraps platform-specific window implementations with a common interface.
//
// Every method that touches the platform window must be called from the thread that
// created it; the renderer routes cross-goroutine mutations through its main-thread queue.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetMoveCallback sets the function called when the window is moved.
	//
	// Parameters:
	//   - callback: function receiving the new top-left position in desktop coordinates
	SetMoveCallback(callback func(x, y int))

	// SetFocusCallback sets the function called when the window gains or loses input focus.
	//
	// Parameters:
	//   - callback: function receiving true on focus gain, false on loss
	SetFocusCallback(callback func(focused bool))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// Only meaningful for windows created with APINone.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Attributes returns the attributes the window was created with.
	//
	// Returns:
	//   - Attributes: the creation attributes, including the chosen MSAA level and depth bits
	Attributes() Attributes

	// PixelFormatName describes the framebuffer format of the window, e.g. "RGBA8888_D24S8_MS4".
	PixelFormatName() string

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close destroys the window and releases its platform resources and graphics context.
	//
	// Returns:
	//   - error: error if the window was never created or already closed
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// PollEvents processes pending platform events once without blocking.
	//
	// Returns:
	//   - bool: false once the window has been asked to close
	PollEvents() bool

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int

	// Title returns the current window title.
	Title() string

	// SetTitle changes the window title.
	SetTitle(title string)

	// Position returns the top-left corner of the client area in desktop coordinates.
	Position() (x, y int)

	// SetPosition moves the client area to the given desktop coordinates.
	SetPosition(x, y int)

	// Size returns the client area size in screen coordinates.
	Size() (width, height int)

	// SetSize resizes the client area.
	SetSize(width, height int)

	// BorderSize returns the decoration insets around the client area.
	//
	// Returns:
	//   - left, top, right, bottom: inset sizes in screen coordinates
	BorderSize() (left, top, right, bottom int)

	// SetBorderless toggles window decorations.
	SetBorderless(borderless bool)

	// SetFullscreen switches between windowed and fullscreen presentation.
	// In windowed mode the rectangle gives the new client area.
	//
	// Parameters:
	//   - fullscreen: true for fullscreen
	//   - exclusive: true for a video-mode change, false for a desktop-sized borderless window
	//   - rect: the windowed client area, or the fullscreen resolution
	SetFullscreen(fullscreen, exclusive bool, rect common.Rect)

	// SetInputGrab confines the cursor to the window when grab is true.
	SetInputGrab(grab bool)

	// InputGrabbed reports the current cursor grab state.
	InputGrabbed() bool

	// Minimized reports whether the window is iconified.
	Minimized() bool

	// Maximized reports whether the window is maximized.
	Maximized() bool

	// Minimize iconifies the window.
	Minimize()

	// Maximize maximizes the window.
	Maximize()

	// Restore returns the window from a minimized or maximized state.
	Restore()

	// Focused reports whether the window has input focus.
	Focused() bool

	// MakeContextCurrent binds the window's graphics context to the calling OS thread.
	MakeContextCurrent()

	// SwapBuffers presents the back buffer. Blocks per the platform swap interval.
	SwapBuffers()
}

// engineWindow is the implementation of the Window interface.
// Holds creation attributes, platform state, and event callbacks.
type engineWindow struct {
	attrs Attributes

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	grabbed bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onMove    func(x, y int)
	onFocus   func(focused bool)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetMoveCallback(callback func(x, y int)) {
	w.onMove = callback
}

func (w *engineWindow) SetFocusCallback(callback func(focused bool)) {
	w.onFocus = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Attributes() Attributes {
	return w.attrs
}

func (w *engineWindow) PixelFormatName() string {
	return pixelFormatName(w.attrs)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := w.PollEvents(); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) Title() string {
	return w.attrs.Title
}

func (w *engineWindow) SetTitle(title string) {
	w.attrs.Title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) InputGrabbed() bool {
	return w.grabbed
}

func (w *engineWindow) SetInputGrab(grab bool) {
	w.grabbed = grab
	platformSetInputGrab(w, grab)
}
