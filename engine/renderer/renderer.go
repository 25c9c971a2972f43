package renderer

import (
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
)

// RendererState is a stage of the renderer lifecycle.
type RendererState int

const (
	StateUninitialized RendererState = iota
	StateWindowCreated
	StateContextReady
	StateActive
	// StateConfigChanged marks an active renderer with window or geometry changes pending
	// for the next frame.
	StateConfigChanged
	StateDestroyed
)

func (s RendererState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWindowCreated:
		return "window-created"
	case StateContextReady:
		return "context-ready"
	case StateActive:
		return "active"
	case StateConfigChanged:
		return "config-changed"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var legalTransitions = map[RendererState][]RendererState{
	StateUninitialized: {StateWindowCreated},
	StateWindowCreated: {StateContextReady, StateDestroyed},
	StateContextReady:  {StateActive, StateDestroyed},
	StateActive:        {StateConfigChanged, StateDestroyed},
	StateConfigChanged: {StateActive, StateConfigChanged, StateDestroyed},
}

// FullScreenPolicy decides how the config and command-line flags combine into the fullscreen state.
type FullScreenPolicy int

const (
	// FullScreenPolicyEither goes fullscreen when the config or the fullscreen flag asks for it.
	FullScreenPolicyEither FullScreenPolicy = iota

	// FullScreenPolicyRequireConfig goes fullscreen only when the config asks for it and the
	// windowed flag is absent.
	FullScreenPolicyRequireConfig
)

// windowConfigKeys are the settings whose change is re-applied to the window on the next frame.
var windowConfigKeys = []string{
	config.KeyDualScreenMode,
	config.KeyDualScreenMiniMapOnLeft,
	config.KeyFullscreen,
	config.KeyWindowBorderless,
	config.KeyXResolution,
	config.KeyYResolution,
	config.KeyXResolutionWindowed,
	config.KeyYResolutionWindowed,
	config.KeyWindowPosX,
	config.KeyWindowPosY,
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	platform    window.Platform
	cfg         config.Config
	reg         *caps.Registry

	state RendererState
	win   window.Window
	timer *FrameTimer
	guard contextGuard
	queue mainQueue

	geom     Geometry
	displays []common.Rect

	// drawFrame counts presented frames starting at 1. winChgFrame and gmeChgFrame hold the
	// frame on which a pending window or geometry change is applied.
	drawFrame   uint64
	winChgFrame uint64
	gmeChgFrame uint64

	subscription int
	subscribed   bool

	// Pre-creation config collected from builder options
	title                string
	fullScreenPolicy     FullScreenPolicy
	cliWindowed          bool
	cliFullScreen        bool
	forceFallbackAdapter bool
	onResize             func(width, height int)
}

// Renderer is the facade over one rendering backend and its main window.
//
// It negotiates the window and graphics context, probes device capabilities, keeps the
// viewport geometry in sync with the window and config, and drives presentation.
// Window mutations requested from other goroutines are queued and applied on the main
// thread during UpdateWindow.
type Renderer interface {
	// Init creates the main window and context, probes the device, and activates the renderer.
	// The context is released on return; the main loop must call AcquireThreadContext.
	//
	// Returns:
	//   - error: an UnsupportedError when the device cannot run the engine, or ErrInvalidState
	Init() error

	// State returns the current lifecycle state.
	State() RendererState

	// BackendType returns the backend selected at construction.
	BackendType() RendererBackendType

	// Window returns the main window, or nil before Init and after DestroyWindow.
	Window() window.Window

	// DestroyWindow deletes the timer queries, then the context, then the main window.
	DestroyWindow()

	// Destroy stops config observation and destroys the window. It is a no-op on an
	// uninitialized or already destroyed renderer.
	Destroy()

	// UpdateWindow runs queued main-thread tasks and applies config changes scheduled for this frame.
	// Must be called once per frame on the main thread.
	UpdateWindow()

	// PresentFrame advances the draw frame and shows the back buffer.
	//
	// Parameters:
	//   - allowSwap: false when nothing was drawn; the swap still happens if ForceSwapBuffers is set
	//   - clearErrors: true to discard pending driver errors before the swap
	//
	// Returns:
	//   - bool: true if the buffers were swapped
	PresentFrame(allowSwap, clearErrors bool) bool

	// DrawFrame returns the current draw frame number.
	DrawFrame() uint64

	// UpdateViewport sets the backend viewport to the main view.
	UpdateViewport()

	// Stamp records a GPU timestamp into slot idx of the current frame.
	Stamp(idx int)

	// Delta returns the GPU nanoseconds between slots a and b of the previous frame.
	Delta(a, b int) uint64

	// AcquireThreadContext binds the graphics context to the calling goroutine's OS thread.
	// The caller must have locked its OS thread.
	//
	// Returns:
	//   - *ContextLease: the lease to pass to ReleaseThreadContext
	//   - error: ErrContextBusy if another goroutine holds the context
	AcquireThreadContext() (*ContextLease, error)

	// ReleaseThreadContext unbinds the graphics context.
	//
	// Parameters:
	//   - lease: the lease returned by AcquireThreadContext
	//
	// Returns:
	//   - error: ErrContextNotOwned if lease does not hold the context
	ReleaseThreadContext(lease *ContextLease) error

	// Capabilities returns a copy of the probed device capabilities.
	Capabilities() caps.Capabilities

	// Geometry returns a copy of the current screen, window, and viewport layout.
	Geometry() Geometry

	// ToggleDebugOutput flips driver debug output and stores the new state in DebugGL.
	// Indices select the source, type, and severity filter and wrap around their tables.
	//
	// Returns:
	//   - error: error if the driver has no debug output
	ToggleDebugOutput(src, typ, sev int) error

	// SetWindowInputGrabbing confines or releases the cursor on the next frame.
	SetWindowInputGrabbing(enable bool)

	// ToggleWindowInputGrabbing flips the cursor confinement on the next frame.
	ToggleWindowInputGrabbing()

	// SetWindowMinMaximized minimizes or maximizes the main window. Main thread only.
	//
	// Returns:
	//   - bool: false if the window is missing or already in the requested state
	SetWindowMinMaximized(minimize bool) bool

	// SetWindowTitle changes the main window title on the next frame.
	SetWindowTitle(title string)

	// SaveWindowPosAndSize writes the windowed position and size to config.
	// Nothing is written in fullscreen or while minimized.
	SaveWindowPosAndSize()

	// GetWindowPosSizeBounded returns the configured window rectangle clamped to the displays.
	GetWindowPosSizeBounded() common.Rect

	// GetCfgWinRes returns the configured resolution for the current fullscreen state.
	// Zero components fall back to the largest display.
	GetCfgWinRes() common.Int2

	// SetFullScreen resolves the fullscreen state from the config and command-line flags.
	//
	// Returns:
	//   - bool: the resulting fullscreen state
	SetFullScreen(cfgFullScreen, cliWindowed, cliFullScreen bool) bool

	// SetDualScreenParams reads the dual-screen settings from config.
	SetDualScreenParams()

	// SetWindowAttributes applies the configured borderless, fullscreen, position, and size.
	SetWindowAttributes()

	// SetResizeCallback registers a callback invoked with the window size after a resize
	// or a geometry change.
	SetResizeCallback(callback func(width, height int))
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given backend type.
// The renderer is uninitialized; call Init on the main thread to create the window.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - platform: the initialized windowing platform
//   - cfg: the settings store
//   - options: optional configuration functions to customize the Renderer
//
// Returns:
//   - Renderer: the newly created Renderer instance
func NewRenderer(backendType RendererBackendType, platform window.Platform, cfg config.Config, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
		platform:    platform,
		cfg:         cfg,
		reg:         caps.NewRegistry(),
		state:       StateUninitialized,
		drawFrame:   1,
		title:       "oxy-render",
	}

	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeVulkan:
			r.backend = newWGPURendererBackend(platform, r.forceFallbackAdapter)
		case BackendTypeModernGL:
			r.backend = newGLRendererBackend(BackendTypeModernGL, platform, cfg)
		case BackendTypeLegacyGL:
			fallthrough
		default:
			r.backend = newGLRendererBackend(BackendTypeLegacyGL, platform, cfg)
		}
	}
	r.backendType = r.backend.Type()

	return r
}

func (r *renderer) transitionLocked(to RendererState) error {
	if !slices.Contains(legalTransitions[r.state], to) {
		return fmt.Errorf("failed to move renderer from %s to %s: %w", r.state, to, ErrInvalidState)
	}
	r.state = to
	return nil
}

func (r *renderer) Init() error {
	if err := r.initLocked(); err != nil {
		return err
	}

	// Subscribing takes the config observer lock, which the observer holds while taking r.mu.
	id := r.cfg.Subscribe(r.onConfigChanged, windowConfigKeys...)

	r.mu.Lock()
	r.subscription, r.subscribed = id, true
	r.mu.Unlock()
	return nil
}

func (r *renderer) initLocked() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateUninitialized {
		return fmt.Errorf("failed to initialize renderer in state %s: %w", r.state, ErrInvalidState)
	}

	if bits := r.platform.DesktopColorBits(); bits < 24 {
		return unsupported("desktop color depth is %d bits, at least 24 bits are required; update your GPU drivers or change the display settings", bits)
	}

	r.displays = r.platform.Displays()
	r.setFullScreenLocked(r.cfg.GetBool(config.KeyFullscreen), r.cliWindowed, r.cliFullScreen)
	r.setDualScreenParamsLocked()

	req := windowRequest{
		title:               r.title,
		rect:                r.getWindowPosSizeBoundedLocked(),
		fullscreen:          r.geom.Fullscreen,
		borderless:          r.cfg.GetBool(config.KeyWindowBorderless),
		minimizeOnFocusLoss: r.cfg.GetBool(config.KeyMinimizeOnFocusLoss),
		msaa:                r.cfg.GetInt(config.KeyMSAALevel),
		context: contextRequest{
			debug: r.cfg.GetBool(config.KeyDebugGL),
		},
	}

	win, ctxInfo, err := r.backend.CreateWindow(req)
	if err != nil {
		return err
	}
	r.win = win
	if err := r.transitionLocked(StateWindowCreated); err != nil {
		return err
	}

	if err := r.backend.ProbeCapabilities(r.reg, ctxInfo); err != nil {
		return err
	}
	timers := r.backend.TimerQueries()
	if timers == nil && r.reg.Features().TimerQueries {
		log.Printf("[Renderer] warning: %s backend reports timer queries but exposes none, disabling", r.backendType)
		r.reg.Update(func(c *caps.Capabilities) { c.Features.TimerQueries = false })
	}
	r.reg.Freeze()
	logVersionInfo(r.reg.Get())
	if err := r.transitionLocked(StateContextReady); err != nil {
		return err
	}

	r.timer = NewFrameTimer(timers)
	r.timer.SetFrame(r.drawFrame)

	r.backend.SetSwapInterval(r.cfg.GetInt(config.KeyVSync))

	if r.cfg.GetBool(config.KeyDebugGL) {
		if err := r.applyDebugOutputLocked(true, 0, 0, 0); err != nil {
			log.Printf("[Renderer] warning: %v", err)
		}
	}

	win.SetResizeCallback(r.handleResize)
	win.SetMoveCallback(r.handleMove)

	r.refreshWindowRectLocked()
	r.updateGeometryLocked()
	r.updateViewportLocked()

	r.backend.ReleaseCurrent()
	return r.transitionLocked(StateActive)
}

func (r *renderer) State() RendererState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Window() window.Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.win
}

func (r *renderer) DestroyWindow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyWindowLocked()
}

func (r *renderer) destroyWindowLocked() {
	if r.win == nil {
		return
	}
	r.timer.Delete()
	r.backend.DestroyWindow()
	r.win = nil
}

func (r *renderer) Destroy() {
	r.mu.Lock()
	if r.state == StateUninitialized || r.state == StateDestroyed {
		r.mu.Unlock()
		return
	}
	id, subscribed := r.subscription, r.subscribed
	r.subscribed = false
	r.mu.Unlock()

	if subscribed {
		r.cfg.Unsubscribe(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyWindowLocked()
	if err := r.transitionLocked(StateDestroyed); err != nil {
		log.Printf("[Renderer] warning: %v", err)
	}
	if n := r.queue.len(); n > 0 {
		log.Printf("[Renderer] dropping %d queued window tasks", n)
	}
}

func (r *renderer) UpdateWindow() {
	r.queue.drain()

	r.mu.Lock()
	frame := r.drawFrame
	fireResize := r.gmeChgFrame == frame
	reapply := r.winChgFrame == frame && r.win != nil
	var plan windowPlan
	if reapply {
		plan = r.windowPlanLocked()
	}
	r.mu.Unlock()

	// The platform may fire the resize and move callbacks from inside these calls.
	if reapply {
		plan.apply()
	}

	r.mu.Lock()
	if reapply && r.win != nil {
		r.backend.UpdateWindow()
		r.refreshWindowRectLocked()
		r.updateGeometryLocked()
		r.updateViewportLocked()
	}
	if r.state == StateConfigChanged && r.gmeChgFrame <= frame && r.winChgFrame <= frame {
		_ = r.transitionLocked(StateActive)
	}

	callback := r.onResize
	size := r.geom.WinSize
	r.mu.Unlock()

	if fireResize && callback != nil {
		callback(size.X, size.Y)
	}
}

func (r *renderer) PresentFrame(allowSwap, clearErrors bool) bool {
	r.mu.Lock()
	r.drawFrame++
	frame := r.drawFrame
	active := r.state == StateActive || r.state == StateConfigChanged
	r.mu.Unlock()

	r.timer.SetFrame(frame)

	if !active {
		return false
	}
	if !allowSwap && !r.cfg.GetBool(config.KeyForceSwapBuffers) {
		return false
	}

	r.backend.Present(clearErrors)
	return true
}

func (r *renderer) DrawFrame() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawFrame
}

func (r *renderer) UpdateViewport() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateViewportLocked()
}

func (r *renderer) updateViewportLocked() {
	v := r.geom.MainView()
	r.backend.Viewport(v.X, v.Y, v.W, v.H)
}

func (r *renderer) Stamp(idx int) {
	r.timer.Stamp(idx)
}

func (r *renderer) Delta(a, b int) uint64 {
	return r.timer.Delta(a, b)
}

func (r *renderer) AcquireThreadContext() (*ContextLease, error) {
	lease, err := r.guard.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire graphics context: %w", err)
	}
	r.backend.MakeCurrent()
	return lease, nil
}

func (r *renderer) ReleaseThreadContext(lease *ContextLease) error {
	if err := r.guard.release(lease); err != nil {
		return err
	}
	r.backend.ReleaseCurrent()
	return nil
}

func (r *renderer) Capabilities() caps.Capabilities {
	return r.reg.Get()
}

func (r *renderer) Geometry() Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geom
}

func (r *renderer) ToggleDebugOutput(src, typ, sev int) error {
	enable := !r.cfg.GetBool(config.KeyDebugGL)

	r.mu.Lock()
	err := r.applyDebugOutputLocked(enable, src, typ, sev)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.cfg.SetBool(config.KeyDebugGL, enable)
	return nil
}

func (r *renderer) applyDebugOutputLocked(enable bool, src, typ, sev int) error {
	if !r.reg.Features().DebugOutput {
		return fmt.Errorf("failed to toggle debug output: not supported by %s", r.reg.Get().Identity.Renderer)
	}

	filter := newDebugFilter(src, typ, sev)
	if err := r.backend.SetDebugOutput(enable, filter, r.cfg.GetBool(config.KeyDebugGLStacktraces)); err != nil {
		return fmt.Errorf("failed to toggle debug output: %w", err)
	}
	log.Printf("[Renderer] debug output enabled=%t (%s)", enable, filter)
	return nil
}

func (r *renderer) SetWindowInputGrabbing(enable bool) {
	r.queue.push(func() {
		if win := r.Window(); win != nil {
			win.SetInputGrab(enable)
		}
	})
}

func (r *renderer) ToggleWindowInputGrabbing() {
	r.queue.push(func() {
		if win := r.Window(); win != nil {
			win.SetInputGrab(!win.InputGrabbed())
		}
	})
}

func (r *renderer) SetWindowMinMaximized(minimize bool) bool {
	win := r.Window()
	if win == nil {
		return false
	}

	if minimize {
		if win.Minimized() {
			return false
		}
		win.Minimize()
		return true
	}

	if win.Maximized() {
		return false
	}
	win.Maximize()
	return true
}

func (r *renderer) SetWindowTitle(title string) {
	r.queue.push(func() {
		if win := r.Window(); win != nil {
			win.SetTitle(title)
		}
	})
}

func (r *renderer) SaveWindowPosAndSize() {
	r.mu.Lock()
	win := r.win
	fullscreen := r.geom.Fullscreen
	r.mu.Unlock()

	if win == nil || fullscreen || win.Minimized() {
		return
	}

	x, y := win.Position()
	w, h := win.Size()

	r.cfg.SetInt(config.KeyWindowPosX, x)
	r.cfg.SetInt(config.KeyWindowPosY, y)
	r.cfg.SetInt(config.KeyXResolutionWindowed, w)
	r.cfg.SetInt(config.KeyYResolutionWindowed, h)
}

func (r *renderer) GetWindowPosSizeBounded() common.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getWindowPosSizeBoundedLocked()
}

func (r *renderer) getWindowPosSizeBoundedLocked() common.Rect {
	res := r.getCfgWinResLocked()
	rect := common.Rect{
		X: r.cfg.GetInt(config.KeyWindowPosX),
		Y: r.cfg.GetInt(config.KeyWindowPosY),
		W: res.X,
		H: res.Y,
	}
	if r.geom.Fullscreen && len(r.displays) > 0 {
		rect.X, rect.Y = r.displays[0].X, r.displays[0].Y
	}

	var screen common.Rect
	for _, d := range r.displays {
		screen = screen.Union(d)
	}
	if screen.Empty() {
		return rect
	}
	return boundWindowPosSize(screen, rect, r.geom.Fullscreen)
}

func (r *renderer) GetCfgWinRes() common.Int2 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCfgWinResLocked()
}

func (r *renderer) getCfgWinResLocked() common.Int2 {
	xKey, yKey := config.KeyXResolutionWindowed, config.KeyYResolutionWindowed
	if r.geom.Fullscreen {
		xKey, yKey = config.KeyXResolution, config.KeyYResolution
	}
	res := common.Int2{X: r.cfg.GetInt(xKey), Y: r.cfg.GetInt(yKey)}

	var largest common.Rect
	for _, d := range r.displays {
		if d.W*d.H > largest.W*largest.H {
			largest = d
		}
	}
	res.X = common.Coalesce(res.X, largest.W)
	res.Y = common.Coalesce(res.Y, largest.H)
	return res
}

func (r *renderer) SetFullScreen(cfgFullScreen, cliWindowed, cliFullScreen bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setFullScreenLocked(cfgFullScreen, cliWindowed, cliFullScreen)
}

func (r *renderer) setFullScreenLocked(cfgFullScreen, cliWindowed, cliFullScreen bool) bool {
	switch r.fullScreenPolicy {
	case FullScreenPolicyRequireConfig:
		r.geom.Fullscreen = cfgFullScreen && !cliWindowed
	default:
		r.geom.Fullscreen = cfgFullScreen || cliFullScreen
	}
	return r.geom.Fullscreen
}

func (r *renderer) SetDualScreenParams() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setDualScreenParamsLocked()
}

func (r *renderer) setDualScreenParamsLocked() {
	r.geom.DualScreen = r.cfg.GetBool(config.KeyDualScreenMode)
	r.geom.MiniMapOnLeft = r.geom.DualScreen && r.cfg.GetBool(config.KeyDualScreenMiniMapOnLeft)
}

func (r *renderer) SetWindowAttributes() {
	r.mu.Lock()
	plan := r.windowPlanLocked()
	r.mu.Unlock()
	plan.apply()
}

// windowPlan is a window mode change computed under the renderer lock and applied without it.
type windowPlan struct {
	win        window.Window
	fullscreen bool
	borderless bool
	rect       common.Rect
}

func (r *renderer) windowPlanLocked() windowPlan {
	if r.win == nil {
		return windowPlan{}
	}
	r.displays = r.platform.Displays()
	return windowPlan{
		win:        r.win,
		fullscreen: r.setFullScreenLocked(r.cfg.GetBool(config.KeyFullscreen), r.cliWindowed, r.cliFullScreen),
		borderless: r.cfg.GetBool(config.KeyWindowBorderless),
		rect:       r.getWindowPosSizeBoundedLocked(),
	}
}

func (p windowPlan) apply() {
	if p.win == nil {
		return
	}
	p.win.SetBorderless(p.borderless)
	p.win.SetFullscreen(p.fullscreen, !p.borderless, p.rect)
	if !p.fullscreen {
		p.win.SetPosition(p.rect.X, p.rect.Y)
		p.win.SetSize(p.rect.W, p.rect.H)
	}

	log.Printf("[Renderer] window mode %s at %d,%d size %dx%d", displayModeName(p.fullscreen, p.borderless), p.rect.X, p.rect.Y, p.rect.W, p.rect.H)
}

func displayModeName(fullscreen, borderless bool) string {
	switch {
	case fullscreen && borderless:
		return "fullscreen::non-exclusive"
	case fullscreen:
		return "fullscreen::exclusive"
	case borderless:
		return "windowed::borderless"
	}
	return "windowed::decorated"
}

func (r *renderer) SetResizeCallback(callback func(width, height int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResize = callback
}

// onConfigChanged runs with the config observer lock held, so it only records which frame
// applies the change.
func (r *renderer) onConfigChanged(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive && r.state != StateConfigChanged {
		return
	}

	switch key {
	case config.KeyDualScreenMode, config.KeyDualScreenMiniMapOnLeft:
		r.setDualScreenParamsLocked()
		r.updateGeometryLocked()
		r.gmeChgFrame = r.drawFrame + 1
	default:
		r.winChgFrame = r.drawFrame + 1
	}

	if err := r.transitionLocked(StateConfigChanged); err != nil {
		log.Printf("[Renderer] warning: %v", err)
	}
}

func (r *renderer) handleResize(width, height int) {
	r.mu.Lock()
	r.refreshWindowRectLocked()
	r.geom.WinSize = common.Int2{X: width, Y: height}
	r.updateGeometryLocked()
	r.backend.UpdateWindow()
	r.updateViewportLocked()
	callback := r.onResize
	r.mu.Unlock()

	if callback != nil {
		callback(width, height)
	}
}

func (r *renderer) handleMove(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.geom.WinPos = common.Int2{X: x, Y: y}
	r.updateGeometryLocked()
}

// refreshWindowRectLocked copies the window position, size, and decoration insets into the geometry.
func (r *renderer) refreshWindowRectLocked() {
	if r.win == nil {
		return
	}
	x, y := r.win.Position()
	w, h := r.win.Size()
	l, t, rt, b := r.win.BorderSize()

	r.geom.WinPos = common.Int2{X: x, Y: y}
	r.geom.WinSize = common.Int2{X: w, Y: h}
	r.geom.WinBorder = [4]int{l, t, rt, b}
}

// updateGeometryLocked recomputes the viewports and screen matrices from the cached window
// rectangle and displays. It never touches the window.
func (r *renderer) updateGeometryLocked() {
	r.geom.SetScreenBounds(r.displays)
	r.geom.RecomputeViewGeometry(r.displays)
	r.geom.RecomputeScreenMatrices(r.reg.Features().ClipSpaceControl)
}
