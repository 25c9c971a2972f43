package renderer

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
	"github.com/go-gl/gl/all-core/gl"
)

// glRendererBackendImpl implements RendererBackend for both OpenGL backends.
// The legacy and modern variants differ only in their mandatory extension floor.
type glRendererBackendImpl struct {
	mu sync.Mutex

	backendType RendererBackendType
	platform    window.Platform
	cfg         config.Config

	win    window.Window
	driver *glDriver
	timers *glTimerQueries

	// winReq is the main window description used for the current negotiation.
	winReq    windowRequest
	msaa      int
	depthBits int
}

var (
	_ RendererBackend = &glRendererBackendImpl{}
	_ contextFactory  = &glRendererBackendImpl{}
)

func newGLRendererBackend(backendType RendererBackendType, platform window.Platform, cfg config.Config) *glRendererBackendImpl {
	return &glRendererBackendImpl{
		backendType: backendType,
		platform:    platform,
		cfg:         cfg,
		driver:      &glDriver{},
	}
}

func (b *glRendererBackendImpl) Type() RendererBackendType {
	return b.backendType
}

// minimumContextVersion resolves the lowest acceptable GL version from config,
// overridden by MESA_GL_VERSION_OVERRIDE when set.
func minimumContextVersion(cfg config.Config) caps.Version {
	v := caps.Version{
		Major: cfg.GetInt(config.KeyGLContextMajorVersion),
		Minor: cfg.GetInt(config.KeyGLContextMinorVersion),
	}
	if override, ok := caps.MesaVersionOverride(os.Getenv("MESA_GL_VERSION_OVERRIDE")); ok {
		log.Printf("[Renderer] MESA_GL_VERSION_OVERRIDE set, requiring OpenGL %s", override)
		v = override
	}
	return v
}

func (b *glRendererBackendImpl) CreateWindow(req windowRequest) (window.Window, caps.ContextInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req.api = window.APIOpenGL
	b.winReq = req

	minimum := minimumContextVersion(b.cfg)
	core := b.cfg.GetBool(config.KeyForceCoreContext)

	win, info, err := negotiateContext(b, minimum, core, req.context.debug)
	if err != nil {
		return nil, caps.ContextInfo{}, err
	}

	b.win = win
	info.MSAALevel = b.msaa
	info.DepthBits = b.depthBits
	return win, info, nil
}

func (b *glRendererBackendImpl) createContext(req contextRequest, trial bool) (window.Window, error) {
	if trial {
		return b.platform.CreateWindow(
			window.WithTitle("context-probe"),
			window.WithWidth(1),
			window.WithHeight(1),
			window.WithHidden(true),
			window.WithClientAPI(window.APIOpenGL),
			window.WithContextVersion(req.version.Major, req.version.Minor, req.core),
			window.WithDebugContext(req.debug),
		)
	}

	wreq := b.winReq
	wreq.context = req
	win, msaa, depth, err := negotiateWindow(b.platform, wreq)
	if err != nil {
		return nil, err
	}
	b.msaa, b.depthBits = msaa, depth
	return win, nil
}

func (b *glRendererBackendImpl) destroyContext(ctx window.Window) {
	if err := ctx.Close(); err != nil {
		log.Printf("[Renderer] warning: failed to destroy context: %v", err)
	}
}

func (b *glRendererBackendImpl) contextVersion(ctx window.Window) (caps.Version, bool, error) {
	ctx.MakeContextCurrent()
	if err := b.driver.load(); err != nil {
		return caps.Version{}, false, err
	}
	return b.driver.version(), b.driver.contextProfile(), nil
}

func (b *glRendererBackendImpl) ProbeCapabilities(reg *caps.Registry, ctx caps.ContextInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := probeCapabilities(b.driver, b.cfg, b.backendType, ctx, reg); err != nil {
		return err
	}
	if reg.Features().TimerQueries {
		b.timers = newGLTimerQueries()
	}
	return nil
}

func (b *glRendererBackendImpl) TimerQueries() TimerQueries {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timers == nil {
		return nil
	}
	return b.timers
}

func (b *glRendererBackendImpl) MakeCurrent() {
	if b.win != nil {
		b.win.MakeContextCurrent()
	}
}

func (b *glRendererBackendImpl) ReleaseCurrent() {
	b.platform.DetachCurrentContext()
}

func (b *glRendererBackendImpl) UpdateWindow() {
	b.MakeCurrent()
}

func (b *glRendererBackendImpl) SetSwapInterval(interval int) {
	b.platform.SetSwapInterval(interval)
}

func (b *glRendererBackendImpl) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (b *glRendererBackendImpl) Present(clearErrors bool) {
	if clearErrors {
		b.driver.clearErrors()
	}
	if b.win != nil {
		b.win.SwapBuffers()
	}
}

func (b *glRendererBackendImpl) SetDebugOutput(enable bool, filter debugFilter, stacktraces bool) error {
	if b.win == nil {
		return fmt.Errorf("failed to set debug output: %w", ErrInvalidState)
	}
	setGLDebugOutput(enable, filter, stacktraces)
	return nil
}

func (b *glRendererBackendImpl) DestroyWindow() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Timer queries are deleted by the owning FrameTimer before the context goes away.
	b.timers = nil
	if b.win == nil {
		return
	}

	b.platform.DetachCurrentContext()
	if err := b.win.Close(); err != nil {
		log.Printf("[Renderer] warning: failed to destroy main window: %v", err)
	}
	b.win = nil
}
