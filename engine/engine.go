package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/profiler"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/Carmen-Shannon/oxy-render/engine/uploader"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
)

// engine implements the Engine interface.
// The render loop owns the graphics context on the calling goroutine; the tick loop runs in its own goroutine.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel  chan struct{}
	quitOnce     sync.Once // Ensures quitChannel is only closed once
	shutdownOnce sync.Once

	platform    window.Platform
	cfg         config.Config
	renderer    renderer.Renderer
	uploader    uploader.Uploader
	backendType renderer.RendererBackendType

	rendererOptions []renderer.RendererBuilderOption
	uploaderOptions []uploader.UploaderBuilderOption
	configOptions   []config.ConfigBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	hotkeys bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	stderr io.Writer
	exit   func(code int)
}

// Engine is the main entry point for the engine.
// It owns the windowing platform, the settings store, the renderer, and the upload worker pool.
type Engine interface {
	// Renderer returns the initialized renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Config returns the settings store shared with the renderer.
	//
	// Returns:
	//   - config.Config: the settings store
	Config() config.Config

	// Uploader returns the worker pool used for parallel buffer writes.
	//
	// Returns:
	//   - uploader.Uploader: the uploader instance
	Uploader() uploader.Uploader

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// The callback runs on the tick goroutine and must not issue graphics calls.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame.
	// The callback runs on the goroutine that owns the graphics context.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run binds the graphics context to the calling goroutine and runs the render loop
	// until the window closes or Quit is called. Must be called from the main goroutine.
	// The renderer and platform are torn down before Run returns.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates the platform, settings store, renderer, and uploader, then initializes the renderer.
// A device that cannot run the renderer is fatal: the reason is logged, printed to stderr,
// and the process exits with status 1.
//
// Parameters:
//   - options: functional options for engine configuration (backend, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := newEngine(options...)
	if err := e.init(); err != nil {
		e.fatal(err)
		return nil
	}
	return e
}

func newEngine(options ...EngineBuilderOption) *engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profilingEnabled: false,
		hotkeys:          true,
		engineTickRate:   time.Second / 60,
		backendType:      renderer.BackendTypeLegacyGL,
		stderr:           os.Stderr,
		exit:             os.Exit,
	}

	for _, opt := range options {
		opt(e)
	}
	return e
}

// init brings the platform and renderer up in order. Anything created before a failure is torn down.
func (e *engine) init() error {
	if e.platform == nil {
		e.platform = window.NewPlatform()
	}
	if err := e.platform.Init(); err != nil {
		return fmt.Errorf("failed to initialize windowing platform: %w", err)
	}

	if e.cfg == nil {
		e.cfg = config.NewConfig(e.configOptions...)
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(e.backendType, e.platform, e.cfg, e.rendererOptions...)
	}
	if err := e.renderer.Init(); err != nil {
		e.shutdown()
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	if e.uploader == nil {
		e.uploader = uploader.NewUploader(e.uploaderOptions...)
	}

	e.profiler = profiler.NewProfiler(profiler.WithGPUTime(func() uint64 {
		return e.renderer.Delta(renderer.TimerQueryFrameRef, renderer.TimerQueryFrameEnd)
	}))

	if w := e.renderer.Window(); w != nil {
		w.SetFocusCallback(e.handleFocus)
		if e.hotkeys {
			w.SetKeyDownCallback(e.handleKeyDown)
		}
	}
	return nil
}

// fatal reports a startup failure to the user and exits.
func (e *engine) fatal(err error) {
	msg := err.Error()
	if !renderer.IsUnsupported(err) {
		msg = fmt.Sprintf("%s; update your GPU drivers", msg)
	}
	log.Printf("[FATAL] %s", msg)
	fmt.Fprintf(e.stderr, "oxy-render cannot start: %s\n", msg)
	e.exit(1)
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) Uploader() uploader.Uploader {
	return e.uploader
}

func (e *engine) Run() {
	defer e.shutdown()

	lease, err := e.renderer.AcquireThreadContext()
	if err != nil {
		log.Printf("[Engine] failed to acquire graphics context: %v", err)
		return
	}

	e.running = true
	e.handle()
	e.renderLoop()

	if err := e.renderer.ReleaseThreadContext(lease); err != nil {
		log.Printf("[Engine] failed to release graphics context: %v", err)
	}
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// shutdown persists the window rectangle and tears down the renderer before the platform.
func (e *engine) shutdown() {
	e.shutdownOnce.Do(func() {
		if e.renderer != nil {
			if e.renderer.State() == renderer.StateActive || e.renderer.State() == renderer.StateConfigChanged {
				e.renderer.SaveWindowPosAndSize()
			}
			e.renderer.Destroy()
		}
		if e.cfg != nil {
			if err := e.cfg.Close(); err != nil {
				log.Printf("[Engine] failed to close config: %v", err)
			}
		}
		if e.platform != nil {
			e.platform.Terminate()
		}
	})
}

// handle launches the tick and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// renderLoop runs frames until the window closes or quit is signalled.
// Recovers from panics so the renderer and platform are still torn down.
func (e *engine) renderLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render loop recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()
	for {
		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if !e.frame(dt) {
			return
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			elapsed := time.Since(lastRender)
			if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// frame runs one iteration of the frame lifecycle.
// Returns false once the loop should stop.
func (e *engine) frame(dt float32) bool {
	select {
	case <-e.quitChannel:
		return false
	default:
	}

	w := e.renderer.Window()
	if w == nil || !w.IsRunning() {
		return false
	}

	e.platform.PollEvents()
	e.renderer.UpdateWindow()

	e.renderer.Stamp(renderer.TimerQueryFrameRef)
	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	e.renderer.Stamp(renderer.TimerQueryFrameEnd)

	// Ticking before the present keeps the GPU time read one frame behind the stamps.
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	e.renderer.PresentFrame(true, false)
	return true
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// handleFocus minimizes a fullscreen window that lost focus when MinimizeOnFocusLoss is set.
func (e *engine) handleFocus(focused bool) {
	if focused || !e.cfg.GetBool(config.KeyMinimizeOnFocusLoss) || !e.cfg.GetBool(config.KeyFullscreen) {
		return
	}
	e.renderer.SetWindowMinMaximized(true)
}

// handleKeyDown applies the built-in window hotkeys. Runs on the main goroutine from PollEvents.
func (e *engine) handleKeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyEsc:
		e.Quit()
	case common.KeyF11:
		e.cfg.SetBool(config.KeyFullscreen, !e.cfg.GetBool(config.KeyFullscreen))
	case common.KeyT:
		e.cfg.SetBool(config.KeyDualScreenMode, !e.cfg.GetBool(config.KeyDualScreenMode))
	case common.KeyG:
		e.renderer.ToggleWindowInputGrabbing()
	case common.KeyM:
		e.renderer.SetWindowMinMaximized(true)
	case common.KeyD:
		if err := e.renderer.ToggleDebugOutput(0, 0, 0); err != nil && !errors.Is(err, renderer.ErrInvalidState) {
			log.Printf("[Engine] failed to toggle debug output: %v", err)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
