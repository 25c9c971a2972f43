package renderer

import (
	"maps"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rendererFixture struct {
	r        *renderer
	backend  *fakeBackend
	platform *fakePlatform
	cfg      config.Config
}

func (f *rendererFixture) window() *fakeWindow {
	return f.backend.win.(*fakeWindow)
}

func newRendererFixture(t *testing.T, values map[string]string, features caps.Features, options ...RendererBuilderOption) *rendererFixture {
	t.Helper()
	captureLog(t)

	base := map[string]string{
		config.KeyFullscreen:          "0",
		config.KeyXResolutionWindowed: "1280",
		config.KeyYResolutionWindowed: "720",
		config.KeyWindowPosX:          "100",
		config.KeyWindowPosY:          "50",
	}
	maps.Copy(base, values)

	p := newFakePlatform()
	b := &fakeBackend{platform: p, features: features}
	cfg := config.NewConfig(config.WithValues(base))

	options = append([]RendererBuilderOption{withBackend(b), WithTitle("test")}, options...)
	r := NewRenderer(BackendTypeModernGL, p, cfg, options...).(*renderer)
	return &rendererFixture{r: r, backend: b, platform: p, cfg: cfg}
}

func initRendererFixture(t *testing.T, values map[string]string, features caps.Features, options ...RendererBuilderOption) *rendererFixture {
	t.Helper()
	f := newRendererFixture(t, values, features, options...)
	require.NoError(t, f.r.Init())
	return f
}

func TestRendererInit(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	r := f.r

	assert.Equal(t, StateActive, r.State())
	assert.Equal(t, BackendTypeModernGL, r.BackendType())
	require.NotNil(t, r.Window())

	w := f.window()
	assert.Equal(t, "test", w.Title())
	x, y := w.Position()
	assert.Equal(t, [2]int{100, 50}, [2]int{x, y})
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())

	assert.Equal(t, common.Rect{W: 1280, H: 720}, r.Geometry().MainView())
	assert.Equal(t, [][4]int{{0, 0, 1280, 720}}, f.backend.viewports)
	assert.Equal(t, 1, f.backend.swapInterval)
	assert.Equal(t, 1, f.backend.released, "the context is released at the end of Init")
	assert.True(t, r.reg.Frozen())
	assert.Equal(t, "fake renderer", r.Capabilities().Identity.Renderer)
	assert.Equal(t, uint64(1), r.DrawFrame())

	assert.ErrorIs(t, r.Init(), ErrInvalidState)
}

func TestRendererInitRejectsLowColorDepth(t *testing.T) {
	f := newRendererFixture(t, nil, caps.Features{})
	f.platform.colorBits = 16

	err := f.r.Init()
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Equal(t, StateUninitialized, f.r.State())
	assert.Empty(t, f.platform.attempts)
}

func TestRendererInitProbeFailureLeavesWindowForDestroy(t *testing.T) {
	f := newRendererFixture(t, nil, caps.Features{})
	f.backend.probeErr = unsupported("no shaders")

	err := f.r.Init()
	assert.True(t, IsUnsupported(err))
	assert.Equal(t, StateWindowCreated, f.r.State())

	f.r.Destroy()
	assert.Equal(t, StateDestroyed, f.r.State())
	assert.Equal(t, 1, f.backend.destroyed)
}

func TestRendererConfigChangeAppliesNextFrame(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	r := f.r
	w := f.window()

	f.cfg.SetBool(config.KeyWindowBorderless, true)
	assert.Equal(t, StateConfigChanged, r.State())
	assert.False(t, w.attrs.Borderless, "observer never touches the window")

	r.UpdateWindow()
	assert.False(t, w.attrs.Borderless, "applied on the frame after the change")
	assert.Zero(t, f.backend.updates)

	r.PresentFrame(true, false)
	r.UpdateWindow()
	assert.True(t, w.attrs.Borderless)
	assert.Equal(t, 1, f.backend.updates)
	assert.Equal(t, StateActive, r.State())
}

func TestRendererReappliesWindowWithSynchronousEvents(t *testing.T) {
	var resized [][2]int
	f := initRendererFixture(t, nil, caps.Features{}, WithResizeCallback(func(w, h int) {
		resized = append(resized, [2]int{w, h})
	}))
	r := f.r
	f.window().syncEvents = true

	f.cfg.SetInt(config.KeyXResolutionWindowed, 1000)
	r.PresentFrame(true, false)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.UpdateWindow()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("UpdateWindow blocked on a window callback")
	}

	assert.Equal(t, 1000, f.window().Width())
	assert.Equal(t, common.Rect{W: 1000, H: 720}, r.Geometry().MainView())
	assert.Equal(t, [][2]int{{1000, 720}}, resized)
	assert.Equal(t, StateActive, r.State())

	f.cfg.SetBool(config.KeyFullscreen, true)
	r.PresentFrame(true, false)
	r.UpdateWindow()
	assert.True(t, f.window().fullscreen)
	assert.Equal(t, common.Rect{W: 1920, H: 1080}, r.Geometry().MainView())
}

func TestRendererDualScreenChangeFiresResizeNextFrame(t *testing.T) {
	var resized [][2]int
	f := initRendererFixture(t, nil, caps.Features{}, WithResizeCallback(func(w, h int) {
		resized = append(resized, [2]int{w, h})
	}))
	r := f.r

	f.cfg.SetBool(config.KeyDualScreenMode, true)
	g := r.Geometry()
	assert.True(t, g.DualScreen)
	assert.Equal(t, common.Rect{W: 640, H: 720}, g.MainView())
	assert.Equal(t, common.Rect{X: 640, W: 640, H: 720}, g.DualView())

	r.UpdateWindow()
	assert.Empty(t, resized)

	r.PresentFrame(true, false)
	r.UpdateWindow()
	assert.Equal(t, [][2]int{{1280, 720}}, resized)

	r.PresentFrame(true, false)
	r.UpdateWindow()
	assert.Len(t, resized, 1, "fires once")

	f.cfg.SetBool(config.KeyDualScreenMiniMapOnLeft, true)
	assert.Equal(t, common.Rect{X: 640, W: 640, H: 720}, r.Geometry().MainView())
}

func TestRendererPresentFrame(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	r := f.r

	assert.True(t, r.PresentFrame(true, true))
	assert.True(t, r.PresentFrame(false, false), "ForceSwapBuffers defaults to on")
	assert.Equal(t, 2, f.backend.presents)
	assert.Equal(t, 1, f.backend.clears)
	assert.Equal(t, uint64(3), r.DrawFrame())

	f.cfg.SetInt(config.KeyForceSwapBuffers, 0)
	assert.False(t, r.PresentFrame(false, false))
	assert.Equal(t, 2, f.backend.presents)
	assert.Equal(t, uint64(4), r.DrawFrame(), "the frame advances without a swap")
}

func TestRendererPresentFrameBeforeInit(t *testing.T) {
	f := newRendererFixture(t, nil, caps.Features{})
	assert.False(t, f.r.PresentFrame(true, false))
	assert.Zero(t, f.backend.presents)
}

func TestRendererTimerUsesDrawFrame(t *testing.T) {
	q := &fakeTimerQueries{}
	f := newRendererFixture(t, nil, caps.Features{TimerQueries: true})
	f.backend.timers = q
	require.NoError(t, f.r.Init())
	r := f.r

	q.clock = 100
	r.Stamp(TimerQueryFrameRef)
	q.clock = 400
	r.Stamp(TimerQueryFrameEnd)
	r.PresentFrame(true, false)

	assert.Equal(t, uint64(300), r.Delta(TimerQueryFrameRef, TimerQueryFrameEnd))

	r.Destroy()
	assert.Equal(t, 1, q.deleted)
}

func TestRendererTimerFlagMatchesTimerSource(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{TimerQueries: true})
	assert.False(t, f.r.Capabilities().Features.TimerQueries, "no timer source behind the flag")
	assert.False(t, f.r.timer.Enabled())
	assert.Zero(t, f.r.Delta(TimerQueryFrameRef, TimerQueryFrameEnd))

	f = newRendererFixture(t, nil, caps.Features{TimerQueries: true})
	f.backend.timers = &fakeTimerQueries{}
	require.NoError(t, f.r.Init())
	assert.True(t, f.r.Capabilities().Features.TimerQueries)
	assert.True(t, f.r.timer.Enabled())
}

func TestVulkanFeaturesFollowTimerSource(t *testing.T) {
	b := newWGPURendererBackend(newFakePlatform(), false)
	assert.Nil(t, b.TimerQueries())
	assert.False(t, vulkanFeatures(b.TimerQueries()).TimerQueries)
	assert.True(t, vulkanFeatures(&fakeTimerQueries{}).TimerQueries)
	assert.True(t, vulkanFeatures(nil).ClipSpaceControl)
}

func TestRendererThreadContext(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	r := f.r

	lease, err := r.AcquireThreadContext()
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.current)

	_, err = r.AcquireThreadContext()
	assert.ErrorIs(t, err, ErrContextBusy)

	assert.ErrorIs(t, r.ReleaseThreadContext(&ContextLease{}), ErrContextNotOwned)
	require.NoError(t, r.ReleaseThreadContext(lease))
	assert.Equal(t, 2, f.backend.released)
}

func TestRendererQueuedWindowTasks(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	r := f.r
	w := f.window()

	r.SetWindowTitle("renamed")
	r.SetWindowInputGrabbing(true)
	assert.Equal(t, "test", w.Title())
	assert.False(t, w.InputGrabbed())

	r.UpdateWindow()
	assert.Equal(t, "renamed", w.Title())
	assert.True(t, w.InputGrabbed())

	r.ToggleWindowInputGrabbing()
	r.UpdateWindow()
	assert.False(t, w.InputGrabbed())
}

func TestRendererSetWindowMinMaximized(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	r := f.r

	assert.True(t, r.SetWindowMinMaximized(true))
	assert.False(t, r.SetWindowMinMaximized(true))
	assert.True(t, r.SetWindowMinMaximized(false))
	assert.False(t, r.SetWindowMinMaximized(false))

	r.Destroy()
	assert.False(t, r.SetWindowMinMaximized(true))
}

func TestRendererToggleDebugOutput(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	assert.Error(t, f.r.ToggleDebugOutput(0, 0, 0))
	assert.False(t, f.cfg.GetBool(config.KeyDebugGL))

	f = initRendererFixture(t, nil, caps.Features{DebugOutput: true})
	require.NoError(t, f.r.ToggleDebugOutput(1, 1, 3))
	assert.True(t, f.cfg.GetBool(config.KeyDebugGL))
	require.NoError(t, f.r.ToggleDebugOutput(1, 1, 3))
	assert.False(t, f.cfg.GetBool(config.KeyDebugGL))
	assert.Equal(t, []bool{true, false}, f.backend.debug)
}

func TestRendererInitEnablesDebugOutput(t *testing.T) {
	f := initRendererFixture(t, map[string]string{config.KeyDebugGL: "1"}, caps.Features{DebugOutput: true})
	assert.Equal(t, []bool{true}, f.backend.debug)
}

func TestRendererSaveWindowPosAndSize(t *testing.T) {
	f := initRendererFixture(t, nil, caps.Features{})
	w := f.window()
	w.SetPosition(200, 150)
	w.SetSize(1000, 800)

	f.r.SaveWindowPosAndSize()
	assert.Equal(t, 200, f.cfg.GetInt(config.KeyWindowPosX))
	assert.Equal(t, 150, f.cfg.GetInt(config.KeyWindowPosY))
	assert.Equal(t, 1000, f.cfg.GetInt(config.KeyXResolutionWindowed))
	assert.Equal(t, 800, f.cfg.GetInt(config.KeyYResolutionWindowed))

	w.Minimize()
	w.SetPosition(300, 300)
	f.r.SaveWindowPosAndSize()
	assert.Equal(t, 200, f.cfg.GetInt(config.KeyWindowPosX), "minimized windows are not saved")
}

func TestRendererSaveSkipsFullscreen(t *testing.T) {
	f := initRendererFixture(t, map[string]string{config.KeyFullscreen: "1"}, caps.Features{})
	f.window().SetPosition(300, 300)
	f.r.SaveWindowPosAndSize()
	assert.Equal(t, 100, f.cfg.GetInt(config.KeyWindowPosX))
}

func TestRendererFullscreenInit(t *testing.T) {
	f := initRendererFixture(t, map[string]string{config.KeyFullscreen: "1"}, caps.Features{})
	w := f.window()
	assert.True(t, w.attrs.Fullscreen)
	x, y := w.Position()
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})
	assert.Equal(t, 1920, w.Width(), "zero resolution means the desktop size")
	assert.Equal(t, 1080, w.Height())
}

func TestRendererSetFullScreenPolicy(t *testing.T) {
	either := newRendererFixture(t, nil, caps.Features{}).r
	assert.True(t, either.SetFullScreen(false, false, true))
	assert.True(t, either.SetFullScreen(true, true, false))
	assert.False(t, either.SetFullScreen(false, true, false))

	strict := newRendererFixture(t, nil, caps.Features{}, WithFullScreenPolicy(FullScreenPolicyRequireConfig)).r
	assert.False(t, strict.SetFullScreen(false, false, true))
	assert.False(t, strict.SetFullScreen(true, true, false))
	assert.True(t, strict.SetFullScreen(true, false, false))
}

func TestRendererGetCfgWinRes(t *testing.T) {
	f := newRendererFixture(t, map[string]string{
		config.KeyXResolutionWindowed: "0",
		config.KeyYResolutionWindowed: "900",
		config.KeyXResolution:         "0",
		config.KeyYResolution:         "0",
	}, caps.Features{})
	r := f.r
	r.displays = []common.Rect{{W: 1920, H: 1080}, {X: 1920, W: 2560, H: 1440}}

	assert.Equal(t, common.Int2{X: 2560, Y: 900}, r.GetCfgWinRes())

	r.SetFullScreen(true, false, false)
	assert.Equal(t, common.Int2{X: 2560, Y: 1440}, r.GetCfgWinRes())
}

func TestRendererSetDualScreenParams(t *testing.T) {
	f := newRendererFixture(t, map[string]string{config.KeyDualScreenMiniMapOnLeft: "1"}, caps.Features{})
	r := f.r

	r.SetDualScreenParams()
	assert.False(t, r.Geometry().MiniMapOnLeft, "requires dual-screen mode")

	f.cfg.SetBool(config.KeyDualScreenMode, true)
	r.SetDualScreenParams()
	assert.True(t, r.Geometry().DualScreen)
	assert.True(t, r.Geometry().MiniMapOnLeft)
}

func TestRendererWindowResize(t *testing.T) {
	var resized [][2]int
	f := initRendererFixture(t, nil, caps.Features{}, WithResizeCallback(func(w, h int) {
		resized = append(resized, [2]int{w, h})
	}))
	w := f.window()

	require.NotNil(t, w.onResize)
	w.onResize(1600, 900)

	assert.Equal(t, common.Rect{W: 1600, H: 900}, f.r.Geometry().MainView())
	assert.Equal(t, [4]int{0, 0, 1600, 900}, f.backend.viewports[len(f.backend.viewports)-1])
	assert.Equal(t, [][2]int{{1600, 900}}, resized)

	w.onMove(10, 20)
	assert.Equal(t, common.Int2{X: 10, Y: 20}, f.r.Geometry().WinPos)
}

func TestRendererDestroy(t *testing.T) {
	f := newRendererFixture(t, nil, caps.Features{})
	f.r.Destroy()
	assert.Equal(t, StateUninitialized, f.r.State(), "destroying an uninitialized renderer is a no-op")

	require.NoError(t, f.r.Init())
	f.r.SetWindowTitle("never applied")
	f.r.Destroy()
	assert.Equal(t, StateDestroyed, f.r.State())
	assert.Nil(t, f.r.Window())
	assert.Equal(t, 1, f.backend.destroyed)

	f.r.Destroy()
	assert.Equal(t, 1, f.backend.destroyed)

	f.cfg.SetBool(config.KeyWindowBorderless, true)
	assert.Equal(t, StateDestroyed, f.r.State(), "observer is unsubscribed")
	assert.ErrorIs(t, f.r.Init(), ErrInvalidState)
}

func TestRendererStateTransitions(t *testing.T) {
	r := &renderer{state: StateUninitialized}
	assert.ErrorIs(t, r.transitionLocked(StateActive), ErrInvalidState)
	require.NoError(t, r.transitionLocked(StateWindowCreated))
	require.NoError(t, r.transitionLocked(StateContextReady))
	require.NoError(t, r.transitionLocked(StateActive))
	require.NoError(t, r.transitionLocked(StateConfigChanged))
	require.NoError(t, r.transitionLocked(StateConfigChanged))
	require.NoError(t, r.transitionLocked(StateActive))
	require.NoError(t, r.transitionLocked(StateDestroyed))
	assert.ErrorIs(t, r.transitionLocked(StateActive), ErrInvalidState)
	assert.Equal(t, "destroyed", r.State().String())
}

func TestDisplayModeName(t *testing.T) {
	assert.Equal(t, "windowed::decorated", displayModeName(false, false))
	assert.Equal(t, "windowed::borderless", displayModeName(false, true))
	assert.Equal(t, "fullscreen::exclusive", displayModeName(true, false))
	assert.Equal(t, "fullscreen::non-exclusive", displayModeName(true, true))
}
