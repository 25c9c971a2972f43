package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackendImpl implements the Vulkan backend through the WebGPU Vulkan adapter.
// It owns the instance, surface, adapter, device, and queue; swapchain content beyond
// a cleared frame belongs to higher layers.
type wgpuRendererBackendImpl struct {
	mu       sync.Mutex
	platform window.Platform

	win      window.Window
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	forceFallbackAdapter bool

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	width, height int
	configured    bool

	// viewport is the main view in bottom-left-origin pixels, applied to each frame's pass.
	viewport [4]int
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(platform window.Platform, forceFallbackAdapter bool) *wgpuRendererBackendImpl {
	return &wgpuRendererBackendImpl{
		platform:             platform,
		forceFallbackAdapter: forceFallbackAdapter,
		presentMode:          wgpu.PresentModeFifo,
	}
}

func (b *wgpuRendererBackendImpl) Type() RendererBackendType {
	return BackendTypeVulkan
}

func (b *wgpuRendererBackendImpl) CreateWindow(req windowRequest) (window.Window, caps.ContextInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req.api = window.APINone
	win, msaa, depth, err := negotiateWindow(b.platform, req)
	if err != nil {
		return nil, caps.ContextInfo{}, err
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(win.SurfaceDescriptor())

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
		BackendType:          wgpu.BackendTypeVulkan,
	})
	if err != nil {
		b.releaseLocked()
		_ = win.Close()
		return nil, caps.ContextInfo{}, unsupported("no Vulkan adapter available: %v", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.releaseLocked()
		_ = win.Close()
		return nil, caps.ContextInfo{}, unsupported("failed to create Vulkan device: %v", err)
	}
	b.device = d
	b.queue = d.GetQueue()
	b.win = win

	b.configureSurfaceLocked(win.Width(), win.Height())

	return win, caps.ContextInfo{Core: true, MSAALevel: msaa, DepthBits: depth}, nil
}

// ProbeCapabilities fills reg from the adapter description and limits.
// GL-only flags stay false; the identity strings come from the Vulkan driver.
func (b *wgpuRendererBackendImpl) ProbeCapabilities(reg *caps.Registry, ctx caps.ContextInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.adapter == nil {
		return fmt.Errorf("failed to probe capabilities: %w", ErrInvalidState)
	}

	info := b.adapter.GetInfo()
	if info.VendorName == "" && info.Name == "" {
		return unsupported("Vulkan drivers not installed, aborting")
	}
	limits := b.adapter.GetLimits().Limits

	id := caps.Identity{
		Vendor:   info.VendorName,
		Renderer: info.Name,
		Version:  info.DriverDescription,
	}
	id.VersionShort = caps.ShortVersion(id.Version)
	vendors := caps.DetectVendor(id.Vendor, id.Renderer, id.Version)
	id.GPUVendor, id.GPUName = caps.GPUDisplayName(vendors, id.Vendor, id.Renderer)

	l := caps.DefaultLimits()
	l.MaxTextureSize = max(l.MaxTextureSize, int(limits.MaxTextureDimension2D))
	l.MaxFragmentTextureSlots = max(l.MaxFragmentTextureSlots, int(limits.MaxSampledTexturesPerShaderStage))
	l.MaxCombinedTextureSlots = max(l.MaxCombinedTextureSlots, int(limits.MaxSampledTexturesPerShaderStage))
	l.MaxAttributes = int(limits.MaxVertexAttributes)
	l.MaxDrawBuffers = int(limits.MaxColorAttachments)
	l.MaxUniformBufferBindings = int(limits.MaxUniformBuffersPerShaderStage)
	l.MaxUniformBufferSize = int(limits.MaxUniformBufferBindingSize)
	l.MaxStorageBufferBindings = int(limits.MaxStorageBuffersPerShaderStage)
	l.MaxStorageBufferSize = int(limits.MaxStorageBufferBindingSize)
	l.DepthBufferBits = ctx.DepthBits

	reg.Update(func(c *caps.Capabilities) {
		c.Identity = id
		c.Context = ctx
		c.Vendors = vendors
		c.Limits = l
		c.Features = vulkanFeatures(b.TimerQueries())
	})

	if b.adapter.HasFeature(wgpu.FeatureNameTimestampQuery) {
		log.Printf("[Renderer] Vulkan adapter supports timestamps; GPU frame timing is not wired for this backend")
	}
	log.Printf("[Renderer] Vulkan adapter %q (%s), driver %q", info.Name, info.VendorName, info.DriverDescription)
	return nil
}

// TimerQueries returns nil; GPU timestamps on the Vulkan path are not wired to the timing ring.
func (b *wgpuRendererBackendImpl) TimerQueries() TimerQueries {
	return nil
}

func (b *wgpuRendererBackendImpl) MakeCurrent() {}

func (b *wgpuRendererBackendImpl) ReleaseCurrent() {}

func (b *wgpuRendererBackendImpl) UpdateWindow() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.win != nil {
		b.configureSurfaceLocked(b.win.Width(), b.win.Height())
	}
}

func (b *wgpuRendererBackendImpl) SetSwapInterval(interval int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mode := wgpu.PresentModeFifo
	if interval == 0 {
		mode = wgpu.PresentModeImmediate
	}
	if mode == b.presentMode {
		return
	}
	b.presentMode = mode
	if b.configured {
		b.configureSurfaceLocked(b.width, b.height)
	}
}

func (b *wgpuRendererBackendImpl) Viewport(x, y, width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewport = [4]int{x, y, width, height}
}

// configureSurfaceLocked (re)configures the swapchain for the given framebuffer size.
func (b *wgpuRendererBackendImpl) configureSurfaceLocked(width, height int) {
	if b.surface == nil || b.device == nil || width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.width, b.height = width, height
	b.configured = true
}

// Present clears the main viewport of the current swapchain image and presents it.
func (b *wgpuRendererBackendImpl) Present(clearErrors bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		log.Printf("[Renderer] warning: failed to acquire swapchain image: %v", err)
		if b.win != nil {
			b.configureSurfaceLocked(b.win.Width(), b.win.Height())
		}
		return
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		log.Printf("[Renderer] warning: failed to create swapchain view: %v", err)
		return
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		log.Printf("[Renderer] warning: failed to create command encoder: %v", err)
		return
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	if vp := b.viewport; vp[2] > 0 && vp[3] > 0 {
		// WebGPU viewports use a top-left origin.
		top := b.height - vp[1] - vp[3]
		pass.SetViewport(float32(vp[0]), float32(top), float32(vp[2]), float32(vp[3]), 0, 1)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		log.Printf("[Renderer] warning: failed to finish frame: %v", err)
		return
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
}

func (b *wgpuRendererBackendImpl) SetDebugOutput(enable bool, filter debugFilter, stacktraces bool) error {
	return fmt.Errorf("debug output is not available on the %s backend", BackendTypeVulkan)
}

func (b *wgpuRendererBackendImpl) releaseLocked() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.configured = false
}

func (b *wgpuRendererBackendImpl) DestroyWindow() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseLocked()
	if b.win == nil {
		return
	}
	if err := b.win.Close(); err != nil {
		log.Printf("[Renderer] warning: failed to destroy main window: %v", err)
	}
	b.win = nil
}

// vulkanFeatures returns the feature set guaranteed by a Vulkan adapter.
// TimerQueries follows whether the backend can actually stamp the timing ring.
func vulkanFeatures(timers TimerQueries) caps.Features {
	return caps.Features{
		NonPowerOfTwoTextures: true,
		MSAAFrameBuffer:       true,
		ClipSpaceControl:      true,
		SeamlessCubeMaps:      true,
		UniformBufferData:     true,
		TimerQueries:          timers != nil,
	}
}
