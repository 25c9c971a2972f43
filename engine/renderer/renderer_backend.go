package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeLegacyGL selects the fixed-function era OpenGL backend.
	BackendTypeLegacyGL RendererBackendType = iota

	// BackendTypeModernGL selects the OpenGL backend with the framebuffer and float texture floor.
	BackendTypeModernGL

	// BackendTypeVulkan selects the Vulkan backend, reached through the WebGPU Vulkan adapter.
	BackendTypeVulkan
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeLegacyGL:
		return "legacy-gl"
	case BackendTypeModernGL:
		return "modern-gl"
	case BackendTypeVulkan:
		return "vulkan"
	}
	return fmt.Sprintf("backend(%d)", int(t))
}

// RendererBackend is the contract every GPU backend implements.
// All methods except Type must be called with the graphics context owned by the caller.
type RendererBackend interface {
	// Type returns the backend type.
	Type() RendererBackendType

	// CreateWindow creates the main window and its graphics context.
	//
	// Parameters:
	//   - req: the window description before the MSAA and depth fallback search
	//
	// Returns:
	//   - window.Window: the main window
	//   - caps.ContextInfo: the negotiated context, including the chosen MSAA and depth
	//   - error: an UnsupportedError when no usable window or context exists
	CreateWindow(req windowRequest) (window.Window, caps.ContextInfo, error)

	// ProbeCapabilities queries the device and fills reg.
	//
	// Parameters:
	//   - reg: the unfrozen registry
	//   - ctx: the context returned by CreateWindow
	//
	// Returns:
	//   - error: an UnsupportedError when the device is below the feature floor
	ProbeCapabilities(reg *caps.Registry, ctx caps.ContextInfo) error

	// TimerQueries returns the GPU timestamp queries, or nil if the device has none.
	TimerQueries() TimerQueries

	// MakeCurrent binds the graphics context to the calling OS thread.
	MakeCurrent()

	// ReleaseCurrent unbinds the graphics context from the calling OS thread.
	ReleaseCurrent()

	// UpdateWindow re-acquires the context after window attributes changed.
	UpdateWindow()

	// SetSwapInterval applies the vsync setting.
	SetSwapInterval(interval int)

	// Viewport sets the drawable region in bottom-left-origin pixels.
	Viewport(x, y, width, height int)

	// Present shows the back buffer, clearing pending driver errors first when asked.
	Present(clearErrors bool)

	// SetDebugOutput enables or disables driver debug messages matching filter.
	SetDebugOutput(enable bool, filter debugFilter, stacktraces bool) error

	// DestroyWindow releases the context, deletes it, and destroys the window, in that order.
	DestroyWindow()
}
