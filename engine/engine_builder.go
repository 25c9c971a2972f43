package engine

import (
	"io"
	"time"

	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/Carmen-Shannon/oxy-render/engine/uploader"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithBackendType selects the renderer backend. Defaults to BackendTypeLegacyGL.
//
// Parameters:
//   - t: the backend type
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackendType(t renderer.RendererBackendType) EngineBuilderOption {
	return func(e *engine) {
		e.backendType = t
	}
}

// WithPlatform sets a custom windowing platform rather than the default GLFW platform.
//
// Parameters:
//   - p: the platform to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPlatform(p window.Platform) EngineBuilderOption {
	return func(e *engine) {
		e.platform = p
	}
}

// WithConfig sets a pre-built settings store. Config options are ignored when a store is given.
//
// Parameters:
//   - cfg: the settings store
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// WithConfigOptions appends options used to build the default settings store.
func WithConfigOptions(options ...config.ConfigBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.configOptions = append(e.configOptions, options...)
	}
}

// WithSettingsFile loads settings from a TOML or YAML file and reloads it when it changes on disk.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSettingsFile(path string) EngineBuilderOption {
	return WithConfigOptions(config.WithFile(path), config.WithWatch(path))
}

// WithRendererOptions appends options passed to renderer.NewRenderer.
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithRenderer sets a pre-built renderer. It must not be initialized yet.
//
// Parameters:
//   - r: the renderer to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithUploaderOptions appends options passed to uploader.NewUploader.
func WithUploaderOptions(options ...uploader.UploaderBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.uploaderOptions = append(e.uploaderOptions, options...)
	}
}

// WithHotkeys enables or disables the built-in window hotkeys (Esc, F11, T, G, M, D).
// Enabled by default.
//
// Parameters:
//   - enabled: false to leave key presses to the application
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHotkeys(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.hotkeys = enabled
	}
}

func withExit(stderr io.Writer, exit func(code int)) EngineBuilderOption {
	return func(e *engine) {
		e.stderr = stderr
		e.exit = exit
	}
}
