package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithTitle sets the title of the main window.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - RendererBuilderOption: a function that applies the title option to a renderer
func WithTitle(title string) RendererBuilderOption {
	return func(r *renderer) {
		r.title = title
	}
}

// WithFullScreenPolicy selects how the Fullscreen setting and the command-line flags combine.
// The default is FullScreenPolicyEither.
//
// Parameters:
//   - policy: the FullScreenPolicy to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the policy option to a renderer
func WithFullScreenPolicy(policy FullScreenPolicy) RendererBuilderOption {
	return func(r *renderer) {
		r.fullScreenPolicy = policy
	}
}

// WithCLIFlags passes the windowed and fullscreen command-line flags.
//
// Parameters:
//   - windowed: true if the user asked for a window on the command line
//   - fullscreen: true if the user asked for fullscreen on the command line
//
// Returns:
//   - RendererBuilderOption: a function that applies the flags to a renderer
func WithCLIFlags(windowed, fullscreen bool) RendererBuilderOption {
	return func(r *renderer) {
		r.cliWindowed = windowed
		r.cliFullScreen = fullscreen
	}
}

// WithForceSoftwareRenderer forces the Vulkan backend onto a CPU/software fallback adapter.
// This requires a software Vulkan ICD to be installed on the system (e.g. SwiftShader or lavapipe).
// It has no effect on the OpenGL backends.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithResizeCallback registers a callback invoked after the main window is resized.
//
// Parameters:
//   - callback: receives the new window size in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the callback to a renderer
func WithResizeCallback(callback func(width, height int)) RendererBuilderOption {
	return func(r *renderer) {
		r.onResize = callback
	}
}

// withBackend replaces the backend chosen from the backend type.
func withBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}
