package window

import "fmt"

// ClientAPI selects the graphics API bound to a window at creation time.
type ClientAPI int

const (
	// APIOpenGL creates the window with an OpenGL context.
	APIOpenGL ClientAPI = iota
	// APINone creates a bare window; the caller attaches a Vulkan/WebGPU surface.
	APINone
)

// Attributes describes the window and graphics context requested from the platform.
type Attributes struct {
	Title string

	X, Y          int
	Width, Height int

	MinWidth, MinHeight int
	MaxWidth, MaxHeight int

	Fullscreen bool
	Borderless bool
	Hidden     bool

	// MinimizeOnFocusLoss iconifies a fullscreen window when it loses focus.
	MinimizeOnFocusLoss bool

	API ClientAPI

	// MSAA is the number of samples per pixel; 0 disables multisampling.
	MSAA        int
	DepthBits   int
	StencilBits int

	ContextMajor int
	ContextMinor int
	CoreProfile  bool
	DebugContext bool
}

// WindowBuilderOption is a functional option for configuring window Attributes.
// Use the With* functions to create options.
type WindowBuilderOption func(a *Attributes)

// DefaultAttributes returns the attributes applied before any option.
func DefaultAttributes() Attributes {
	return Attributes{
		Title:       "oxy-render",
		Width:       1024,
		Height:      768,
		MinWidth:    -1,
		MinHeight:   -1,
		MaxWidth:    -1,
		MaxHeight:   -1,
		API:         APIOpenGL,
		DepthBits:   24,
		StencilBits: 8,
	}
}

// BuildAttributes applies options over DefaultAttributes.
//
// Parameters:
//   - options: the options to apply, in order
//
// Returns:
//   - Attributes: the resulting attributes
func BuildAttributes(options ...WindowBuilderOption) Attributes {
	a := DefaultAttributes()
	for _, opt := range options {
		opt(&a)
	}
	return a
}

// WithAttributes replaces every attribute with attrs.
func WithAttributes(attrs Attributes) WindowBuilderOption {
	return func(a *Attributes) {
		*a = attrs
	}
}

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(a *Attributes) {
		a.Title = title
	}
}

// WithMaxWidth sets the maximum allowed window width.
//
// Parameters:
//   - maxWidth: maximum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxWidth(maxWidth int) WindowBuilderOption {
	return func(a *Attributes) {
		a.MaxWidth = maxWidth
	}
}

// WithMaxHeight sets the maximum allowed window height.
//
// Parameters:
//   - maxHeight: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxHeight(maxHeight int) WindowBuilderOption {
	return func(a *Attributes) {
		a.MaxHeight = maxHeight
	}
}

// WithMinWidth sets the minimum allowed window width.
//
// Parameters:
//   - minWidth: minimum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(a *Attributes) {
		a.MinWidth = minWidth
	}
}

// WithMinHeight sets the minimum allowed window height.
//
// Parameters:
//   - minHeight: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(a *Attributes) {
		a.MinHeight = minHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(a *Attributes) {
		a.Width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(a *Attributes) {
		a.Height = height
	}
}

// WithPosition sets the initial top-left corner of the client area.
func WithPosition(x, y int) WindowBuilderOption {
	return func(a *Attributes) {
		a.X = x
		a.Y = y
	}
}

// WithFullscreen requests a fullscreen window. Borderless fullscreen covers the
// desktop without changing the video mode.
//
// Parameters:
//   - fullscreen: true for fullscreen
//   - borderless: true to drop window decorations
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithFullscreen(fullscreen, borderless bool) WindowBuilderOption {
	return func(a *Attributes) {
		a.Fullscreen = fullscreen
		a.Borderless = borderless
	}
}

// WithHidden creates the window invisible.
func WithHidden(hidden bool) WindowBuilderOption {
	return func(a *Attributes) {
		a.Hidden = hidden
	}
}

// WithMinimizeOnFocusLoss iconifies fullscreen windows when they lose focus.
func WithMinimizeOnFocusLoss(minimize bool) WindowBuilderOption {
	return func(a *Attributes) {
		a.MinimizeOnFocusLoss = minimize
	}
}

// WithClientAPI selects the graphics API bound to the window.
func WithClientAPI(api ClientAPI) WindowBuilderOption {
	return func(a *Attributes) {
		a.API = api
	}
}

// WithMultisampling sets the number of framebuffer samples per pixel.
//
// Parameters:
//   - samples: sample count, 0 to disable
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMultisampling(samples int) WindowBuilderOption {
	return func(a *Attributes) {
		a.MSAA = samples
	}
}

// WithDepthBits sets the requested depth buffer precision.
func WithDepthBits(bits int) WindowBuilderOption {
	return func(a *Attributes) {
		a.DepthBits = bits
	}
}

// WithContextVersion requests an OpenGL context of the given version and profile.
//
// Parameters:
//   - major: the context major version
//   - minor: the context minor version
//   - core: true for a core profile, false for compatibility
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithContextVersion(major, minor int, core bool) WindowBuilderOption {
	return func(a *Attributes) {
		a.ContextMajor = major
		a.ContextMinor = minor
		a.CoreProfile = core
	}
}

// WithDebugContext requests a debug-enabled OpenGL context.
func WithDebugContext(debug bool) WindowBuilderOption {
	return func(a *Attributes) {
		a.DebugContext = debug
	}
}

// pixelFormatName describes the framebuffer format implied by the attributes.
func pixelFormatName(a Attributes) string {
	name := fmt.Sprintf("RGBA8888_D%dS%d", a.DepthBits, a.StencilBits)
	if a.MSAA > 0 {
		name += fmt.Sprintf("_MS%d", a.MSAA)
	}
	return name
}
