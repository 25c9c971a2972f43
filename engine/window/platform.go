package window

import "github.com/Carmen-Shannon/oxy-render/common"

// Platform wraps the process-wide windowing system.
// Init, CreateWindow, and PollEvents must be called from the main thread.
type Platform interface {
	// Init initializes the windowing system and locks the calling goroutine to its OS thread.
	//
	// Returns:
	//   - error: error if the windowing system is unavailable
	Init() error

	// Terminate destroys any remaining windows and shuts the windowing system down.
	Terminate()

	// CreateWindow opens a window with the given options applied over DefaultAttributes.
	//
	// Parameters:
	//   - options: the window builder options
	//
	// Returns:
	//   - Window: the created window
	//   - error: error if the platform rejected the attributes
	CreateWindow(options ...WindowBuilderOption) (Window, error)

	// Displays returns the desktop rectangle of every connected display, primary first.
	Displays() []common.Rect

	// DesktopColorBits returns the summed red, green, and blue bits of the primary display mode.
	DesktopColorBits() int

	// DetachCurrentContext unbinds any graphics context from the calling thread.
	DetachCurrentContext()

	// SetSwapInterval sets the vsync interval of the current context.
	SetSwapInterval(interval int)

	// PollEvents processes pending events for every window without blocking.
	PollEvents()
}
