package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyD   = 68  // D key (ASCII)
	KeyF   = 70  // F key (ASCII)
	KeyG   = 71  // G key (ASCII)
	KeyM   = 77  // M key (ASCII)
	KeyT   = 84  // T key (ASCII)
	KeyEsc = 256 // Escape key (GLFW)

	KeyF11 = 300 // F11 key (GLFW)
)
