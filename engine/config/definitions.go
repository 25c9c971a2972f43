package config

// ValueKind identifies how a configuration value is parsed and serialized.
type ValueKind int

const (
	// KindInt values are stored as base-10 integers and clamped to [Min, Max] when a range is set.
	KindInt ValueKind = iota

	// KindBool values accept "1"/"0" and "true"/"false".
	KindBool

	// KindFloat values are stored as 64-bit floats and clamped like KindInt.
	KindFloat

	// KindString values are stored verbatim.
	KindString
)

// Definition declares a configuration key with its type, default, and optional range.
type Definition struct {
	Key         string
	Kind        ValueKind
	Default     string
	SafeMode    string // replaces Default when the store runs in safe mode, ignored if empty
	Min         float64
	Max         float64
	HasRange    bool
	Description string
}

// Keys consumed by the renderer core.
const (
	KeyGLContextMajorVersion          = "GLContextMajorVersion"
	KeyGLContextMinorVersion          = "GLContextMinorVersion"
	KeyForceDisablePersistentMapping  = "ForceDisablePersistentMapping"
	KeyForceDisableExplicitAttribLocs = "ForceDisableExplicitAttribLocs"
	KeyForceDisableClipCtrl           = "ForceDisableClipCtrl"
	KeyForceDisableGL4                = "ForceDisableGL4"
	KeyForceCoreContext               = "ForceCoreContext"
	KeyForceSwapBuffers               = "ForceSwapBuffers"
	KeyAtiHacks                       = "AtiHacks"
	KeyClampDepthBits                 = "ClampDepthBits"
	KeyMSAALevel                      = "MSAALevel"
	KeyCompressTextures               = "CompressTextures"
	KeyDualScreenMode                 = "DualScreenMode"
	KeyDualScreenMiniMapOnLeft        = "DualScreenMiniMapOnLeft"
	KeyMinimizeOnFocusLoss            = "MinimizeOnFocusLoss"
	KeyFullscreen                     = "Fullscreen"
	KeyWindowBorderless               = "WindowBorderless"
	KeyBlockCompositing               = "BlockCompositing"
	KeyXResolution                    = "XResolution"
	KeyYResolution                    = "YResolution"
	KeyXResolutionWindowed            = "XResolutionWindowed"
	KeyYResolutionWindowed            = "YResolutionWindowed"
	KeyWindowPosX                     = "WindowPosX"
	KeyWindowPosY                     = "WindowPosY"
	KeyVSync                          = "VSync"
	KeyDebugGL                        = "DebugGL"
	KeyDebugGLStacktraces             = "DebugGLStacktraces"
)

func intDef(key, def string, lo, hi float64, desc string) Definition {
	return Definition{Key: key, Kind: KindInt, Default: def, Min: lo, Max: hi, HasRange: true, Description: desc}
}

func boolDef(key, def, desc string) Definition {
	return Definition{Key: key, Kind: KindBool, Default: def, Description: desc}
}

// RenderingDefinitions returns the declarations of every key the renderer reads.
// A fresh slice is returned on each call.
func RenderingDefinitions() []Definition {
	return []Definition{
		intDef(KeyGLContextMajorVersion, "3", 3, 4, "Minimum OpenGL context major version."),
		intDef(KeyGLContextMinorVersion, "0", 0, 5, "Minimum OpenGL context minor version."),
		intDef(KeyForceDisablePersistentMapping, "0", 0, 1, "Disable persistent buffer mapping even if supported."),
		intDef(KeyForceDisableExplicitAttribLocs, "0", 0, 1, "Disable explicit attribute locations even if supported."),
		intDef(KeyForceDisableClipCtrl, "0", 0, 1, "Disable clip-space control even if supported."),
		{Key: KeyForceDisableGL4, Kind: KindInt, Default: "0", SafeMode: "1", Min: 0, Max: 1, HasRange: true, Description: "Disable the GL4 rendering path."},
		intDef(KeyForceCoreContext, "0", 0, 1, "Request a core profile context."),
		intDef(KeyForceSwapBuffers, "1", 0, 1, "Swap buffers every frame even when nothing was drawn."),
		intDef(KeyAtiHacks, "-1", -1, 1, "AMD proprietary driver workarounds. -1:=runtime detect, 0:=off, 1:=on"),
		intDef(KeyClampDepthBits, "-1", -1, 1, "Clamp the probed depth-buffer bits to 24. -1:=follow AtiHacks, 0:=off, 1:=on"),
		intDef(KeyMSAALevel, "0", 0, 32, "Multisample anti-aliasing level for the main window."),
		boolDef(KeyCompressTextures, "0", "Runtime-compress textures when supported."),
		boolDef(KeyDualScreenMode, "0", "Split the window into a main view and a minimap view."),
		boolDef(KeyDualScreenMiniMapOnLeft, "0", "Place the minimap view on the left in dual-screen mode."),
		boolDef(KeyMinimizeOnFocusLoss, "0", "Minimize the fullscreen window when it loses focus."),
		boolDef(KeyFullscreen, "1", "Run in fullscreen."),
		boolDef(KeyWindowBorderless, "0", "Remove window decorations."),
		boolDef(KeyBlockCompositing, "0", "Ask the window manager to bypass compositing."),
		intDef(KeyXResolution, "0", 0, 1<<15, "Fullscreen width, 0 for desktop width."),
		intDef(KeyYResolution, "0", 0, 1<<15, "Fullscreen height, 0 for desktop height."),
		intDef(KeyXResolutionWindowed, "0", 0, 1<<15, "Windowed width, 0 for desktop width."),
		intDef(KeyYResolutionWindowed, "0", 0, 1<<15, "Windowed height, 0 for desktop height."),
		{Key: KeyWindowPosX, Kind: KindInt, Default: "0", Description: "Window left edge in desktop coordinates."},
		{Key: KeyWindowPosY, Kind: KindInt, Default: "32", Description: "Window top edge in desktop coordinates."},
		intDef(KeyVSync, "1", -1, 1, "Swap interval. -1:=adaptive, 0:=off, 1:=on"),
		boolDef(KeyDebugGL, "0", "Enable a debug context and driver debug output."),
		boolDef(KeyDebugGLStacktraces, "0", "Log a stacktrace for each driver debug message."),
	}
}
