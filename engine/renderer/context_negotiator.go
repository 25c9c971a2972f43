package renderer

import (
	"log"

	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
)

// contextFactory creates graphics contexts for the context negotiator.
// With GLFW a context lives inside a window, so contexts are windows here:
// the main context is the main window, trial contexts are hidden throwaway windows.
type contextFactory interface {
	// createContext creates a context for req. Trial contexts are only probed and destroyed.
	createContext(req contextRequest, trial bool) (window.Window, error)

	// destroyContext releases a context created by createContext.
	destroyContext(ctx window.Window)

	// contextVersion makes ctx current and reads back its version and profile.
	contextVersion(ctx window.Window) (caps.Version, bool, error)
}

// negotiateContext creates the main context with at least the minimum version.
// When the requested version and profile fail, every legal version is tried as a
// throwaway core and compatibility context, and the main context is recreated with
// the first compatibility version at or above the minimum.
//
// Parameters:
//   - f: the context factory
//   - minimum: the lowest acceptable version, which must be in caps.LegalGLVersions
//   - core: true to request a core profile first
//   - debug: true to request a debug context
//
// Returns:
//   - window.Window: the window owning the main context
//   - caps.ContextInfo: the requested and actual versions and profile
//   - error: an UnsupportedError if no acceptable context exists
func negotiateContext(f contextFactory, minimum caps.Version, core, debug bool) (window.Window, caps.ContextInfo, error) {
	if !caps.IsLegalGLVersion(minimum) {
		return nil, caps.ContextInfo{}, unsupported("illegal OpenGL context-version specified, aborting")
	}

	req := contextRequest{version: minimum, core: core, debug: debug}
	ctx, err := f.createContext(req, false)
	if err != nil {
		log.Printf("[Renderer] warning: failed to create %s context version %s: %v", profileName(core), minimum, err)

		best, found := probeContextVersions(f, minimum, debug)
		if !found {
			return nil, caps.ContextInfo{}, unsupported("no OpenGL context of version %s or newer could be created, aborting", minimum)
		}

		log.Printf("[Renderer] falling back to %s context version %s", profileName(false), best)
		req = contextRequest{version: best, core: false, debug: debug}
		if ctx, err = f.createContext(req, false); err != nil {
			if IsUnsupported(err) {
				return nil, caps.ContextInfo{}, err
			}
			return nil, caps.ContextInfo{}, unsupported("failed to create OpenGL context version %s: %v", best, err)
		}
	}

	actual, actualCore, err := f.contextVersion(ctx)
	if err != nil {
		f.destroyContext(ctx)
		return nil, caps.ContextInfo{}, unsupported("failed to query OpenGL context version: %v", err)
	}
	if !actual.AtLeast(minimum) {
		f.destroyContext(ctx)
		return nil, caps.ContextInfo{}, unsupported("minimum required OpenGL version not supported, aborting")
	}

	return ctx, caps.ContextInfo{
		Requested: req.version,
		Actual:    actual,
		Core:      actualCore,
	}, nil
}

// probeContextVersions tries every legal version as a core and a compatibility trial
// context and returns the lowest compatibility version at or above minimum.
// Every trial context is destroyed before returning.
func probeContextVersions(f contextFactory, minimum caps.Version, debug bool) (caps.Version, bool) {
	var best caps.Version
	found := false

	for _, v := range caps.LegalGLVersions {
		for _, core := range [...]bool{true, false} {
			trial, err := f.createContext(contextRequest{version: v, core: core, debug: debug}, true)
			if err != nil {
				continue
			}
			f.destroyContext(trial)

			log.Printf("[Renderer] trial %s context version %s available", profileName(core), v)
			if !core && !found && v.AtLeast(minimum) {
				best, found = v, true
			}
		}
	}
	return best, found
}

func profileName(core bool) string {
	if core {
		return "core"
	}
	return "compatibility"
}
