package caps

import (
	"maps"
	"slices"
	"sync"
)

// Identity holds the raw and derived driver identification strings.
type Identity struct {
	Vendor      string
	Renderer    string
	Version     string
	GLSLVersion string

	VersionShort     string
	GLSLVersionShort string
	GLSLVersionNum   int

	GPUVendor string
	GPUName   string
}

// ContextInfo describes the graphics context that was actually created.
type ContextInfo struct {
	Requested Version
	Actual    Version
	Core      bool
	MSAALevel int
	DepthBits int
}

// Features holds the optional capability flags.
// Each flag is true only when the driver reports support and the user has not disabled it.
type Features struct {
	PersistentMapping       bool
	ExplicitAttribLocations bool
	NonPowerOfTwoTextures   bool
	TextureQueryLOD         bool
	MSAAFrameBuffer         bool
	PrimitiveRestart        bool
	ClipSpaceControl        bool
	SeamlessCubeMaps        bool
	FragDepthLayout         bool
	UniformBufferData       bool
	ModelUniformData        bool
	TimerQueries            bool
	DebugOutput             bool
}

// Limits holds numeric driver limits. Unqueried values keep the defaults from DefaultLimits.
type Limits struct {
	MaxTextureSize          int
	MaxFragmentTextureSlots int
	MaxCombinedTextureSlots int
	MaxAnisotropy           float32

	MaxVaryings           int // vec4 count
	MaxAttributes         int
	MaxDrawBuffers        int
	MaxRecommendedIndices int
	MaxRecommendedVerts   int

	MaxUniformBufferBindings int
	MaxUniformBufferSize     int
	MaxStorageBufferBindings int
	MaxStorageBufferSize     int

	DepthBufferBits int
}

// DefaultLimits returns the fallback limits used when a query is unavailable.
func DefaultLimits() Limits {
	return Limits{
		MaxTextureSize:          2048,
		MaxFragmentTextureSlots: 8,
		MaxCombinedTextureSlots: 8,
	}
}

// Capabilities is the negotiated description of the graphics device.
type Capabilities struct {
	Identity Identity
	Context  ContextInfo
	Vendors  VendorFlags
	Features Features
	Limits   Limits

	HaveGLSL         bool
	HaveGL4          bool
	AMDHacks         bool
	CompressTextures bool

	// DepthClampWorkaround is true while depth buffers are limited to 24 bits, set by
	// ClampDepthBits (or by the AMD hacks when it is -1), even if the probe found 24 or fewer.
	DepthClampWorkaround bool

	Extensions        map[string]struct{}
	CompressedFormats []uint32
	DebugToolAttached bool
}

// HasExtension reports whether the driver advertised ext.
func (c *Capabilities) HasExtension(ext string) bool {
	_, ok := c.Extensions[ext]
	return ok
}

// Vendor returns the primary vendor classification.
func (c *Capabilities) Vendor() Vendor {
	return c.Vendors.Primary()
}

// Registry owns the Capabilities of one graphics device.
// It is written during capability probing and frozen afterwards; once frozen, the
// snapshot it hands out may be read from any goroutine.
type Registry struct {
	mu     sync.RWMutex
	caps   Capabilities
	frozen bool
}

// NewRegistry creates an unfrozen registry with default limits.
//
// Returns:
//   - *Registry: the new registry
func NewRegistry() *Registry {
	return &Registry{
		caps: Capabilities{
			Limits:     DefaultLimits(),
			Extensions: make(map[string]struct{}),
		},
	}
}

// Update applies fn to the registry contents.
// It panics if the registry has already been frozen.
//
// Parameters:
//   - fn: the mutation to apply
func (r *Registry) Update(fn func(c *Capabilities)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("caps: registry is frozen")
	}
	fn(&r.caps)
}

// Freeze seals the registry. Further calls to Update panic.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get returns a copy of the capabilities. The extension set and format list are
// cloned so the caller may not mutate registry state through them.
//
// Returns:
//   - Capabilities: the current capability description
func (r *Registry) Get() Capabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.caps
	c.Extensions = maps.Clone(r.caps.Extensions)
	c.CompressedFormats = slices.Clone(r.caps.CompressedFormats)
	return c
}

// Features returns the feature flags without copying the extension set.
func (r *Registry) Features() Features {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.caps.Features
}

// Limits returns the numeric limits without copying the extension set.
func (r *Registry) Limits() Limits {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.caps.Limits
}
