package renderer

import (
	"log"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
)

// DriverString names a driver identification string.
type DriverString int

const (
	StringVendor DriverString = iota
	StringRenderer
	StringVersion
	StringShadingLanguageVersion
)

// DriverParam names a numeric driver query.
type DriverParam int

const (
	ParamMajorVersion DriverParam = iota
	ParamMinorVersion
	ParamContextProfileMask
	ParamMaxTextureSize
	ParamMaxTextureImageUnits
	ParamMaxCombinedTextureImageUnits
	ParamMaxVaryingFloats
	ParamMaxVertexAttribs
	ParamMaxDrawBuffers
	ParamMaxElementsIndices
	ParamMaxElementsVertices
	ParamMaxUniformBufferBindings
	ParamMaxUniformBlockSize
	ParamMaxShaderStorageBufferBindings
	ParamMaxShaderStorageBlockSize
	ParamSampleBuffers
	ParamSamples
	ParamMaxTextureMaxAnisotropy
)

// Driver is the query surface of a current graphics context used by capability probing.
type Driver interface {
	// String returns an identification string, or "" when the driver returns none.
	String(name DriverString) string

	// Extensions returns every advertised extension name.
	Extensions() []string

	// Integer returns a numeric limit, or 0 when the query fails.
	Integer(param DriverParam) int

	// Float returns a floating point limit, or 0 when the query fails.
	Float(param DriverParam) float32

	// TestDepthFormat reports whether a 16x16 RGBA8 framebuffer with a depth
	// attachment of the given precision is complete.
	TestDepthFormat(bits int) bool

	// CompileTestProgram compiles, links, and validates a throwaway shader program.
	CompileTestProgram(vertexSrc, fragmentSrc string) error

	// CompressedFormats returns the supported compressed texture formats.
	CompressedFormats() []uint32

	// DebugToolAttached reports whether a GPU debugger intercepts the context.
	DebugToolAttached() bool
}

var (
	legacyMandatoryExtensions = []string{
		"GL_ARB_multitexture",
		"GL_ARB_texture_env_combine",
		"GL_ARB_texture_compression",
	}
	modernMandatoryExtensions = slices.Concat(legacyMandatoryExtensions, []string{
		"GL_ARB_texture_float",
		"GL_ARB_texture_non_power_of_two",
		"GL_ARB_framebuffer_object",
	})
)

// gl4TestVertexShader exercises the storage buffer path of the modern pipeline.
const gl4TestVertexShader = `#version 430 core
layout(std140, binding = 1) readonly buffer MatrixBuffer {
	mat4 mat[];
};
in vec3 pos;
in uint instIdx;
void main() {
	gl_Position = mat[instIdx] * vec4(pos, 1.0);
}
`

const gl4TestFragmentShader = `#version 430 core
out vec4 fragColor;
void main() {
	fragColor = vec4(1.0);
}
`

const unknownString = "unknown"

// probeCapabilities queries the current context and fills reg.
// Identity, mandatory extensions, and shader support are fatal when missing;
// everything else degrades to a disabled flag or a default limit.
//
// Parameters:
//   - d: the driver of the current context
//   - cfg: the config store, read for forced overrides
//   - backendType: selects the mandatory extension list
//   - ctx: the negotiated context, its MSAA level is corrected in place
//   - reg: the unfrozen registry to populate
//
// Returns:
//   - error: an UnsupportedError when the device is below the feature floor
func probeCapabilities(d Driver, cfg config.Config, backendType RendererBackendType, ctx caps.ContextInfo, reg *caps.Registry) error {
	id := readIdentity(d)
	if id.GLSLVersion == unknownString {
		return unsupported("OpenGL shaders not supported, aborting")
	}
	if id.Vendor == unknownString {
		return unsupported("OpenGL drivers not installed, aborting")
	}

	exts := make(map[string]struct{})
	for _, e := range d.Extensions() {
		exts[e] = struct{}{}
	}
	has := func(name string) bool {
		_, ok := exts[name]
		return ok
	}

	debugTool := d.DebugToolAttached() || has("GL_GREMEDY_string_marker") || has("GL_GREMEDY_frame_terminator")
	if !debugTool {
		mandatory := legacyMandatoryExtensions
		if backendType == BackendTypeModernGL {
			mandatory = modernMandatoryExtensions
		}
		if err := checkMandatoryExtensions(has, mandatory, id); err != nil {
			return err
		}
	}

	vendors := caps.DetectVendor(id.Vendor, id.Renderer, id.Version)
	id.GPUVendor, id.GPUName = caps.GPUDisplayName(vendors, id.Vendor, id.Renderer)

	glVersion, err := caps.ParseVersion(id.Version)
	if err != nil {
		glVersion = ctx.Actual
	}
	haveGLSL := id.GLSLVersion != "" &&
		has("GL_ARB_vertex_shader") && has("GL_ARB_fragment_shader") &&
		glVersion.AtLeast(caps.Version{Major: 2, Minor: 0})
	if !haveGLSL {
		return unsupported("OpenGL shaders not supported, aborting")
	}

	features := caps.Features{
		PersistentMapping:       has("GL_ARB_buffer_storage") && !cfg.GetBool(config.KeyForceDisablePersistentMapping),
		ExplicitAttribLocations: has("GL_ARB_explicit_attrib_location") && !cfg.GetBool(config.KeyForceDisableExplicitAttribLocs),
		NonPowerOfTwoTextures:   has("GL_ARB_texture_non_power_of_two"),
		TextureQueryLOD:         has("GL_ARB_texture_query_lod"),
		MSAAFrameBuffer:         has("GL_EXT_framebuffer_multisample"),
		PrimitiveRestart:        has("GL_NV_primitive_restart"),
		ClipSpaceControl:        has("GL_ARB_clip_control") && !cfg.GetBool(config.KeyForceDisableClipCtrl),
		SeamlessCubeMaps:        has("GL_ARB_seamless_cube_map"),
		FragDepthLayout:         has("GL_ARB_conservative_depth"),
		TimerQueries:            has("GL_ARB_timer_query"),
		DebugOutput:             has("GL_ARB_debug_output") || has("GL_KHR_debug"),
	}

	var amdHacks bool
	switch ati := cfg.GetInt(config.KeyAtiHacks); {
	case ati < 0:
		amdHacks = vendors.AMD && !vendors.Mesa
	default:
		amdHacks = ati > 0
	}

	clampDepth := amdHacks
	if c := cfg.GetInt(config.KeyClampDepthBits); c >= 0 {
		clampDepth = c > 0
	}

	limits := probeLimits(d, has)
	limits.DepthBufferBits = probeDepthBits(d)
	if clampDepth && limits.DepthBufferBits > 24 {
		limits.DepthBufferBits = 24
	}

	haveGL4 := probeGL4(d, has, cfg)
	features.UniformBufferData = haveGL4
	features.ModelUniformData = haveGL4

	ctx.MSAALevel = checkMultiSampling(d, has, ctx.MSAALevel)

	formats := d.CompressedFormats()

	reg.Update(func(c *caps.Capabilities) {
		c.Identity = id
		c.Context = ctx
		c.Vendors = vendors
		c.Features = features
		c.Limits = limits
		c.HaveGLSL = haveGLSL
		c.HaveGL4 = haveGL4
		c.AMDHacks = amdHacks
		c.CompressTextures = cfg.GetBool(config.KeyCompressTextures) && has("GL_ARB_texture_compression")
		c.DepthClampWorkaround = clampDepth
		c.Extensions = exts
		c.CompressedFormats = formats
		c.DebugToolAttached = debugTool
	})
	return nil
}

func readIdentity(d Driver) caps.Identity {
	get := func(name DriverString) string {
		if s := d.String(name); s != "" {
			return s
		}
		return unknownString
	}

	id := caps.Identity{
		Vendor:      get(StringVendor),
		Renderer:    get(StringRenderer),
		Version:     get(StringVersion),
		GLSLVersion: get(StringShadingLanguageVersion),
	}
	id.VersionShort = caps.ShortVersion(id.Version)
	id.GLSLVersionShort = caps.ShortVersion(id.GLSLVersion)
	id.GLSLVersionNum = caps.GLSLVersionNum(id.GLSLVersion)
	return id
}

func checkMandatoryExtensions(has func(string) bool, mandatory []string, id caps.Identity) error {
	var missing []string
	for _, ext := range mandatory {
		if !has(ext) {
			missing = append(missing, strings.TrimPrefix(ext, "GL_ARB_"))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return unsupported(
		"OpenGL extension(s) GL_ARB_{%s} not found; update your GPU drivers!\n  GL renderer: %s\n  GL  version: %s\n",
		strings.Join(missing, ", "), id.Renderer, id.Version,
	)
}

// probeDepthBits returns the highest depth precision that yields a complete framebuffer, or 0.
func probeDepthBits(d Driver) int {
	best := 0
	for _, bits := range [...]int{16, 24, 32} {
		if d.TestDepthFormat(bits) {
			best = max(best, bits)
		}
	}
	return best
}

func probeLimits(d Driver, has func(string) bool) caps.Limits {
	l := caps.DefaultLimits()
	set := func(dst *int, param DriverParam, div int) {
		if v := d.Integer(param); v > 0 {
			*dst = v / div
		}
	}

	set(&l.MaxTextureSize, ParamMaxTextureSize, 1)
	set(&l.MaxFragmentTextureSlots, ParamMaxTextureImageUnits, 1)
	set(&l.MaxCombinedTextureSlots, ParamMaxCombinedTextureImageUnits, 1)
	set(&l.MaxVaryings, ParamMaxVaryingFloats, 4)
	set(&l.MaxAttributes, ParamMaxVertexAttribs, 1)
	set(&l.MaxDrawBuffers, ParamMaxDrawBuffers, 1)
	set(&l.MaxRecommendedIndices, ParamMaxElementsIndices, 1)
	set(&l.MaxRecommendedVerts, ParamMaxElementsVertices, 1)

	if has("GL_EXT_texture_filter_anisotropic") {
		if v := d.Float(ParamMaxTextureMaxAnisotropy); v > 0 {
			l.MaxAnisotropy = v
		}
	}
	if has("GL_ARB_uniform_buffer_object") {
		set(&l.MaxUniformBufferBindings, ParamMaxUniformBufferBindings, 1)
		set(&l.MaxUniformBufferSize, ParamMaxUniformBlockSize, 1)
	}
	if has("GL_ARB_shader_storage_buffer_object") {
		set(&l.MaxStorageBufferBindings, ParamMaxShaderStorageBufferBindings, 1)
		set(&l.MaxStorageBufferSize, ParamMaxShaderStorageBlockSize, 1)
	}
	return l
}

// probeGL4 decides whether the modern storage-buffer pipeline can be used.
func probeGL4(d Driver, has func(string) bool, cfg config.Config) bool {
	if cfg.GetBool(config.KeyForceDisableGL4) {
		return false
	}
	for _, ext := range [...]string{"GL_ARB_multi_draw_indirect", "GL_ARB_uniform_buffer_object", "GL_ARB_shader_storage_buffer_object"} {
		if !has(ext) {
			return false
		}
	}
	if err := d.CompileTestProgram(gl4TestVertexShader, gl4TestFragmentShader); err != nil {
		log.Printf("[Caps] GL4 test shader failed: %v", err)
		return false
	}
	return true
}

// checkMultiSampling returns msaa, or 0 when the framebuffer has no sample buffers.
func checkMultiSampling(d Driver, has func(string) bool, msaa int) int {
	if msaa == 0 {
		return 0
	}
	if !has("GL_ARB_multisample") || d.Integer(ParamSampleBuffers) == 0 || d.Integer(ParamSamples) == 0 {
		log.Printf("[Caps] multisampling unavailable, disabling %dx anti-aliasing", msaa)
		return 0
	}
	return msaa
}

// logVersionInfo writes the capability summary.
func logVersionInfo(c caps.Capabilities) {
	id := c.Identity
	log.Printf("[Caps] GL info:")
	log.Printf("[Caps] \tvendor  : %s (%s)", id.Vendor, c.Vendor())
	log.Printf("[Caps] \trenderer: %s", id.Renderer)
	log.Printf("[Caps] \tversion : %s (GLSL %s)", id.Version, id.GLSLVersion)
	log.Printf("[Caps] \tGPU     : %s / %s", id.GPUVendor, id.GPUName)
	log.Printf("[Caps] \tcontext : requested %s, actual %s (%s profile, %dx MSAA, %d-bit depth)",
		c.Context.Requested, c.Context.Actual, profileName(c.Context.Core), c.Context.MSAALevel, c.Context.DepthBits)

	f := c.Features
	log.Printf("[Caps] \tGLSL=%t GL4=%t AMDHacks=%t DepthClamp=%t CompressTextures=%t",
		c.HaveGLSL, c.HaveGL4, c.AMDHacks, c.DepthClampWorkaround, c.CompressTextures)
	log.Printf("[Caps] \tpersistent-mapping=%t explicit-attribs=%t npot=%t query-lod=%t msaa-fbo=%t",
		f.PersistentMapping, f.ExplicitAttribLocations, f.NonPowerOfTwoTextures, f.TextureQueryLOD, f.MSAAFrameBuffer)
	log.Printf("[Caps] \tprimitive-restart=%t clip-control=%t seamless-cubemaps=%t frag-depth-layout=%t",
		f.PrimitiveRestart, f.ClipSpaceControl, f.SeamlessCubeMaps, f.FragDepthLayout)
	log.Printf("[Caps] \tuniform-buffers=%t model-uniforms=%t timer-queries=%t debug-output=%t",
		f.UniformBufferData, f.ModelUniformData, f.TimerQueries, f.DebugOutput)

	l := c.Limits
	log.Printf("[Caps] \tmax texture size=%d, fragment/combined texture slots=%d/%d, anisotropy=%.1f",
		l.MaxTextureSize, l.MaxFragmentTextureSlots, l.MaxCombinedTextureSlots, l.MaxAnisotropy)
	log.Printf("[Caps] \tmax varyings=%d, attributes=%d, draw buffers=%d, recommended indices/vertices=%d/%d",
		l.MaxVaryings, l.MaxAttributes, l.MaxDrawBuffers, l.MaxRecommendedIndices, l.MaxRecommendedVerts)
	log.Printf("[Caps] \tUBO bindings=%d size=%d, SSBO bindings=%d size=%d, depth bits=%d",
		l.MaxUniformBufferBindings, l.MaxUniformBufferSize, l.MaxStorageBufferBindings, l.MaxStorageBufferSize, l.DepthBufferBits)
	log.Printf("[Caps] \tcompressed texture formats: %s", caps.DescribeCompressedFormats(c.CompressedFormats))
	log.Printf("[Caps] \textensions: %d", len(c.Extensions))
}
