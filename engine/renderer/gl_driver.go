package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/go-gl/gl/all-core/gl"
)

// Enums from extensions or removed from the core headers.
const (
	glContextProfileMask      = 0x9126
	glContextCompatProfile    = 0x00000002
	glMaxVaryingFloats        = 0x8B4B
	glMaxTextureMaxAnisotropy = 0x84FF
)

// corePromotedExtensions lists extensions folded into core GL, keyed by the version
// that absorbed them. Core-profile drivers stop advertising some of these.
var corePromotedExtensions = []struct {
	version caps.Version
	exts    []string
}{
	{caps.Version{Major: 1, Minor: 3}, []string{"GL_ARB_multitexture", "GL_ARB_texture_env_combine", "GL_ARB_texture_compression", "GL_ARB_multisample"}},
	{caps.Version{Major: 2, Minor: 0}, []string{"GL_ARB_vertex_shader", "GL_ARB_fragment_shader", "GL_ARB_texture_non_power_of_two"}},
	{caps.Version{Major: 3, Minor: 0}, []string{"GL_ARB_texture_float", "GL_ARB_framebuffer_object", "GL_EXT_framebuffer_multisample"}},
	{caps.Version{Major: 3, Minor: 1}, []string{"GL_ARB_uniform_buffer_object"}},
	{caps.Version{Major: 3, Minor: 2}, []string{"GL_ARB_seamless_cube_map"}},
	{caps.Version{Major: 3, Minor: 3}, []string{"GL_ARB_timer_query", "GL_ARB_explicit_attrib_location"}},
	{caps.Version{Major: 4, Minor: 0}, []string{"GL_ARB_texture_query_lod"}},
	{caps.Version{Major: 4, Minor: 2}, []string{"GL_ARB_conservative_depth"}},
	{caps.Version{Major: 4, Minor: 3}, []string{"GL_ARB_multi_draw_indirect", "GL_ARB_shader_storage_buffer_object", "GL_KHR_debug"}},
	{caps.Version{Major: 4, Minor: 4}, []string{"GL_ARB_buffer_storage"}},
	{caps.Version{Major: 4, Minor: 5}, []string{"GL_ARB_clip_control"}},
}

// glDriver implements Driver with go-gl against the context current on the calling thread.
type glDriver struct {
	loaded bool
}

var _ Driver = &glDriver{}

// load resolves GL function pointers. A context must be current.
//
// Reference: https://pkg.go.dev/github.com/go-gl/gl/all-core/gl#Init
func (d *glDriver) load() error {
	if d.loaded {
		return nil
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	d.loaded = true
	return nil
}

func (d *glDriver) String(name DriverString) string {
	var enum uint32
	switch name {
	case StringVendor:
		enum = gl.VENDOR
	case StringRenderer:
		enum = gl.RENDERER
	case StringVersion:
		enum = gl.VERSION
	case StringShadingLanguageVersion:
		enum = gl.SHADING_LANGUAGE_VERSION
	default:
		return ""
	}
	s := gl.GetString(enum)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (d *glDriver) version() caps.Version {
	return caps.Version{Major: d.Integer(ParamMajorVersion), Minor: d.Integer(ParamMinorVersion)}
}

func (d *glDriver) Extensions() []string {
	seen := make(map[string]struct{})
	var exts []string
	add := func(e string) {
		if _, ok := seen[e]; ok || e == "" {
			return
		}
		seen[e] = struct{}{}
		exts = append(exts, e)
	}

	v := d.version()
	if v.Major >= 3 {
		var n int32
		gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
		for i := range uint32(n) {
			if s := gl.GetStringi(gl.EXTENSIONS, i); s != nil {
				add(gl.GoStr(s))
			}
		}
	} else if s := gl.GetString(gl.EXTENSIONS); s != nil {
		for _, e := range strings.Fields(gl.GoStr(s)) {
			add(e)
		}
	}

	for _, p := range corePromotedExtensions {
		if !v.AtLeast(p.version) {
			break
		}
		for _, e := range p.exts {
			add(e)
		}
	}
	return exts
}

func (d *glDriver) paramEnum(param DriverParam) (uint32, bool) {
	switch param {
	case ParamMajorVersion:
		return gl.MAJOR_VERSION, true
	case ParamMinorVersion:
		return gl.MINOR_VERSION, true
	case ParamContextProfileMask:
		return glContextProfileMask, true
	case ParamMaxTextureSize:
		return gl.MAX_TEXTURE_SIZE, true
	case ParamMaxTextureImageUnits:
		return gl.MAX_TEXTURE_IMAGE_UNITS, true
	case ParamMaxCombinedTextureImageUnits:
		return gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, true
	case ParamMaxVaryingFloats:
		return glMaxVaryingFloats, true
	case ParamMaxVertexAttribs:
		return gl.MAX_VERTEX_ATTRIBS, true
	case ParamMaxDrawBuffers:
		return gl.MAX_DRAW_BUFFERS, true
	case ParamMaxElementsIndices:
		return gl.MAX_ELEMENTS_INDICES, true
	case ParamMaxElementsVertices:
		return gl.MAX_ELEMENTS_VERTICES, true
	case ParamMaxUniformBufferBindings:
		return gl.MAX_UNIFORM_BUFFER_BINDINGS, true
	case ParamMaxUniformBlockSize:
		return gl.MAX_UNIFORM_BLOCK_SIZE, true
	case ParamMaxShaderStorageBufferBindings:
		return gl.MAX_SHADER_STORAGE_BUFFER_BINDINGS, true
	case ParamMaxShaderStorageBlockSize:
		return gl.MAX_SHADER_STORAGE_BLOCK_SIZE, true
	case ParamSampleBuffers:
		return gl.SAMPLE_BUFFERS, true
	case ParamSamples:
		return gl.SAMPLES, true
	case ParamMaxTextureMaxAnisotropy:
		return glMaxTextureMaxAnisotropy, true
	}
	return 0, false
}

func (d *glDriver) Integer(param DriverParam) int {
	enum, ok := d.paramEnum(param)
	if !ok {
		return 0
	}
	var v int32
	gl.GetIntegerv(enum, &v)
	if gl.GetError() != gl.NO_ERROR {
		return 0
	}
	return int(v)
}

func (d *glDriver) Float(param DriverParam) float32 {
	enum, ok := d.paramEnum(param)
	if !ok {
		return 0
	}
	var v float32
	gl.GetFloatv(enum, &v)
	if gl.GetError() != gl.NO_ERROR {
		return 0
	}
	return v
}

// TestDepthFormat attaches an RGBA8 color and a depth renderbuffer to a 16x16
// framebuffer and reports whether the driver accepts the combination.
func (d *glDriver) TestDepthFormat(bits int) bool {
	var format uint32
	switch bits {
	case 16:
		format = gl.DEPTH_COMPONENT16
	case 24:
		format = gl.DEPTH_COMPONENT24
	case 32:
		format = gl.DEPTH_COMPONENT32
	default:
		return false
	}

	var fbo uint32
	var rbos [2]uint32
	gl.GenFramebuffers(1, &fbo)
	gl.GenRenderbuffers(2, &rbos[0])
	defer func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
		gl.DeleteRenderbuffers(2, &rbos[0])
		gl.DeleteFramebuffers(1, &fbo)
	}()

	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	gl.BindRenderbuffer(gl.RENDERBUFFER, rbos[0])
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, 16, 16)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, rbos[0])

	gl.BindRenderbuffer(gl.RENDERBUFFER, rbos[1])
	gl.RenderbufferStorage(gl.RENDERBUFFER, format, 16, 16)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rbos[1])

	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func compileShader(kind uint32, src string) (uint32, error) {
	handle := gl.CreateShader(kind)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("failed to compile shader: %s", strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

func (d *glDriver) CompileTestProgram(vertexSrc, fragmentSrc string) error {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	defer gl.DeleteProgram(prog)
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.ValidateProgram(prog)
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &vao)

	for _, check := range [...]struct {
		pname uint32
		what  string
	}{{gl.LINK_STATUS, "link"}, {gl.VALIDATE_STATUS, "validate"}} {
		var status int32
		gl.GetProgramiv(prog, check.pname, &status)
		if status != gl.FALSE {
			continue
		}
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(msg))
		return fmt.Errorf("failed to %s program: %s", check.what, strings.TrimRight(msg, "\x00"))
	}
	return nil
}

func (d *glDriver) CompressedFormats() []uint32 {
	var n int32
	gl.GetIntegerv(gl.NUM_COMPRESSED_TEXTURE_FORMATS, &n)
	if n <= 0 {
		return nil
	}
	raw := make([]int32, n)
	gl.GetIntegerv(gl.COMPRESSED_TEXTURE_FORMATS, &raw[0])

	formats := make([]uint32, n)
	for i, f := range raw {
		formats[i] = uint32(f)
	}
	return formats
}

func (d *glDriver) DebugToolAttached() bool {
	for _, e := range d.Extensions() {
		if e == "GL_EXT_debug_tool" {
			return true
		}
	}
	return false
}

// contextProfile reads back whether the current context is a core profile.
// Drivers that report no profile mask are core unless they expose ARB_compatibility.
func (d *glDriver) contextProfile() bool {
	mask := d.Integer(ParamContextProfileMask)
	if mask != 0 {
		return mask&glContextCompatProfile == 0
	}
	for _, e := range d.Extensions() {
		if e == "GL_ARB_compatibility" {
			return false
		}
	}
	return true
}

// clearErrors drains the driver error queue.
func (d *glDriver) clearErrors() {
	for range 64 {
		if gl.GetError() == gl.NO_ERROR {
			return
		}
	}
}

// glTimerQueries implements TimerQueries with GL timestamp query objects.
type glTimerQueries struct {
	ids [2 * NumTimerQueries]uint32
}

var _ TimerQueries = &glTimerQueries{}

func newGLTimerQueries() *glTimerQueries {
	q := &glTimerQueries{}
	gl.GenQueries(int32(len(q.ids)), &q.ids[0])
	return q
}

func (q *glTimerQueries) Stamp(slot int) {
	gl.QueryCounter(q.ids[slot], gl.TIMESTAMP)
}

func (q *glTimerQueries) Available(slot int) bool {
	var v int32
	gl.GetQueryObjectiv(q.ids[slot], gl.QUERY_RESULT_AVAILABLE, &v)
	return v != 0
}

func (q *glTimerQueries) Result(slot int) uint64 {
	var v uint64
	gl.GetQueryObjectui64v(q.ids[slot], gl.QUERY_RESULT, &v)
	return v
}

func (q *glTimerQueries) Delete() {
	gl.DeleteQueries(int32(len(q.ids)), &q.ids[0])
}

// setGLDebugOutput installs or removes the driver debug callback.
//
// Reference: https://www.khronos.org/opengl/wiki/Debug_Output
func setGLDebugOutput(enable bool, filter debugFilter, stacktraces bool) {
	if !enable {
		gl.DebugMessageCallback(nil, nil)
		gl.Disable(gl.DEBUG_OUTPUT)
		gl.Disable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
		return
	}

	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		handleDebugMessage(source, gltype, id, severity, message, stacktraces)
	}, nil)
	gl.DebugMessageControl(glDontCare, glDontCare, glDontCare, 0, nil, false)
	gl.DebugMessageControl(filter.source, filter.msgType, filter.severity, 0, nil, true)
}
