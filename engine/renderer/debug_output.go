package renderer

import (
	"log"
	"runtime/debug"
)

// debugEnum pairs a GL debug-output enum with its display name.
type debugEnum struct {
	value uint32
	name  string
}

// glDontCare is GL_DONT_CARE, shared by the source, type, and severity tables.
const glDontCare = 0x1100

var debugSources = [...]debugEnum{
	{glDontCare, "DONT_CARE"},
	{0x8246, "API"},
	{0x8247, "WINDOW_SYSTEM"},
	{0x8248, "SHADER_COMPILER"},
	{0x8249, "THIRD_PARTY"},
	{0x824A, "APPLICATION"},
	{0x824B, "OTHER"},
}

var debugTypes = [...]debugEnum{
	{glDontCare, "DONT_CARE"},
	{0x824C, "ERROR"},
	{0x824D, "DEPRECATED"},
	{0x824E, "UNDEFINED"},
	{0x824F, "PORTABILITY"},
	{0x8250, "PERFORMANCE"},
	{0x8268, "MARKER"},
	{0x8269, "PUSH_GROUP"},
	{0x826A, "POP_GROUP"},
	{0x8251, "OTHER"},
}

var debugSeverities = [...]debugEnum{
	{glDontCare, "DONT_CARE"},
	{0x9148, "LOW"},
	{0x9147, "MEDIUM"},
	{0x9146, "HIGH"},
}

// filteredDebugMessageIDs are informational driver messages suppressed from the log.
// 131169 reports framebuffer memory allocation, 131185 buffer placement in video memory.
var filteredDebugMessageIDs = map[uint32]struct{}{
	131169: {},
	131185: {},
}

// debugFilter selects which debug messages the driver reports.
type debugFilter struct {
	source   uint32
	msgType  uint32
	severity uint32
}

// wrapIndex maps any integer onto [0, n).
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// newDebugFilter builds a filter from table indices, wrapping out-of-range values.
func newDebugFilter(src, typ, sev int) debugFilter {
	return debugFilter{
		source:   debugSources[wrapIndex(src, len(debugSources))].value,
		msgType:  debugTypes[wrapIndex(typ, len(debugTypes))].value,
		severity: debugSeverities[wrapIndex(sev, len(debugSeverities))].value,
	}
}

func (f debugFilter) String() string {
	return "source=" + debugEnumName(debugSources[:], f.source) +
		" type=" + debugEnumName(debugTypes[:], f.msgType) +
		" severity=" + debugEnumName(debugSeverities[:], f.severity)
}

func debugEnumName(table []debugEnum, value uint32) string {
	for _, e := range table {
		if e.value == value {
			return e.name
		}
	}
	return "UNKNOWN"
}

// handleDebugMessage logs one driver debug message unless its id is filtered.
// It returns false when the message was suppressed.
func handleDebugMessage(source, msgType, id, severity uint32, message string, stacktraces bool) bool {
	if _, ok := filteredDebugMessageIDs[id]; ok {
		return false
	}

	log.Printf("[OPENGL_DEBUG] id=%d source=%s type=%s severity=%s msg=\"%s\"",
		id,
		debugEnumName(debugSources[:], source),
		debugEnumName(debugTypes[:], msgType),
		debugEnumName(debugSeverities[:], severity),
		message,
	)
	if stacktraces {
		log.Printf("[OPENGL_DEBUG] stacktrace:\n%s", debug.Stack())
	}
	return true
}
