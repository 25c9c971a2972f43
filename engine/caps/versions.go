package caps

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a graphics API version pair.
type Version struct {
	Major int
	Minor int
}

// Num returns the comparable form major*10+minor, so that 4.1 ranks above 3.2.
func (v Version) Num() int {
	return v.Major*10 + v.Minor
}

// AtLeast reports whether v is the same as or newer than o.
func (v Version) AtLeast(o Version) bool {
	return v.Num() >= o.Num()
}

// IsZero reports whether v is the unset version 0.0.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// LegalGLVersions lists every released OpenGL version, lowest first.
// Context negotiation only accepts minimums from this table and probes fallbacks in this order.
var LegalGLVersions = [...]Version{
	{2, 0}, {2, 1},
	{3, 0}, {3, 1}, {3, 2}, {3, 3},
	{4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4}, {4, 5}, {4, 6},
}

// IsLegalGLVersion reports whether v is present in LegalGLVersions.
func IsLegalGLVersion(v Version) bool {
	for _, l := range LegalGLVersions {
		if l == v {
			return true
		}
	}
	return false
}

// ShortVersion returns s up to (not including) the first space.
// "4.6.0 NVIDIA 535.54" becomes "4.6.0".
func ShortVersion(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

// ParseVersion extracts the first major.minor pair found in a driver version string.
// Each whitespace-separated token is tried in order, so both "4.6.0 NVIDIA 535.54"
// and "OpenGL ES 3.2 Mesa 23.1" resolve.
//
// Parameters:
//   - s: the raw driver version string
//
// Returns:
//   - Version: the parsed major and minor numbers
//   - error: error if no token parses as a version
func ParseVersion(s string) (Version, error) {
	for _, tok := range strings.Fields(s) {
		if !strings.Contains(tok, ".") {
			continue
		}
		sv, err := semver.NewVersion(tok)
		if err != nil {
			continue
		}
		return Version{Major: int(sv.Major()), Minor: int(sv.Minor())}, nil
	}
	return Version{}, fmt.Errorf("no version number in %q", s)
}

// GLSLVersionNum converts a shading language version string to major*100+minor,
// so "4.60 NVIDIA" yields 460 and "1.30" yields 130. Returns 0 if unparseable.
func GLSLVersionNum(s string) int {
	v, err := ParseVersion(ShortVersion(s))
	if err != nil {
		return 0
	}
	return v.Major*100 + v.Minor
}

// MesaVersionOverride interprets a MESA_GL_VERSION_OVERRIDE value such as "3.3COMPAT".
// The major version is raised to at least 3. Values shorter than three characters are ignored.
//
// Parameters:
//   - s: the environment variable value
//
// Returns:
//   - Version: the overriding minimum version
//   - bool: false if s does not describe an override
func MesaVersionOverride(s string) (Version, bool) {
	if len(s) < 3 {
		return Version{}, false
	}
	return Version{
		Major: max(int(s[0])-'0', 3),
		Minor: max(int(s[2])-'0', 0),
	}, true
}
