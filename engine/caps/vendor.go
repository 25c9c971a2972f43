package caps

import "strings"

// Vendor is the primary GPU vendor classification.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorAMD
	VendorIntel
	VendorNvidia
	VendorMesa
)

func (v Vendor) String() string {
	switch v {
	case VendorAMD:
		return "AMD"
	case VendorIntel:
		return "Intel"
	case VendorNvidia:
		return "Nvidia"
	case VendorMesa:
		return "Mesa"
	}
	return "Unknown"
}

// VendorFlags holds the raw substring matches against the driver identity strings.
// More than one flag may be set (an AMD GPU on the Mesa driver sets AMD and Mesa);
// Primary resolves them to a single vendor by priority.
type VendorFlags struct {
	AMD    bool
	Intel  bool
	Nvidia bool
	Mesa   bool
}

// Primary returns the highest-priority vendor: AMD, Intel, Nvidia, Mesa, then Unknown.
func (f VendorFlags) Primary() Vendor {
	switch {
	case f.AMD:
		return VendorAMD
	case f.Intel:
		return VendorIntel
	case f.Nvidia:
		return VendorNvidia
	case f.Mesa:
		return VendorMesa
	}
	return VendorUnknown
}

// DetectVendor matches the driver identity strings case-insensitively.
//
// Parameters:
//   - vendor: the GL_VENDOR string
//   - renderer: the GL_RENDERER string
//   - version: the GL_VERSION string
//
// Returns:
//   - VendorFlags: every vendor whose markers were found
func DetectVendor(vendor, renderer, version string) VendorFlags {
	vendor = strings.ToLower(vendor)
	renderer = strings.ToLower(renderer)
	version = strings.ToLower(version)

	return VendorFlags{
		AMD: strings.Contains(vendor, "ati ") || strings.Contains(vendor, "amd ") ||
			strings.Contains(renderer, "radeon ") || strings.Contains(renderer, "amd "),
		Intel:  strings.Contains(vendor, "intel"),
		Nvidia: strings.Contains(vendor, "nvidia "),
		Mesa: strings.Contains(renderer, "mesa ") || strings.Contains(renderer, "gallium ") ||
			strings.Contains(version, " mesa "),
	}
}

// GPUDisplayName derives the user-facing vendor and GPU names.
// Mesa reports the raw vendor string; an unknown vendor hides the renderer string too.
//
// Parameters:
//   - flags: the detected vendor flags
//   - vendor: the raw GL_VENDOR string
//   - renderer: the raw GL_RENDERER string
//
// Returns:
//   - gpuVendor: "AMD", "Intel", "Nvidia", the Mesa vendor string, or "Unknown"
//   - gpuName: the renderer string, or "Unknown"
func GPUDisplayName(flags VendorFlags, vendor, renderer string) (gpuVendor, gpuName string) {
	switch p := flags.Primary(); p {
	case VendorAMD, VendorIntel, VendorNvidia:
		return p.String(), renderer
	case VendorMesa:
		return vendor, renderer
	}
	return "Unknown", "Unknown"
}
