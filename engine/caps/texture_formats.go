package caps

import (
	"fmt"
	"strings"
)

// compressedFormatNames maps GL compressed internal formats to their enum names.
var compressedFormatNames = map[uint32]string{
	0x8DBB: "GL_COMPRESSED_RED_RGTC1",
	0x8DBC: "GL_COMPRESSED_SIGNED_RED_RGTC1",
	0x8DBD: "GL_COMPRESSED_RG_RGTC2",
	0x8DBE: "GL_COMPRESSED_SIGNED_RG_RGTC2",

	0x8E8C: "GL_COMPRESSED_RGBA_BPTC_UNORM",
	0x8E8D: "GL_COMPRESSED_SRGB_ALPHA_BPTC_UNORM",
	0x8E8E: "GL_COMPRESSED_RGB_BPTC_SIGNED_FLOAT",
	0x8E8F: "GL_COMPRESSED_RGB_BPTC_UNSIGNED_FLOAT",

	0x9274: "GL_COMPRESSED_RGB8_ETC2",
	0x9275: "GL_COMPRESSED_SRGB8_ETC2",
	0x9276: "GL_COMPRESSED_RGB8_PUNCHTHROUGH_ALPHA1_ETC2",
	0x9277: "GL_COMPRESSED_SRGB8_PUNCHTHROUGH_ALPHA1_ETC2",
	0x9278: "GL_COMPRESSED_RGBA8_ETC2_EAC",
	0x9279: "GL_COMPRESSED_SRGB8_ALPHA8_ETC2_EAC",
	0x9270: "GL_COMPRESSED_R11_EAC",
	0x9271: "GL_COMPRESSED_SIGNED_R11_EAC",
	0x9272: "GL_COMPRESSED_RG11_EAC",
	0x9273: "GL_COMPRESSED_SIGNED_RG11_EAC",

	0x83F0: "GL_COMPRESSED_RGB_S3TC_DXT1_EXT",
	0x83F1: "GL_COMPRESSED_RGBA_S3TC_DXT1_EXT",
	0x83F2: "GL_COMPRESSED_RGBA_S3TC_DXT3_EXT",
	0x83F3: "GL_COMPRESSED_RGBA_S3TC_DXT5_EXT",

	0x93B0: "GL_COMPRESSED_RGBA_ASTC_4x4_KHR",
	0x93B1: "GL_COMPRESSED_RGBA_ASTC_5x4_KHR",
	0x93B2: "GL_COMPRESSED_RGBA_ASTC_5x5_KHR",
	0x93B3: "GL_COMPRESSED_RGBA_ASTC_6x5_KHR",
	0x93B4: "GL_COMPRESSED_RGBA_ASTC_6x6_KHR",
	0x93B5: "GL_COMPRESSED_RGBA_ASTC_8x5_KHR",
	0x93B6: "GL_COMPRESSED_RGBA_ASTC_8x6_KHR",
	0x93B7: "GL_COMPRESSED_RGBA_ASTC_8x8_KHR",
	0x93B8: "GL_COMPRESSED_RGBA_ASTC_10x5_KHR",
	0x93B9: "GL_COMPRESSED_RGBA_ASTC_10x6_KHR",
	0x93BA: "GL_COMPRESSED_RGBA_ASTC_10x8_KHR",
	0x93BB: "GL_COMPRESSED_RGBA_ASTC_10x10_KHR",
	0x93BC: "GL_COMPRESSED_RGBA_ASTC_12x10_KHR",
	0x93BD: "GL_COMPRESSED_RGBA_ASTC_12x12_KHR",

	0x93D0: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_4x4_KHR",
	0x93D1: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_5x4_KHR",
	0x93D2: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_5x5_KHR",
	0x93D3: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_6x5_KHR",
	0x93D4: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_6x6_KHR",
	0x93D5: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_8x5_KHR",
	0x93D6: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_8x6_KHR",
	0x93D7: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_8x8_KHR",
	0x93D8: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_10x5_KHR",
	0x93D9: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_10x6_KHR",
	0x93DA: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_10x8_KHR",
	0x93DB: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_10x10_KHR",
	0x93DC: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_12x10_KHR",
	0x93DD: "GL_COMPRESSED_SRGB8_ALPHA8_ASTC_12x12_KHR",
}

// CompressedFormatName returns the enum name of a compressed texture format,
// or its hexadecimal value when the format is not in the table.
func CompressedFormatName(format uint32) string {
	if name, ok := compressedFormatNames[format]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", format)
}

// DescribeCompressedFormats renders a comma-separated list terminated by a period.
// An empty input yields "none.".
func DescribeCompressedFormats(formats []uint32) string {
	if len(formats) == 0 {
		return "none."
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = CompressedFormatName(f)
	}
	return strings.Join(names, ", ") + "."
}
