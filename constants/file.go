package constants

import "strings"

// MediaType declares how a raw document should enter the pipeline.
type MediaType string

const (
	// MediaImage routes the document through image normalization and the
	// external recognizer.
	MediaImage MediaType = "IMAGE"
	// MediaText skips recognition; the bytes are already recognized text.
	MediaText MediaType = "TEXT"
)

// AllowedImageExtensions holds the image extensions the batch tooling ingests.
var AllowedImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToMedia classifies a file extension as image input, text passthrough,
// or unknown ("").
func MapExtToMedia(ext string) MediaType {
	ext = NormalizeExt(ext)
	if _, ok := AllowedImageExtensions[ext]; ok {
		return MediaImage
	}
	if ext == "txt" {
		return MediaText
	}
	return ""
}
