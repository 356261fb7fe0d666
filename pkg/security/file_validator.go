package security

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// FileKind selects the whitelist used by ValidateFile.
type FileKind string

const (
	KindVideo FileKind = "video"
	KindImage FileKind = "image"
)

// FileValidationResult describes the outcome of ValidateFile.
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// allowed MIME types per kind, detected from content, never from the client header
var allowedMIME = map[FileKind]map[string]string{
	KindVideo: {
		"video/webm":       ".webm",
		"video/x-matroska": ".webm", // MediaRecorder output is sometimes sniffed as matroska
		"video/mp4":        ".mp4",
		"video/quicktime":  ".mov",
	},
	KindImage: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	},
}

// ValidateFile sniffs data and checks it against the whitelist for kind and
// the size limit. An empty payload is always rejected.
func ValidateFile(kind FileKind, data []byte, maxBytes int64) FileValidationResult {
	var result FileValidationResult

	if len(data) == 0 {
		result.Error = "file is empty"
		return result
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		result.Error = fmt.Sprintf("file exceeds %d MB", maxBytes/(1024*1024))
		return result
	}

	mt := mimetype.Detect(data)
	result.DetectedMIME = mt.String()

	whitelist, ok := allowedMIME[kind]
	if !ok {
		result.Error = "unsupported file kind"
		return result
	}
	for m := mt; m != nil; m = m.Parent() {
		if ext, ok := whitelist[m.String()]; ok {
			result.Valid = true
			result.Extension = ext
			result.DetectedMIME = m.String()
			return result
		}
	}

	result.Error = "file type not allowed: " + mt.String()
	return result
}
