package constants

import "strings"

// AllowedExtensions holds the file extensions accepted by the upload route.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the (possibly dotted, mixed-case) extension is
// accepted for upload.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
