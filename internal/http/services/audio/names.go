package audio

import (
	"path"
	"regexp"
	"strings"
)

// DefaultName replaces a name that sanitises to nothing.
const DefaultName = "audio"

var unsafeNameChars = regexp.MustCompile(`[^\p{L}\p{N}_.-]`)

// SanitizeName keeps letters, digits, underscore, dot and dash.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "")
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// stem is filename without directory and extension.
func stem(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// displayName picks the requested name, falling back to the upload's stem,
// and returns "<clean>.<ext>".
func displayName(requested, filename, ext string) string {
	raw := strings.TrimSpace(requested)
	if raw == "" {
		raw = stem(filename)
	}
	clean := SanitizeName(raw)
	clean = strings.TrimSuffix(clean, "."+ext)
	if clean == "" || strings.Trim(clean, ".") == "" {
		clean = DefaultName
	}
	return clean + "." + ext
}

var contentTypes = map[string]string{
	"mp3": "audio/mpeg",
	"wav": "audio/wav",
	"ogg": "audio/ogg",
}

func contentType(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
