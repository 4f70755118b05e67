package media

import (
	"path/filepath"
	"strings"
)

var mimeByExt = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
	".aac":  "audio/aac",
}

// MIMEType maps an audio file path to the MIME type submitted to
// backends that accept inline audio. Unknown extensions fall back to
// application/octet-stream.
func MIMEType(path string) string {
	if mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// SupportedInput reports whether the input extension is one the
// pipeline knows how to segment and submit.
func SupportedInput(path string) bool {
	_, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]
	return ok
}
