package dirlist

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// sniffLen is the number of leading bytes inspected when sniffing content.
const sniffLen = 512

// inconclusiveMIME is what content sniffing reports when nothing matched.
const inconclusiveMIME = "application/octet-stream"

//nolint:gochecknoglobals // Lookup table
var mimeTypes = map[string]string{
	"7z":    "application/x-7z-compressed",
	"aac":   "audio/aac",
	"avi":   "video/x-msvideo",
	"bmp":   "image/bmp",
	"bz2":   "application/x-bzip2",
	"css":   "text/css",
	"csv":   "text/csv",
	"flac":  "audio/flac",
	"gif":   "image/gif",
	"go":    "text/x-go",
	"gz":    "application/gzip",
	"htm":   "text/html",
	"html":  "text/html",
	"ico":   "image/vnd.microsoft.icon",
	"jpeg":  "image/jpeg",
	"jpg":   "image/jpeg",
	"js":    "text/javascript",
	"json":  "application/json",
	"md":    "text/markdown",
	"mkv":   "video/x-matroska",
	"mp3":   "audio/mpeg",
	"mp4":   "video/mp4",
	"mpeg":  "video/mpeg",
	"opus":  "audio/opus",
	"pdf":   "application/pdf",
	"png":   "image/png",
	"rar":   "application/vnd.rar",
	"sh":    "application/x-sh",
	"svg":   "image/svg+xml",
	"tar":   "application/x-tar",
	"tif":   "image/tiff",
	"tiff":  "image/tiff",
	"ttf":   "font/ttf",
	"txt":   "text/plain",
	"wav":   "audio/wav",
	"weba":  "audio/webm",
	"webm":  "video/webm",
	"webp":  "image/webp",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"xhtml": "application/xhtml+xml",
	"xml":   "application/xml",
	"yaml":  "application/yaml",
	"yml":   "application/yaml",
	"zip":   "application/zip",
}

// mimeByExtension looks the extension of name up in the table.
func mimeByExtension(name string) (string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "", false
	}

	mimeType, ok := mimeTypes[strings.ToLower(ext)]

	return mimeType, ok
}

// probeMIME returns the content type of the file at path. Known extensions
// win; anything else is sniffed from the leading bytes. An unreadable file or
// an inconclusive sniff yields false.
func probeMIME(fsys afero.Fs, path string) (string, bool) {
	if mimeType, ok := mimeByExtension(path); ok {
		return mimeType, true
	}

	file, err := fsys.Open(path)
	if err != nil {
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, sniffLen))
	if err != nil {
		return "", false
	}

	mimeType := http.DetectContentType(data)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	if mimeType == inconclusiveMIME {
		return "", false
	}

	return mimeType, true
}

// probeSize returns the size of the file at path, following symlinks.
func probeSize(fsys afero.Fs, path string) (int64, bool) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, false
	}

	return info.Size(), true
}
