package mime

import (
	"path/filepath"
	"strings"
)

// Extension maps lower-case file extensions (dot included) onto their MIMEs.
var Extension = map[string]MIME{
	".css":  CSS,
	".gif":  GIF,
	".htm":  HTML,
	".html": HTML,
	".ico":  ICO,
	".jpeg": JPEG,
	".jpg":  JPEG,
	".js":   JS,
	".json": JSON,
	".pdf":  PDF,
	".png":  PNG,
	".svg":  SVG,
	".txt":  Plain,
	".xml":  XML,
	".zip":  ZIP,
}

// ByPath guesses the MIME by the file extension, regardless of its case. Unknown extensions fall back to
// the octet-stream.
func ByPath(path string) MIME {
	if m, ok := Extension[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}

	return OctetStream
}
