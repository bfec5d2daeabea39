package mindmap

import (
	"encoding/base64"
	"strings"
)

// DefaultFileName is suggested when the caller gives no timestamp.
const DefaultFileName = "mindmap.png"

// Rendered is an encoded mindmap image owned by the caller.
type Rendered struct {
	PNG      []byte
	FileName string
}

// TimestampLayout is the layout of file name timestamps.
const TimestampLayout = "20060102_150405"

// ValidTimestamp reports whether ts is safe to embed in a file name: at most
// len(TimestampLayout) digits and underscores, so no path separators or dots.
func ValidTimestamp(ts string) bool {
	if len(ts) > len(TimestampLayout) {
		return false
	}
	for _, c := range ts {
		if (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

// FileName suggests a download name, qualified by timestamp when one is given.
func FileName(timestamp string) string {
	timestamp = strings.TrimSpace(timestamp)
	if timestamp == "" {
		return DefaultFileName
	}
	return "mindmap_" + timestamp + ".png"
}

// DataURI encodes the image for inline display in HTML.
func (r Rendered) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(r.PNG)
}
