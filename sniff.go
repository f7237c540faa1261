package stego

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// textExtensions lists carrier extensions treated as text without
// sniffing, matching the host file types of the original tool.
var textExtensions = map[string]bool{
	".txt":  true,
	".html": true,
	".css":  true,
	".md":   true,
}

// DetectFormat classifies carrier bytes into a format tag using the
// file name extension and magic bytes. It performs no file I/O; the
// caller owns reading the carrier.
func DetectFormat(name string, data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic), bytes.HasPrefix(data, bmpMagic):
		return FormatImage, nil
	case len(data) >= 12 && string(data[0:4]) == "RIFF":
		switch string(data[8:12]) {
		case "WAVE":
			return FormatAudio, nil
		case "AVI ":
			return FormatVideo, nil
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if textExtensions[ext] {
		return FormatText, nil
	}
	if ext == "" && utf8.Valid(data) && !bytes.ContainsRune(data, 0) {
		return FormatText, nil
	}

	return "", fmt.Errorf("%w: cannot classify %q", ErrUnknownFormat, name)
}
