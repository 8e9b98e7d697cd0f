package extraction

import (
	"path/filepath"
	"strings"
)

// Format is the declared type of an uploaded drawing.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatDXF Format = "dxf"
)

// ParseFormat normalizes an extension tag ("PDF", ".dxf", " pdf ") and reports
// whether it names a drawing format with an extraction path.
func ParseFormat(ext string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
	switch f {
	case FormatPDF, FormatDXF:
		return f, true
	}
	return f, false
}

// FormatFromFilename returns the format implied by a file name's extension.
func FormatFromFilename(name string) (Format, bool) {
	return ParseFormat(filepath.Ext(name))
}
