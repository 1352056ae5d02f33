package domain

import "strings"

// Format identifies a negotiated response representation.
// The set is open: any lowercase name can be used as a format key.
type Format string

const (
	FormatHTML        Format = "html"
	FormatJSON        Format = "json"
	FormatXML         Format = "xml"
	FormatCSV         Format = "csv"
	FormatTurboStream Format = "turbo_stream"

	// FormatAny is the catch-all entry consulted by error tables.
	FormatAny Format = "any"
)

// DefaultMIMETypes lists the media types of the built-in formats.
// Adapters copy it; it is never mutated in place.
var DefaultMIMETypes = map[Format]string{
	FormatHTML:        "text/html",
	FormatJSON:        "application/json",
	FormatXML:         "application/xml",
	FormatCSV:         "text/csv",
	FormatTurboStream: "text/vnd.turbo-stream.html",
}

// ParseFormat normalizes a user supplied format name (".json", "JSON", "turbo-stream").
func ParseFormat(s string) Format {
	s = strings.TrimPrefix(strings.TrimSpace(s), ".")
	s = strings.ReplaceAll(strings.ToLower(s), "-", "_")
	return Format(s)
}

func (f Format) String() string {
	return string(f)
}
