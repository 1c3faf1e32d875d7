// Package parse turns the sections of a guide page into titled steps of
// classified content blocks. Step boundaries are detected by a heading
// convention; everything between two boundaries is classified into one of
// three block shapes (text, image, text with linked image).
package parse

import "strings"

// AbsoluteURL normalizes a URL found in page markup to absolute form:
// protocol-relative URLs get https, root-relative URLs are resolved against
// the site base. Anything else is returned unchanged.
func AbsoluteURL(raw, base string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		return strings.TrimSuffix(base, "/") + raw
	default:
		return raw
	}
}
