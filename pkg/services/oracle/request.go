package oracle

import "mime"

// checkMediaType reports whether contentType (an HTTP Content-Type header
// value, possibly carrying "; charset=..." parameters) is present in
// allowed. An empty allowed list imposes no restriction (spec §4.B, §6
// "AllowedContentTypes").
func checkMediaType(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, a := range allowed {
		if a == mediaType {
			return true
		}
	}
	return false
}
