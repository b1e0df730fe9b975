package agent

import "strings"

// ResolveURL picks the URL an interview should call for r.
//
// The adaptive resolver wins when it holds an http(s) URL. Otherwise the first
// http:// or https:// entry of the static list is used; websocket and other
// schemes are skipped because interviews need plain request/response. The
// second result is false when nothing usable exists.
func ResolveURL(r Record) (string, bool) {
	endpoints := r.lookup("endpoints")

	if u, ok := path(endpoints, "adaptive_resolver", "url").(string); ok && strings.HasPrefix(u, "http") {
		return u, true
	}

	for _, entry := range asList(path(endpoints, "static")) {
		u, ok := entry.(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u, true
		}
	}
	return "", false
}
