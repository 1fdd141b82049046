// Package uriconv converts between filesystem paths and file:// URIs.
// Round-trip stability for any absolute POSIX path is a tested invariant.
package uriconv

import (
	"net/url"
	"strings"

	"github.com/codereef/lspbridge/internal/protocol"
)

// PathToURI converts an absolute filesystem path to a file:// DocumentUri.
func PathToURI(path string) protocol.DocumentUri {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path}
	return protocol.DocumentUri(u.String())
}

// URIToPath converts a file:// DocumentUri back to a filesystem path.
// Non-file URIs are returned unmodified, scheme included.
func URIToPath(uri protocol.DocumentUri) string {
	s := string(uri)
	const prefix = "file://"
	if !strings.HasPrefix(s, prefix) {
		return s
	}
	rest := strings.TrimPrefix(s, prefix)
	if decoded, err := url.PathUnescape(rest); err == nil {
		return decoded
	}
	return rest
}
