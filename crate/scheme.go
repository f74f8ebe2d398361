package crate

import (
	"net/url"
	"strings"
)

type scheme int

const (
	schemeDir scheme = iota
	schemeZip
	schemeRemote
	schemeUnknown
)

// classify determines which loader handles uri and normalizes it into
// the location string that loader expects.
func classify(uri string) (scheme, string) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return schemeRemote, uri
	}
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return schemeUnknown, uri
		}
		path := parsed.Path
		if strings.HasSuffix(strings.ToLower(path), ".zip") {
			return schemeZip, path
		}
		return schemeDir, path
	}
	if strings.HasSuffix(strings.ToLower(uri), ".zip") {
		return schemeZip, uri
	}
	return schemeDir, uri
}
