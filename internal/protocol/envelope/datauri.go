package envelope

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

// ErrNotDataURI is returned by ParseDataURI for anything without a "data:" header.
var ErrNotDataURI = errors.New("not a data URI")

// EncodeDataURI returns data as a base64 data URI with the given media type.
func EncodeDataURI(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a data URI into its media type and decoded payload.
// Both base64 and percent-encoded payloads are accepted.
func ParseDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURI
	}

	isBase64 := false
	if h, found := strings.CutSuffix(header, ";base64"); found {
		header, isBase64 = h, true
	}
	mediaType = header
	if mediaType == "" {
		mediaType = "text/plain;charset=US-ASCII"
	}

	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		return mediaType, data, err
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, err
	}
	return mediaType, []byte(s), nil
}

// MediaType returns the declared media type of a data URI, or "".
func MediaType(uri string) string {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ""
	}
	header, _, _ := strings.Cut(rest, ",")
	header = strings.TrimSuffix(header, ";base64")
	mt, _, _ := strings.Cut(header, ";")
	return mt
}

// IsImage reports whether uri declares an image media type and can be shown inline.
func IsImage(uri string) bool { return strings.HasPrefix(uri, "data:image/") }
