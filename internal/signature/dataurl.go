package signature

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const pngDataURLPrefix = "data:image/png;base64,"

// EncodeDataURL wraps a PNG for transport the way a canvas toDataURL would.
func EncodeDataURL(pngBytes []byte) string {
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(pngBytes)
}

// DecodeDataURL returns the PNG bytes behind a data URL. Bare base64 without
// the prefix is accepted too.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty signature payload")
	}
	if rest, ok := strings.CutPrefix(s, pngDataURLPrefix); ok {
		s = rest
	} else if strings.HasPrefix(s, "data:") {
		// Some other media type; only PNG signatures are accepted.
		return nil, fmt.Errorf("unsupported signature data url")
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode signature base64: %w", err)
	}
	return raw, nil
}

// IsDataURL reports whether s already carries the PNG data-URL prefix.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), pngDataURLPrefix)
}
