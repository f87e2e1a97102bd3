package blob

import (
	"encoding/base64"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

const (
	dataURLScheme      = "data:"
	base64Marker       = ";base64"
	defaultContentType = "application/octet-stream"
)

// IsDataURL reports whether s is an inline data URL rather than a link
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, dataURLScheme)
}

// ParseDataURL decodes data:<mime>;base64,<payload>. Only base64 payloads
// are accepted; images are never inlined as percent-encoded text.
func ParseDataURL(s string) (data []byte, contentType string, err error) {
	if !IsDataURL(s) {
		return nil, "", errors.InvalidArgument("not a data URL")
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(s, dataURLScheme), ",")
	if !ok {
		return nil, "", errors.InvalidArgument("data URL has no payload")
	}
	if !strings.HasSuffix(header, base64Marker) {
		return nil, "", errors.InvalidArgument("data URL is not base64 encoded")
	}

	contentType = strings.TrimSuffix(header, base64Marker)
	if contentType == "" {
		contentType = defaultContentType
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid base64 payload")
	}
	if len(data) == 0 {
		return nil, "", errors.InvalidArgument("data URL payload is empty")
	}

	return data, contentType, nil
}
