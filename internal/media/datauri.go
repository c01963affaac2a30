// Package media parses and encodes the portable data-URI representation of uploaded items.
package media

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/radassist/pkg/models"
)

var (
	ErrInvalidDataURI   = errors.New("invalid data URI")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrEmptyPayload     = errors.New("empty media payload")
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

// Decode splits a data:<mime>;base64,<bytes> URI into its MIME type and raw bytes.
func Decode(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, dataPrefix) {
		return "", nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidDataURI, dataPrefix)
	}
	head, payload, ok := strings.Cut(uri[len(dataPrefix):], base64Marker)
	if !ok {
		return "", nil, fmt.Errorf("%w: payload must be base64 encoded", ErrInvalidDataURI)
	}

	// Parameters such as ;charset= may precede the base64 marker.
	mimeType, _, _ := strings.Cut(head, ";")
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "" || !strings.Contains(mimeType, "/") {
		return "", nil, fmt.Errorf("%w: mime type is required", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
		}
	}
	if len(data) == 0 {
		return "", nil, ErrEmptyPayload
	}
	return mimeType, data, nil
}

// Encode builds a data URI for the given MIME type and bytes.
func Encode(mimeType string, data []byte) string {
	return dataPrefix + mimeType + base64Marker + base64.StdEncoding.EncodeToString(data)
}

// KindOf maps a MIME type to a MediaKind. Only image/* and video/* are accepted.
func KindOf(mimeType string) (models.MediaKind, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaKindImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaKindVideo, true
	}
	return "", false
}

// Key derives the content identity of a payload.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Parse validates a data URI and returns the immutable MediaItem for it.
func Parse(uri string) (models.MediaItem, error) {
	mimeType, data, err := Decode(uri)
	if err != nil {
		return models.MediaItem{}, err
	}
	kind, ok := KindOf(mimeType)
	if !ok {
		return models.MediaItem{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, mimeType)
	}
	return models.MediaItem{
		Key:      Key(data),
		Kind:     kind,
		MIMEType: mimeType,
		DataURI:  uri,
		Size:     len(data),
	}, nil
}
