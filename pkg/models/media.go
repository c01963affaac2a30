package models

// MediaKind distinguishes still images from video clips.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaItem is one uploaded image or video. Immutable once submitted.
type MediaItem struct {
	Key      string    `json:"key"` // hex SHA-256 of the decoded payload
	Kind     MediaKind `json:"kind"`
	MIMEType string    `json:"mime_type"`
	DataURI  string    `json:"-"`
	Size     int       `json:"size_bytes"`
}

// Ref returns the item as a prompt media reference.
func (m MediaItem) Ref() *MediaRef {
	return &MediaRef{URL: m.DataURI, MIMEType: m.MIMEType}
}
