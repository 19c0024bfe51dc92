package domain

import (
	"encoding/base64"
	"fmt"
)

// Allowed image content types for component and partner uploads
const (
	ImageTypeJPEG = "image/jpeg"
	ImageTypePNG  = "image/png"
)

// Image holds an uploaded image as raw bytes plus its MIME type
type Image struct {
	Data        []byte `bson:"data" json:"-"`
	ContentType string `bson:"content_type" json:"-"`
}

// IsAllowedImageType reports whether contentType is on the upload allow-list
func IsAllowedImageType(contentType string) bool {
	return contentType == ImageTypeJPEG || contentType == ImageTypePNG
}

// DataURI renders the image as a base64 data URI for JSON responses.
// Returns "" for a nil or empty image so callers can emit null.
func (i *Image) DataURI() string {
	if i == nil || len(i.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", i.ContentType, base64.StdEncoding.EncodeToString(i.Data))
}
