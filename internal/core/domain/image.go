package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var dataURIPattern = regexp.MustCompile(`^data:([^;,]+);base64,`)

// EncodedImage is a self-describing image payload: a media type and the encoded body.
type EncodedImage struct {
	MediaType string
	Data      []byte
}

// ParseEncodedImage reads a "data:<type>;base64,<body>" URI. A missing or
// non-image media type is an input format error.
func ParseEncodedImage(uri string) (EncodedImage, error) {
	match := dataURIPattern.FindStringSubmatch(uri)
	if match == nil || match[1] == "" {
		return EncodedImage{}, NewInputFormatError(
			"invalid data URI format or missing MIME type", nil)
	}

	mediaType := strings.ToLower(strings.TrimSpace(match[1]))
	if !strings.HasPrefix(mediaType, "image/") {
		return EncodedImage{}, NewInputFormatError(
			fmt.Sprintf("unsupported media type %q", mediaType), nil)
	}

	data, err := base64.StdEncoding.DecodeString(uri[len(match[0]):])
	if err != nil {
		return EncodedImage{}, NewInputFormatError("invalid base64 body", err)
	}

	return EncodedImage{MediaType: mediaType, Data: data}, nil
}

// NewEncodedImage wraps raw bytes. If mediaType is empty it is sniffed from the content.
func NewEncodedImage(mediaType string, data []byte) (EncodedImage, error) {
	if mediaType == "" {
		mediaType = http.DetectContentType(data[:min(len(data), 512)])
	}

	mediaType = strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	if !strings.HasPrefix(mediaType, "image/") {
		return EncodedImage{}, NewInputFormatError(
			fmt.Sprintf("unsupported media type %q", mediaType), nil)
	}

	return EncodedImage{MediaType: mediaType, Data: data}, nil
}

// String renders the image as a data URI.
func (e EncodedImage) String() string {
	return "data:" + e.MediaType + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

// Size is the length of the serialized data URI in bytes.
func (e EncodedImage) Size() int {
	return len("data:;base64,") + len(e.MediaType) + base64.StdEncoding.EncodedLen(len(e.Data))
}

// Extension returns a file extension for the media type, including the dot.
func (e EncodedImage) Extension() string {
	switch e.MediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".img"
	}
}
