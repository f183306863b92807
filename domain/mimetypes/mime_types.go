package mimetypes

import "mime"

type MIME string

const (
	Unknown   MIME = "unknown"
	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
)

// SignatureFormats are the image formats accepted for proof of delivery.
var SignatureFormats = []MIME{ImagePNG, ImageJPEG}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// MatchesAny returns the first expected type the detected one matches.
func MatchesAny(detected string, expected []MIME) (MIME, bool) {
	for _, e := range expected {
		if m, ok := Matches(detected, e); ok {
			return m, true
		}
	}
	return Unknown, false
}
