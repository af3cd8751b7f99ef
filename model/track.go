package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Track represents an audio track in the library. The backing file lives
// in the upload directory under Filename.
type Track struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	// Filename length bounds, extension included.
	MinTrackFilenameLen = 5
	MaxTrackFilenameLen = 50
)

var trackFilenamePattern = regexp.MustCompile(`^.+\.(mp3|wav|ogg)$`)

// ValidateTrackFilename checks an uploaded filename against the accepted
// pattern: 5-50 characters ending in .mp3, .wav or .ogg. Names containing
// path separators are rejected since the filename doubles as the storage
// key inside the upload directory.
func ValidateTrackFilename(name string) error {
	// Length bounds count characters, not bytes, so non-ASCII names are
	// measured the same as ASCII ones.
	if n := utf8.RuneCountInString(name); n < MinTrackFilenameLen || n > MaxTrackFilenameLen {
		return fmt.Errorf("filename must be between %d and %d characters", MinTrackFilenameLen, MaxTrackFilenameLen)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("filename must not contain path separators")
	}
	if !trackFilenamePattern.MatchString(name) {
		return fmt.Errorf("filename must end in .mp3, .wav or .ogg")
	}
	return nil
}

// AudioContentType returns the MIME type to serve a stored track with,
// based on its filename extension.
func AudioContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(filename, ".ogg"):
		return "audio/ogg"
	default:
		return "audio/mpeg"
	}
}
