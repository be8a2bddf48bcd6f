// Package imagefile turns a photo on disk into the data URL stored on an item.
package imagefile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is the 5 MiB cap on attached photos.
const DefaultMaxBytes int64 = 5 << 20

var (
	ErrNotImage = errors.New("not an image file")
	ErrTooLarge = errors.New("image too large")
)

// ReadAsDataReference validates the file and returns data:<mime>;base64,<payload>.
// maxBytes <= 0 means DefaultMaxBytes.
func ReadAsDataReference(path string, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	if fi.Size() > maxBytes {
		return "", fmt.Errorf("%w: image must be less than %s (got %s)",
			ErrTooLarge, humanize.IBytes(uint64(maxBytes)), humanize.IBytes(uint64(fi.Size())))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mt := mimetype.Detect(b)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%s is %s: %w", path, mt.String(), ErrNotImage)
	}
	return "data:" + baseType(mt.String()) + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		return strings.TrimSpace(m[:i])
	}
	return m
}

// MediaType extracts the mime type from a data URL, or "" when s isn't one.
func MediaType(dataURL string) string {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, ";,"); i >= 0 {
		return rest[:i]
	}
	return ""
}

// Decode returns the raw bytes behind a base64 data URL.
func Decode(dataURL string) ([]byte, error) {
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok || !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("not a base64 data URL")
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return b, nil
}

// Size is the decoded payload size in bytes, computed without decoding.
func Size(dataURL string) int64 {
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return 0
	}
	n := int64(base64.StdEncoding.DecodedLen(len(payload)))
	n -= int64(strings.Count(payload[max(0, len(payload)-2):], "="))
	return n
}
