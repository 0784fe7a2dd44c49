package generator

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"unicode"
)

// ImageHash is the hex SHA-256 of the image bytes.
func ImageHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint identifies an image set. It depends only on the multiset of
// per-image hashes, so reordering uploads keeps the fingerprint.
func Fingerprint(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	hashes := make([]string, 0, len(images))
	for _, img := range images {
		hashes = append(hashes, ImageHash(img.Data))
	}
	sort.Strings(hashes)
	return ImageHash([]byte(strings.Join(hashes, "")))
}

// ContentType returns the declared MIME type, sniffing the bytes when none was given.
func (img Image) ContentType() string {
	if img.MIMEType != "" {
		return img.MIMEType
	}
	return http.DetectContentType(img.Data)
}

// DataURL embeds the image as a base64 data URI.
func (img Image) DataURL() string {
	return "data:" + img.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func isBulletMarker(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '*' || r == '•'
}

// NormalizeImageNotes turns free-form model notes into one "- fact" line per fact.
func NormalizeImageNotes(raw string) string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimLeftFunc(line, isBulletMarker)
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, "- "+line)
	}
	return strings.Join(out, "\n")
}
