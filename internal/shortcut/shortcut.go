// Package shortcut reads Internet Shortcut (.url) files.
package shortcut

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Pattern matches shortcut file names after lower-casing
const Pattern = "*.url"

// urlKey is the line prefix that carries the link
const urlKey = "URL="

// ErrNotText is returned by Decode for content that is not text
var ErrNotText = errors.New("file is not valid text")

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// IsShortcut reports whether name has the .url extension (any case)
func IsShortcut(name string) bool {
	matched, err := doublestar.Match(Pattern, strings.ToLower(name))
	return err == nil && matched
}

// Decode turns raw file contents into text. UTF-16 content is accepted when
// it starts with a byte order mark; everything else must be valid UTF-8.
func Decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", errors.Wrap(ErrNotText, err.Error())
		}
		data = decoded
	default:
		data = bytes.TrimPrefix(data, bomUTF8)
		if !utf8.Valid(data) {
			return "", ErrNotText
		}
	}

	if bytes.IndexByte(data, 0) >= 0 {
		return "", ErrNotText
	}
	return strings.TrimPrefix(string(data), "\uFEFF"), nil
}

// Parse returns the value of the first line starting with "URL=".
// Later URL= lines are ignored. An empty value counts as not found.
// Lines may end in \n, \r\n or a bare \r.
func Parse(text string) (string, bool) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n") {
		if !strings.HasPrefix(line, urlKey) {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		url := strings.TrimSpace(parts[1])
		return url, url != ""
	}
	return "", false
}

// ParseBytes decodes data and parses it. Undecodable content is reported as
// not found, the same as a file without a URL= line.
func ParseBytes(data []byte) (string, bool) {
	text, err := Decode(data)
	if err != nil {
		return "", false
	}
	return Parse(text)
}
