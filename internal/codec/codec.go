// Package codec implements the encode, decode and hash commands.
package codec

import (
	"crypto/md5"  //nolint:gosec // MD5 is a requested digest, not a security primitive
	"crypto/sha1" //nolint:gosec // SHA1 is a requested digest, not a security primitive
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/mcncl/scriptkit/internal/errors"
)

// Format names an encoding understood by Encode and Decode.
type Format string

const (
	FormatBase64 Format = "base64"
	FormatURL    Format = "url"
	FormatHTML   Format = "html"
)

// Algorithm names a digest understood by Hash.
type Algorithm string

const (
	AlgorithmMD5    Algorithm = "md5"
	AlgorithmSHA1   Algorithm = "sha1"
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA512 Algorithm = "sha512"
	AlgorithmCRC32  Algorithm = "crc32"
	AlgorithmXXHash Algorithm = "xxhash"
)

// Replacements are applied one after another, so order matters: "&" must be
// escaped first and unescaped last.
var (
	htmlEncodes = [][2]string{{"&", "&amp;"}, {"<", "&lt;"}, {">", "&gt;"}, {`"`, "&quot;"}, {"'", "&#39;"}}
	htmlDecodes = [][2]string{{"&#39;", "'"}, {"&quot;", `"`}, {"&gt;", ">"}, {"&lt;", "<"}, {"&amp;", "&"}}
)

// Encode encodes data in the named format.
func Encode(format, data string) (string, error) {
	switch Format(format) {
	case FormatBase64:
		return base64.StdEncoding.EncodeToString([]byte(data)), nil
	case FormatURL:
		return encodeURIComponent(data), nil
	case FormatHTML:
		out := data
		for _, pair := range htmlEncodes {
			out = strings.ReplaceAll(out, pair[0], pair[1])
		}
		return out, nil
	default:
		return "", unknownFormat(format)
	}
}

// Decode reverses Encode.
func Decode(format, data string) (string, error) {
	switch Format(format) {
	case FormatBase64:
		return decodeBase64(data)
	case FormatURL:
		out, err := url.PathUnescape(data)
		if err != nil {
			return "", errors.NewParseError(fmt.Sprintf("malformed URL escape in %q", data), errors.ErrInvalidEncoding)
		}
		if !utf8.ValidString(out) {
			return "", errors.NewParseError(fmt.Sprintf("%q does not decode to UTF-8", data), errors.ErrInvalidEncoding)
		}
		return out, nil
	case FormatHTML:
		out := data
		for _, pair := range htmlDecodes {
			out = strings.ReplaceAll(out, pair[0], pair[1])
		}
		return out, nil
	default:
		return "", unknownFormat(format)
	}
}

func unknownFormat(format string) error {
	return errors.NewNotFoundError(fmt.Sprintf("unknown format %q (supported: base64, url, html)", format), errors.ErrUnknownCommand)
}

// decodeBase64 accepts input with or without padding and ignores ASCII
// whitespace, matching what browsers accept.
func decodeBase64(data string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}
		return r
	}, data)
	cleaned = strings.TrimRight(cleaned, "=")

	out, err := base64.RawStdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", errors.NewParseError(fmt.Sprintf("invalid base64 input: %v", err), errors.ErrInvalidEncoding)
	}
	return string(out), nil
}

const hexUpper = "0123456789ABCDEF"

func encodeURIComponent(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hexUpper[c>>4])
		sb.WriteByte(hexUpper[c&0x0F])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// NewHasher returns a hash.Hash for the named algorithm.
func NewHasher(algorithm string) (hash.Hash, error) {
	switch Algorithm(algorithm) {
	case AlgorithmMD5:
		return md5.New(), nil //nolint:gosec
	case AlgorithmSHA1:
		return sha1.New(), nil //nolint:gosec
	case AlgorithmSHA256:
		return sha256.New(), nil
	case AlgorithmSHA512:
		return sha512.New(), nil
	case AlgorithmCRC32:
		return crc32.NewIEEE(), nil
	case AlgorithmXXHash:
		return xxhash.New(), nil
	default:
		return nil, errors.NewNotFoundError(
			fmt.Sprintf("unknown hash algorithm %q (supported: md5, sha1, sha256, sha512, crc32, xxhash)", algorithm),
			errors.ErrUnknownCommand,
		)
	}
}

// Hash digests the UTF-8 bytes of data and returns lowercase hex.
func Hash(algorithm, data string) (string, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}
	_, _ = h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil)), nil
}
