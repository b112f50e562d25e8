// Package text implements the string transforms of the data tool.
package text

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/scriptkit/internal/errors"
	"github.com/mcncl/scriptkit/internal/models"
	"github.com/mcncl/scriptkit/internal/parser"
)

// Reverse reverses s rune by rune.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func Upper(s string) string { return strings.ToUpper(s) }

func Lower(s string) string { return strings.ToLower(s) }

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func Trim(s string) string { return strings.TrimSpace(s) }

// Split breaks s on a literal separator. An empty separator splits into runes.
func Split(sep, s string) []string {
	return strings.Split(s, sep)
}

// Join parses arrayJSON and joins its elements with sep.
func Join(sep, arrayJSON string) (string, error) {
	value, err := parser.ParseString(arrayJSON)
	if err != nil {
		return "", err
	}
	arr, ok := value.(models.Array)
	if !ok {
		return "", errors.NewInvalidInputError(
			fmt.Sprintf("join expects a JSON array, got %s", models.Kind(value)),
			errors.ErrNotArray,
		)
	}
	parts := make([]string, len(arr))
	for i, item := range arr {
		parts[i] = models.Text(item)
	}
	return strings.Join(parts, sep), nil
}

// Replace substitutes every match of pattern in s. Group references use the
// $1 form.
func Replace(pattern, replacement, s string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", errors.NewParseError(fmt.Sprintf("bad pattern %q: %v", pattern, err), errors.ErrInvalidPattern)
	}
	return re.ReplaceAllString(s, replacement), nil
}

// Length counts runes.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Count returns the number of non-overlapping occurrences of sub in s. An
// empty sub matches at every rune boundary.
func Count(sub, s string) int {
	re := regexp.MustCompile(regexp.QuoteMeta(sub))
	return len(re.FindAllStringIndex(s, -1))
}

func Camel(s string) string { return strcase.ToCamel(s) }

func LowerCamel(s string) string { return strcase.ToLowerCamel(s) }

func Snake(s string) string { return strcase.ToSnake(s) }

func Kebab(s string) string { return strcase.ToKebab(s) }
