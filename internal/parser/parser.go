package parser

import (
	"bytes"
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/mcncl/scriptkit/internal/errors" // Custom errors package
	"github.com/mcncl/scriptkit/internal/models"
)

// Parse decodes a single JSON value from reader, preserving object key order
// and numeric literals.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParseError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return nil, wrapDecodeError(err)
	}

	root, err := decodeValue(decoder, tok)
	if err != nil {
		return nil, err
	}

	// Anything other than EOF after the root value is trailing data.
	if _, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return nil, wrapDecodeError(err)
		}
		return nil, errors.NewParseError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return root, nil
}

func decodeValue(decoder *json.Decoder, tok json.Token) (models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		default:
			return nil, errors.NewParseError(
				fmt.Sprintf("unexpected %q at offset %d", t.String(), decoder.InputOffset()),
				errors.ErrInvalidJSON,
			)
		}
	default:
		// Primitives (string, json.Number, bool, nil) are returned as is
		return t, nil
	}
}

func decodeObject(decoder *json.Decoder) (models.Value, error) {
	obj := models.NewObject()
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, wrapDecodeError(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.NewParseError(
				fmt.Sprintf("object key must be a string at offset %d", decoder.InputOffset()),
				errors.ErrInvalidJSON,
			)
		}
		valueTok, err := decoder.Token()
		if err != nil {
			return nil, wrapDecodeError(err)
		}
		value, err := decodeValue(decoder, valueTok)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
}

func decodeArray(decoder *json.Decoder) (models.Value, error) {
	arr := models.Array{}
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, wrapDecodeError(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return arr, nil
		}
		value, err := decodeValue(decoder, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
}

func wrapDecodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParseError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return errors.NewParseError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParseError("failed to decode JSON", err)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewParseError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file on fs
func ParseFile(fs afero.Fs, filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewMissingArgumentError("file path is empty", errors.ErrMissingArgument)
	}
	data, err := afero.ReadFile(fs, filePath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError(
				fmt.Sprintf("file %q does not exist", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewIOError(fmt.Sprintf("failed to read file %q", filePath), err)
	}
	value, err := ParseString(string(data))
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			appErr.Message = fmt.Sprintf("%s: %s", filePath, appErr.Message)
		}
		return nil, err
	}
	return value, nil
}

// Stringify renders value as JSON. Pretty output is indented by two spaces
// and has no trailing newline.
func Stringify(value models.Value, pretty bool) (string, error) {
	compact := models.Compact(value)
	if !pretty {
		return compact, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(compact), "", "  "); err != nil {
		return "", errors.NewParseError("failed to indent JSON", err)
	}
	return buf.String(), nil
}
