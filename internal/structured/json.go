// Package structured implements the JSON and CSV operations of the data tool
// on top of the ordered values produced by the parser package.
package structured

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/mcncl/scriptkit/internal/errors"
	"github.com/mcncl/scriptkit/internal/models"
	"github.com/mcncl/scriptkit/internal/parser"
)

// Validate reports whether text parses as a single JSON value.
func Validate(text string) bool {
	_, err := parser.ParseString(text)
	return err == nil
}

// Minify re-renders JSON text in its compact form.
func Minify(text string) (string, error) {
	value, err := parser.ParseString(text)
	if err != nil {
		return "", err
	}
	return parser.Stringify(value, false)
}

// Beautify re-renders JSON text with a two-space indent.
func Beautify(text string) (string, error) {
	value, err := parser.ParseString(text)
	if err != nil {
		return "", err
	}
	return parser.Stringify(value, true)
}

// ExtractPath walks a dot-separated sequence of object keys.
func ExtractPath(value models.Value, path string) (models.Value, error) {
	current := value
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(*models.Object)
		if !ok {
			return nil, pathNotFound(path)
		}
		next, present := obj.Get(segment)
		if !present {
			return nil, pathNotFound(path)
		}
		current = next
	}
	return current, nil
}

func pathNotFound(path string) error {
	return errors.NewNotFoundError(fmt.Sprintf("path %q does not exist in JSON", path), errors.ErrPathNotFound)
}

// DeepMerge overlays overlay onto base. Objects merge key by key, recursively;
// any other overlay value, arrays included, replaces the base value. Neither
// input is modified.
func DeepMerge(base, overlay models.Value) models.Value {
	overlayObj, ok := overlay.(*models.Object)
	if !ok {
		return overlay
	}
	baseObj, _ := base.(*models.Object)
	result := baseObj.Clone()
	for _, key := range overlayObj.Keys() {
		ov, _ := overlayObj.Get(key)
		if _, isObj := ov.(*models.Object); isObj {
			bv, _ := result.Get(key)
			result.Set(key, DeepMerge(bv, ov))
			continue
		}
		result.Set(key, ov)
	}
	return result
}

// MergeFiles parses two JSON files and deep-merges the second onto the first.
func MergeFiles(fs afero.Fs, basePath, overlayPath string) (models.Value, error) {
	for _, p := range []string{basePath, overlayPath} {
		exists, err := afero.Exists(fs, p)
		if err != nil {
			return nil, errors.NewIOError(fmt.Sprintf("failed to check file %q", p), err)
		}
		if !exists {
			return nil, errors.NewNotFoundError(fmt.Sprintf("file %q does not exist", p), errors.ErrFileNotFound)
		}
	}

	base, err := parser.ParseFile(fs, basePath)
	if err != nil {
		return nil, err
	}
	overlay, err := parser.ParseFile(fs, overlayPath)
	if err != nil {
		return nil, err
	}
	return DeepMerge(base, overlay), nil
}
