package structured

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/scriptkit/internal/errors"
	"github.com/mcncl/scriptkit/internal/models"
	"github.com/mcncl/scriptkit/internal/parser"
)

func mustParse(t *testing.T, text string) models.Value {
	t.Helper()
	v, err := parser.ParseString(text)
	require.NoError(t, err)
	return v
}

func compact(t *testing.T, v models.Value) string {
	t.Helper()
	out, err := parser.Stringify(v, false)
	require.NoError(t, err)
	return out
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(`{"a": [1, 2]}`))
	assert.True(t, Validate(`"str"`))
	assert.False(t, Validate(`{"a": }`))
	assert.False(t, Validate(``))
	assert.False(t, Validate(`1 2`))
}

func TestMinifyAndBeautify(t *testing.T) {
	min, err := Minify("{\n  \"a\" : 1,\n  \"b\" : [ true ]\n}")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true]}`, min)

	pretty, err := Beautify(`{"a":1,"b":[true]}`)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}", pretty)

	_, err = Minify(`{`)
	assert.Equal(t, errors.ErrorTypeParse, errors.TypeOf(err))
}

func TestExtractPath(t *testing.T) {
	doc := mustParse(t, `{"a": {"b": 5, "list": [1, 2], "n": null}, "top": "x"}`)

	tests := []struct {
		name     string
		path     string
		expected string
		wantErr  bool
	}{
		{name: "nested number", path: "a.b", expected: "5"},
		{name: "top level", path: "top", expected: `"x"`},
		{name: "object value", path: "a", expected: `{"b":5,"list":[1,2],"n":null}`},
		{name: "null value is found", path: "a.n", expected: "null"},
		{name: "array value", path: "a.list", expected: "[1,2]"},
		{name: "missing key", path: "a.c", wantErr: true},
		{name: "through a scalar", path: "top.x", wantErr: true},
		{name: "array index not supported", path: "a.list.0", wantErr: true},
		{name: "empty segment", path: "a..b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPath(doc, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, errors.ErrPathNotFound))
				assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, compact(t, got))
		})
	}
}

func TestExtractPath_ScalarRoot(t *testing.T) {
	_, err := ExtractPath(mustParse(t, `{"a":1}`), "a.b")
	assert.True(t, stderrors.Is(err, errors.ErrPathNotFound))
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		overlay  string
		expected string
	}{
		{
			name:     "nested objects merge",
			base:     `{"db": {"host": "localhost", "port": 5432}, "debug": false}`,
			overlay:  `{"db": {"port": 6543, "user": "app"}, "debug": true}`,
			expected: `{"db":{"host":"localhost","port":6543,"user":"app"},"debug":true}`,
		},
		{
			name:     "arrays replace wholesale",
			base:     `{"tags": ["a", "b", "c"]}`,
			overlay:  `{"tags": ["z"]}`,
			expected: `{"tags":["z"]}`,
		},
		{
			name:     "object replaces scalar",
			base:     `{"x": 1}`,
			overlay:  `{"x": {"y": 2}}`,
			expected: `{"x":{"y":2}}`,
		},
		{
			name:     "null overlay replaces object",
			base:     `{"x": {"y": 2}}`,
			overlay:  `{"x": null}`,
			expected: `{"x":null}`,
		},
		{
			name:     "new keys appended after base keys",
			base:     `{"b": 1, "a": 2}`,
			overlay:  `{"c": 3, "a": 4}`,
			expected: `{"b":1,"a":4,"c":3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := mustParse(t, tt.base)
			before := compact(t, base)
			merged := DeepMerge(base, mustParse(t, tt.overlay))
			assert.Equal(t, tt.expected, compact(t, merged))
			assert.Equal(t, before, compact(t, base), "base must not be modified")
		})
	}
}

func TestDeepMerge_EmptyOverlayIsIdentity(t *testing.T) {
	docs := []string{
		`{}`,
		`{"a": 1}`,
		`{"a": {"b": [1, {"c": null}]}, "d": "e"}`,
	}
	for _, doc := range docs {
		a := mustParse(t, doc)
		assert.True(t, models.Equal(a, DeepMerge(a, models.NewObject())), doc)
	}
}

func TestMergeFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "base.json", []byte(`{"name": "svc", "opts": {"a": 1}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "overlay.json", []byte(`{"opts": {"b": 2}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "bad.json", []byte(`{"opts": `), 0o644))

	merged, err := MergeFiles(fs, "base.json", "overlay.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"svc","opts":{"a":1,"b":2}}`, compact(t, merged))

	_, err = MergeFiles(fs, "base.json", "nope.json")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
	assert.Contains(t, err.Error(), "nope.json")

	_, err = MergeFiles(fs, "bad.json", "base.json")
	assert.Equal(t, errors.ErrorTypeParse, errors.TypeOf(err))
}

func TestDeepMerge_KeepsNumberLiterals(t *testing.T) {
	merged := DeepMerge(mustParse(t, `{"v": 1.50}`), mustParse(t, `{"w": 2}`))
	v, _ := merged.(*models.Object).Get("v")
	assert.Equal(t, json.Number("1.50"), v)
}
