package cli_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/scriptkit/internal/cli"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"method":"`+r.Method+`","token":"`+r.Header.Get("X-Token")+`"}`)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = io.WriteString(w, r.Method+" "+r.Header.Get("Content-Type")+" "+string(body))
	})
	mux.HandleFunc("/file.bin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0x00, 0x01, 0xff})
	})
	mux.HandleFunc("/head", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Length", "5")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nothing here", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNetwork_Requests(t *testing.T) {
	server := newEchoServer(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"get json", []string{"get", server.URL + "/json"}, "{\n  \"method\": \"GET\",\n  \"token\": \"\"\n}\n"},
		{"delete", []string{"delete", server.URL + "/json"}, "{\n  \"method\": \"DELETE\",\n  \"token\": \"\"\n}\n"},
		{"headers flag", []string{"--headers", `{"X-Token":"abc"}`, "get", server.URL + "/json"}, "{\n  \"method\": \"GET\",\n  \"token\": \"abc\"\n}\n"},
		{"post default content type", []string{"post", server.URL + "/echo", "hi"}, "POST text/plain;charset=UTF-8 hi\n"},
		{"put with content type", []string{"--headers", `{"Content-Type":"application/json"}`, "put", server.URL + "/echo", `{"a":1}`}, "PUT application/json {\"a\":1}\n"},
		{"status", []string{"status", server.URL + "/head"}, "URL: " + server.URL + "/head\nStatus: 200 OK\nContent-Type: text/plain\nContent-Length: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := invoke(t, cli.RunNetwork, nil, tt.args...)
			require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestNetwork_OutputAndDownload(t *testing.T) {
	server := newEchoServer(t)
	fs := afero.NewMemMapFs()

	res := invoke(t, cli.RunNetwork, fs, "--output", "/out/resp.json", "get", server.URL+"/json")
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
	assert.Equal(t, "Response saved to: /out/resp.json\n", res.stdout)
	saved, err := afero.ReadFile(fs, "/out/resp.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"method\": \"GET\",\n  \"token\": \"\"\n}", string(saved))

	res = invoke(t, cli.RunNetwork, fs, "download", server.URL+"/file.bin", "/dl/file.bin")
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
	assert.Equal(t, "File downloaded: /dl/file.bin\n", res.stdout)
	data, err := afero.ReadFile(fs, "/dl/file.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0xff}, data)
}

func TestNetwork_Failures(t *testing.T) {
	server := newEchoServer(t)
	fs := afero.NewMemMapFs()

	res := invoke(t, cli.RunNetwork, fs, "--output", "/out.txt", "get", server.URL+"/missing")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "nothing here")
	assert.Contains(t, res.stderr, "Request failed: 404 Not Found")
	exists, err := afero.Exists(fs, "/out.txt")
	require.NoError(t, err)
	assert.False(t, exists, "no output file on failure")

	res = invoke(t, cli.RunNetwork, fs, "download", server.URL+"/missing", "/dl.bin")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "download failed: 404 Not Found")

	res = invoke(t, cli.RunNetwork, fs, "--headers", "not json", "get", server.URL+"/json")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Parse error: headers must be a JSON object")

	res = invoke(t, cli.RunNetwork, fs, "--headers", "[1]", "get", server.URL+"/json")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Invalid input:")

	res = invoke(t, cli.RunNetwork, fs, "post", server.URL+"/echo")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Missing argument:")
	assert.Contains(t, res.stderr, "For help, run: network --help")
}

func TestNetwork_Verbose(t *testing.T) {
	server := newEchoServer(t)

	res := invoke(t, cli.RunNetwork, nil, "--verbose", "--headers", `{"X-Token":"t"}`, "post", server.URL+"/echo", "body")
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
	assert.Contains(t, res.stdout, "Sending POST request to: "+server.URL+"/echo")
	assert.Contains(t, res.stdout, "Request headers: {\n  \"X-Token\": \"t\"\n}")
	assert.Contains(t, res.stdout, "Request body: body")
	assert.Contains(t, res.stdout, "Response status: 200 OK")
	assert.Contains(t, res.stdout, "Response headers: ")
}
