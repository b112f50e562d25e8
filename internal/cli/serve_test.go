package cli_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcncl/scriptkit/internal/cli"
)

func TestServer_StopsOnCancel(t *testing.T) {
	for _, wiring := range []cli.Wiring{cli.WiringChi, cli.WiringServeMux} {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		var stdout, stderr bytes.Buffer
		code := cli.RunServer(ctx, wiring, []string{"--addr", "127.0.0.1:0"}, &stdout, &stderr)
		cancel()

		assert.Equal(t, 0, code, stderr.String())
		assert.Contains(t, stderr.String(), "starting server")
		assert.Contains(t, stderr.String(), "shutting down server")
	}
}

func TestServer_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli.RunServer(context.Background(), cli.WiringServeMux, []string{"--help"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Usage: server-mux")
	assert.Contains(t, stdout.String(), "--addr")
}

func TestServer_BadAddress(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli.RunServer(context.Background(), cli.WiringChi, []string{"--addr", "256.0.0.1:bad"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "http server failed")
}
