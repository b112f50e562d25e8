package cli

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mcncl/scriptkit/internal/server"
)

// Wiring selects which router implementation a server binary uses.
type Wiring int

const (
	WiringChi Wiring = iota
	WiringServeMux
)

// ServerCLI is the grammar of the demo server binaries.
type ServerCLI struct {
	Globals Globals `embed:""`

	Addr string `help:"Listen address. Defaults to server.addr from the config (:3001)." placeholder:"HOST:PORT"`
}

// serverTarget is bound into ServerCLI.Run.
type serverTarget struct {
	wiring Wiring
	name   string
}

// RunServer serves the demo API until ctx is cancelled and returns the exit
// code.
func RunServer(ctx context.Context, wiring Wiring, args []string, stdout, stderr io.Writer, opts ...Option) int {
	var cli ServerCLI
	target := serverTarget{wiring: wiring, name: "Chi Server"}
	toolName := "server"
	if wiring == WiringServeMux {
		target.name = "ServeMux Server"
		toolName = "server-mux"
	}
	return tool{
		name:        toolName,
		description: "Demo JSON API with CORS.",
		grammar:     &cli,
		globals:     &cli.Globals,
		binds:       []interface{}{target},
		runsBare:    true,
	}.run(ctx, args, stdout, stderr, opts)
}

func (s *ServerCLI) Run(rc *RunContext, target serverTarget) error {
	addr := s.Addr
	if addr == "" {
		addr = rc.Config.Server.Addr
	}

	var handler http.Handler
	switch target.wiring {
	case WiringServeMux:
		handler = server.NewMux(target.name, rc.Logger)
	default:
		handler = server.NewRouter(target.name, rc.Logger)
	}

	rc.Logger.Info("starting server", zap.String("name", target.name), zap.String("addr", addr))
	return server.Run(rc.Ctx, addr, handler, rc.Logger)
}
