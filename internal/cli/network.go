package cli

import (
	"context"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/scriptkit/internal/httpclient"
	"github.com/mcncl/scriptkit/internal/models"
)

// NetworkCLI is the grammar of the network tool.
type NetworkCLI struct {
	Globals Globals `embed:""`

	Headers string `help:"Request headers as a JSON object." placeholder:"JSON"`
	Output  string `help:"Write the response body to a file instead of stdout." placeholder:"PATH"`
	Verbose bool   `help:"Print request and response metadata."`

	Get      netNoBodyCmd   `cmd:"" help:"Send a GET request."`
	Post     netBodyCmd     `cmd:"" help:"Send a POST request."`
	Put      netBodyCmd     `cmd:"" help:"Send a PUT request."`
	Delete   netNoBodyCmd   `cmd:"" help:"Send a DELETE request."`
	Download netDownloadCmd `cmd:"" help:"Download a URL to a file."`
	Status   netStatusCmd   `cmd:"" help:"Probe a URL with a HEAD request."`
}

// networkSession is what the network commands share once flags are parsed.
type networkSession struct {
	client  *httpclient.Client
	headers *models.Object
	output  string
}

// RunNetwork runs the network tool and returns its exit code.
func RunNetwork(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	var cli NetworkCLI
	return tool{
		name:        "network",
		description: "HTTP client utilities.",
		grammar:     &cli,
		globals:     &cli.Globals,
		binds:       []interface{}{&cli},
	}.run(ctx, args, stdout, stderr, opts)
}

func (n *NetworkCLI) session(rc *RunContext) (*networkSession, error) {
	headers, err := httpclient.ParseHeaders(n.Headers)
	if err != nil {
		return nil, err
	}
	opts := httpclient.Options{
		Timeout:   rc.Config.HTTP.Timeout,
		UserAgent: rc.Config.HTTP.UserAgent,
		Logger:    rc.Logger,
	}
	if n.Verbose {
		opts.Verbose = rc.Stdout
	}
	return &networkSession{client: httpclient.New(opts), headers: headers, output: n.Output}, nil
}

// send performs the request and prints or saves the body.
func (s *networkSession) send(rc *RunContext, method, url, body string) error {
	outcome, err := s.client.Do(rc.Ctx, httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: s.headers,
		Body:    body,
	})
	if err != nil {
		if outcome != nil {
			_, _ = io.WriteString(rc.Stderr, outcome.Text()+"\n")
		}
		return err
	}

	if s.output != "" {
		if err := rc.FS.Write(s.output, outcome.Text()); err != nil {
			return err
		}
		rc.printf("Response saved to: %s\n", s.output)
		return nil
	}
	rc.println(outcome.Text())
	return nil
}

// netNoBodyCmd backs get and delete.
type netNoBodyCmd struct {
	URL string `arg:"" help:"Target URL."`
}

func (c *netNoBodyCmd) Run(rc *RunContext, kctx *kong.Context, cli *NetworkCLI) error {
	s, err := cli.session(rc)
	if err != nil {
		return err
	}
	return s.send(rc, strings.ToUpper(kctx.Selected().Name), c.URL, "")
}

// netBodyCmd backs post and put.
type netBodyCmd struct {
	URL  string `arg:"" help:"Target URL."`
	Data string `arg:"" help:"Request body."`
}

func (c *netBodyCmd) Run(rc *RunContext, kctx *kong.Context, cli *NetworkCLI) error {
	s, err := cli.session(rc)
	if err != nil {
		return err
	}
	return s.send(rc, strings.ToUpper(kctx.Selected().Name), c.URL, c.Data)
}

type netDownloadCmd struct {
	URL  string `arg:"" help:"URL to fetch."`
	Path string `arg:"" help:"Destination file."`
}

func (c *netDownloadCmd) Run(rc *RunContext, cli *NetworkCLI) error {
	s, err := cli.session(rc)
	if err != nil {
		return err
	}
	data, err := s.client.Download(rc.Ctx, c.URL)
	if err != nil {
		return err
	}
	if err := rc.FS.WriteBytes(c.Path, data); err != nil {
		return err
	}
	rc.printf("File downloaded: %s\n", c.Path)
	return nil
}

type netStatusCmd struct {
	URL string `arg:"" help:"URL to probe."`
}

func (c *netStatusCmd) Run(rc *RunContext, cli *NetworkCLI) error {
	s, err := cli.session(rc)
	if err != nil {
		return err
	}
	report, err := s.client.Status(rc.Ctx, c.URL)
	if err != nil {
		return err
	}
	rc.printf("URL: %s\n", report.URL)
	rc.printf("Status: %d %s\n", report.StatusCode, report.StatusText)
	rc.printf("Content-Type: %s\n", report.ContentType)
	rc.printf("Content-Length: %s\n", report.ContentLength)
	return nil
}
