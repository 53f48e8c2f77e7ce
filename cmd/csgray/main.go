// Command csgray renders CSG scenes, traces single pixels, exports meshes
// and serves renders over HTTP.
//
//	csgray render [-scene name | -file scene.csg] [-o out.png]
//	csgray trace -scene name [-x px -y py] [-hitlog hits.jsonl.sz]
//	csgray mesh -file scene.csg [-o out.stl]
//	csgray serve [-addr :8080]
//	csgray scenes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: csgray <command> [flags]

commands:
  render   render a scene to PNG
  trace    list every crossing of the rays through pixels
  mesh     tessellate a scene file to binary STL
  serve    serve renders over HTTP and websocket
  scenes   list the available scenes
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		log.Printf("csgray: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		return renderCmd(ctx, rest, stdout, stderr)
	case "trace":
		return traceCmd(rest, stdout, stderr)
	case "mesh":
		return meshCmd(rest, stdout, stderr)
	case "serve":
		return serveCmd(ctx, rest, stderr)
	case "scenes":
		return scenesCmd(stdout)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprintf(stderr, "unknown command %q\n%s", cmd, usage)
	return errUsage
}
