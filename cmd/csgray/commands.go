package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chazu/csgray/pkg/config"
	"github.com/chazu/csgray/pkg/engine"
	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/hitlog"
	"github.com/chazu/csgray/pkg/kernel"
	"github.com/chazu/csgray/pkg/kernel/sdfx"
	"github.com/chazu/csgray/pkg/raytrace"
	"github.com/chazu/csgray/pkg/scenes"
	"github.com/chazu/csgray/pkg/server"
	"github.com/chazu/csgray/pkg/tessellate"
)

// renderFlags are shared by every command that produces an image.
type renderFlags struct {
	config   string
	width    int
	height   int
	tileSize int
	workers  int
	fov      float64
	bg       string
}

func (f *renderFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "JSON config file")
	fs.IntVar(&f.width, "width", config.DefaultWidth, "image width in pixels")
	fs.IntVar(&f.height, "height", config.DefaultHeight, "image height in pixels")
	fs.IntVar(&f.tileSize, "tile", config.DefaultTileSize, "tile edge length in pixels")
	fs.IntVar(&f.workers, "workers", 0, "render workers, 0 for one per CPU")
	fs.Float64Var(&f.fov, "fov", 0, "vertical field of view in degrees, overrides the scene")
	fs.StringVar(&f.bg, "background", "", "background color, overrides the scene")
}

// load reads the config file and environment, then applies only the flags
// given on the command line.
func (f *renderFlags) load(fs *flag.FlagSet) (config.Render, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return cfg, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "width":
			cfg.Width = f.width
		case "height":
			cfg.Height = f.height
		case "tile":
			cfg.TileSize = f.tileSize
		case "workers":
			cfg.Workers = f.workers
		case "fov":
			cfg.FOV = f.fov
		case "background":
			cfg.Background = f.bg
		case "o":
			cfg.Output = fs.Lookup("o").Value.String()
		case "addr":
			cfg.Addr = fs.Lookup("addr").Value.String()
		}
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// sceneFlags select a scene by name or from a DSL file.
type sceneFlags struct {
	name string
	file string
}

func (f *sceneFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "scene", "", "scene name, see 'csgray scenes'")
	fs.StringVar(&f.file, "file", "", "scene DSL file")
}

func (f *sceneFlags) source() (string, error) {
	switch {
	case f.name != "" && f.file != "":
		return "", errors.New("-scene and -file are mutually exclusive")
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case f.name != "":
		src, ok := scenes.Source(f.name)
		if !ok {
			return "", fmt.Errorf("scene %q has no DSL source", f.name)
		}
		return src, nil
	}
	return "", errors.New("one of -scene or -file is required")
}

func (f *sceneFlags) load() (*scenes.Scene, error) {
	if f.name != "" && f.file == "" {
		return scenes.Load(f.name)
	}
	src, err := f.source()
	if err != nil {
		return nil, err
	}
	s, evalErrs, err := scenes.FromSource(src)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, evalErrors(f.file, evalErrs)
	}
	s.Name = f.file
	return s, nil
}

func evalErrors(file string, errs []engine.EvalError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s:\n  %s", file, strings.Join(msgs, "\n  "))
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// newRenderer wires a loaded scene and config into a renderer.
func newRenderer(s *scenes.Scene, cfg config.Render, logger raytrace.Logger) (*raytrace.Renderer, error) {
	rs, err := s.Build()
	if err != nil {
		return nil, err
	}
	bg := s.Background
	if cfg.Background != "" {
		if bg, err = graph.ParseColor(cfg.Background); err != nil {
			return nil, err
		}
	}
	return &raytrace.Renderer{
		Scene:      rs,
		Camera:     s.RayCamera(float64(cfg.Width)/float64(cfg.Height), cfg.FOV),
		Width:      cfg.Width,
		Height:     cfg.Height,
		TileSize:   cfg.TileSize,
		Workers:    cfg.Workers,
		Background: bg,
		Logger:     logger,
	}, nil
}

func renderCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("render", stderr)
	var rf renderFlags
	var sf sceneFlags
	rf.register(fs)
	sf.register(fs)
	fs.String("o", config.DefaultOutput, "output PNG path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := rf.load(fs)
	if err != nil {
		return err
	}
	s, err := sf.load()
	if err != nil {
		return err
	}
	logger := log.New(stderr, "", log.LstdFlags)
	r, err := newRenderer(s, cfg, logger)
	if err != nil {
		return err
	}
	img, err := r.Render(ctx)
	if err != nil {
		return err
	}
	if err := raytrace.SavePNG(cfg.Output, img); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", cfg.Output, cfg.Width, cfg.Height)
	return nil
}

func traceCmd(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("trace", stderr)
	var rf renderFlags
	var sf sceneFlags
	rf.register(fs)
	sf.register(fs)
	px := fs.Int("x", -1, "pixel column, -1 traces every pixel")
	py := fs.Int("y", -1, "pixel row, -1 traces every pixel")
	logPath := fs.String("hitlog", "", "write hit records to this file")
	comp := fs.String("compression", "", "hit log framing: none, snappy or zstd (default from the file extension or config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := rf.load(fs)
	if err != nil {
		return err
	}
	s, err := sf.load()
	if err != nil {
		return err
	}
	r, err := newRenderer(s, cfg, nil)
	if err != nil {
		return err
	}

	single := *px >= 0 && *py >= 0
	if !single && *logPath == "" {
		return errors.New("tracing every pixel needs -hitlog")
	}
	if single && (*px >= cfg.Width || *py >= cfg.Height) {
		return fmt.Errorf("pixel (%d, %d) outside %dx%d image", *px, *py, cfg.Width, cfg.Height)
	}

	var hl *hitlog.Writer
	if *logPath != "" {
		c := cfg.HitLog
		if ext := hitlog.CompressionForPath(*logPath); ext != hitlog.None {
			c = ext
		}
		if *comp != "" {
			if c, err = hitlog.ParseCompression(*comp); err != nil {
				return err
			}
		}
		f, err := os.Create(*logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if hl, err = hitlog.NewWriter(f, c); err != nil {
			return err
		}
	}

	emit := func(x, y int) error {
		rec := tracePixel(r, x, y)
		if hl != nil {
			if err := hl.Append(rec); err != nil {
				return err
			}
		}
		if single {
			printRecord(stdout, rec)
		}
		return nil
	}

	if single {
		err = emit(*px, *py)
	} else {
		for y := 0; y < cfg.Height && err == nil; y++ {
			for x := 0; x < cfg.Width && err == nil; x++ {
				err = emit(x, y)
			}
		}
	}
	if err != nil {
		return err
	}
	if hl != nil {
		if err := hl.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %d records to %s\n", hl.Count(), *logPath)
	}
	return nil
}

// tracePixel collects every crossing of the ray through the pixel center.
func tracePixel(r *raytrace.Renderer, x, y int) hitlog.Record {
	ray := r.Camera.Ray(float64(x)+0.5, float64(y)+0.5, r.Width, r.Height)
	rec := hitlog.Record{PX: x, PY: y, Origin: ray.Origin, Dir: ray.Direction, Hits: []hitlog.Hit{}}
	r.Scene.Trace(ray, raytrace.Handler{
		AnyHit: func(is raytrace.Intersection) bool {
			rec.Hits = append(rec.Hits, hitlog.Hit{Instance: is.Instance.Name, T: is.T, P: is.Position})
			return true
		},
	})
	return rec
}

func printRecord(w io.Writer, rec hitlog.Record) {
	fmt.Fprintf(w, "pixel (%d, %d) origin %.4g dir %.4g\n", rec.PX, rec.PY, rec.Origin, rec.Dir)
	if len(rec.Hits) == 0 {
		fmt.Fprintln(w, "  no hits")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  instance\tt\tposition")
	for _, h := range rec.Hits {
		fmt.Fprintf(tw, "  %s\t%.6g\t%.4g\n", h.Instance, h.T, h.P)
	}
	tw.Flush()
}

func meshCmd(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("mesh", stderr)
	var sf sceneFlags
	sf.register(fs)
	out := fs.String("o", "out.stl", "output STL path")
	cells := fs.Int("cells", sdfx.DefaultMeshCells, "marching cubes cells along the longest axis")
	extent := fs.Float64("extent", sdfx.DefaultExtent, "half-size of the cube bounding infinite solids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cells <= 0 || *extent <= 0 {
		return errors.New("-cells and -extent must be positive")
	}
	src, err := sf.source()
	if err != nil {
		return err
	}
	g, evalErrs, err := engine.NewEngine().Evaluate(src)
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		return evalErrors(sf.file+sf.name, evalErrs)
	}

	k := sdfx.New()
	k.Cells, k.Extent = *cells, *extent
	meshes, err := tessellate.Tessellate(g, k)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := kernel.WriteSTL(f, meshes...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	tris := 0
	for _, m := range meshes {
		tris += m.TriangleCount()
	}
	fmt.Fprintf(stdout, "wrote %s (%d parts, %d triangles)\n", *out, len(meshes), tris)
	return nil
}

func serveCmd(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	var rf renderFlags
	rf.register(fs)
	fs.String("addr", config.DefaultAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := rf.load(fs)
	if err != nil {
		return err
	}
	return server.New(cfg, log.New(stderr, "", log.LstdFlags)).ListenAndServe(ctx)
}

func scenesCmd(stdout io.Writer) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, name := range scenes.Names() {
		kind, desc := "go", ""
		if _, ok := scenes.Source(name); ok {
			kind = "dsl"
		} else if s, err := scenes.Load(name); err == nil {
			desc = s.Description
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, kind, desc)
	}
	return tw.Flush()
}
