package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/clustergen/internal/catalog"
	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/config"
	"github.com/banshee-data/clustergen/internal/export"
	"github.com/banshee-data/clustergen/internal/monitoring"
	"github.com/banshee-data/clustergen/internal/security"
	"github.com/banshee-data/clustergen/internal/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // output or catalog failure
	exitUsage   = 2 // invalid parameters
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the raw flag values. Only flags the user actually set are
// copied into a GenConfig, so a config file keeps its values otherwise.
type options struct {
	configPath string
	quiet      bool
	showVer    bool

	clusters   int
	points     int
	maxPoints  int
	stdDev     float64
	maxStdDev  float64
	bounds     string
	seed       int64
	integer    bool
	output     string
	centroids  string
	format     string
	labels     bool
	header     bool
	precision  int
	plot       bool
	plotOutput string
	db         string
	name       string
}

func newFlagSet(o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("clustergen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "Path to a JSON or YAML config file; flags override its values")
	fs.BoolVar(&o.quiet, "quiet", false, "Suppress the parameter report and log output")
	fs.BoolVar(&o.showVer, "version", false, "Print version and exit")

	fs.IntVar(&o.clusters, "clusters", config.DefaultClusters, "Number of clusters (k)")
	fs.IntVar(&o.clusters, "num-clusters", config.DefaultClusters, "Alias for --clusters")
	fs.IntVar(&o.points, "points", config.DefaultPoints, "Points per cluster (minimum when --max-points is set)")
	fs.IntVar(&o.points, "min-points", config.DefaultPoints, "Alias for --points")
	fs.IntVar(&o.maxPoints, "max-points", 0, "Maximum points per cluster; 0 gives every cluster --points")
	fs.Float64Var(&o.stdDev, "std-dev", config.DefaultStdDev, "Standard deviation of each cluster (minimum when --max-std-dev is set)")
	fs.Float64Var(&o.stdDev, "min-sigma", config.DefaultStdDev, "Alias for --std-dev")
	fs.Float64Var(&o.maxStdDev, "max-std-dev", 0, "Maximum standard deviation; 0 uses --std-dev for every cluster")
	fs.Float64Var(&o.maxStdDev, "max-sigma", 0, "Alias for --max-std-dev")
	fs.StringVar(&o.bounds, "bounds", config.DefaultBounds, "Centre bounds as xmin,ymin,xmax,ymax")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed; omitted means time-derived (and reported)")
	fs.BoolVar(&o.integer, "integer", false, "Truncate coordinates to whole numbers")

	fs.StringVar(&o.output, "output", config.DefaultOutput, "Point output file")
	fs.StringVar(&o.output, "points-file", config.DefaultOutput, "Alias for --output")
	fs.StringVar(&o.centroids, "centroids", "", "Centroid output file (not written when empty)")
	fs.StringVar(&o.centroids, "centroids-file", "", "Alias for --centroids")
	fs.StringVar(&o.format, "format", config.DefaultFormat, "Column separator: "+export.GetValidFormatsString())
	fs.BoolVar(&o.labels, "labels", false, "Append the cluster index as a third column")
	fs.BoolVar(&o.header, "header", false, "Write a column header line")
	fs.IntVar(&o.precision, "precision", config.DefaultPrecision, "Decimal places; negative means shortest round-trip form")

	fs.BoolVar(&o.plot, "plot", false, "Render a scatter plot of the dataset")
	fs.StringVar(&o.plotOutput, "plot-output", config.DefaultPlotOutput, "Plot file (.png, .svg, .pdf or .html)")

	fs.StringVar(&o.db, "db", "", "Record the run in this SQLite catalog")
	fs.StringVar(&o.name, "name", "", "Human-readable run name")
	return fs
}

// overrides returns a GenConfig holding only the flags set on the command line.
func (o *options) overrides(fs *flag.FlagSet) *config.GenConfig {
	c := config.EmptyGenConfig()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "clusters", "num-clusters":
			c.Clusters = config.PtrInt(o.clusters)
		case "points", "min-points":
			c.Points = config.PtrInt(o.points)
		case "max-points":
			c.MaxPoints = config.PtrInt(o.maxPoints)
		case "std-dev", "min-sigma":
			c.StdDev = config.PtrFloat64(o.stdDev)
		case "max-std-dev", "max-sigma":
			c.MaxStdDev = config.PtrFloat64(o.maxStdDev)
		case "bounds":
			c.Bounds = config.PtrString(o.bounds)
		case "seed":
			c.Seed = config.PtrInt64(o.seed)
		case "integer":
			c.Integer = config.PtrBool(o.integer)
		case "output", "points-file":
			c.Output = config.PtrString(o.output)
		case "centroids", "centroids-file":
			c.Centroids = config.PtrString(o.centroids)
		case "format":
			c.Format = config.PtrString(o.format)
		case "labels":
			c.Labels = config.PtrBool(o.labels)
		case "header":
			c.Header = config.PtrBool(o.header)
		case "precision":
			c.Precision = config.PtrInt(o.precision)
		case "plot":
			c.Plot = config.PtrBool(o.plot)
		case "plot-output":
			c.PlotOutput = config.PtrString(o.plotOutput)
		case "db":
			c.DB = config.PtrString(o.db)
		case "name":
			c.Name = config.PtrString(o.name)
		}
	})
	return c
}

func run(args []string, stdout, stderr io.Writer) int {
	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return exitUsage
	}

	if o.showVer {
		fmt.Fprintf(stdout, "clustergen %s\n", version.String())
		return exitOK
	}

	logger := log.New(stderr, "", log.LstdFlags)
	if o.quiet {
		monitoring.SetLogger(func(string, ...interface{}) {})
	} else {
		monitoring.SetLogger(logger.Printf)
	}
	defer monitoring.SetLogger(nil)

	cfg := config.EmptyGenConfig()
	if o.configPath != "" {
		loaded, err := config.LoadGenConfig(o.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		cfg = loaded
	}
	cfg.Overlay(o.overrides(fs))

	// A named run without an explicit plot path gets a plot file named after it.
	if cfg.PlotOutput == nil && cfg.GetName() != "" {
		cfg.PlotOutput = config.PtrString(security.SanitizeFilename(cfg.GetName()) + ".png")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	params, err := cfg.Params()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	res, err := generate(context.Background(), cfg, params)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}

	if !o.quiet {
		writeReport(stdout, cfg, params, res)
	}
	return exitOK
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, cluster.ErrInvalidParameter) {
		return exitUsage
	}
	return exitFailure
}

// result is what one run produced.
type result struct {
	Dataset *cluster.Dataset
	Outputs catalog.Outputs
	RunID   string
}

// generate samples the dataset, writes its files, renders the optional plot
// and records the run when a catalog is configured.
func generate(ctx context.Context, cfg *config.GenConfig, params cluster.Params) (*result, error) {
	ds, err := cluster.Generate(params)
	if err != nil {
		return nil, err
	}
	res := &result{Dataset: ds}

	w := cfg.Writer()
	if err := w.WritePoints(ds, cfg.GetOutput()); err != nil {
		return nil, err
	}
	res.Outputs.Points = cfg.GetOutput()
	monitoring.Logf("wrote %d points to %s", ds.Len(), cfg.GetOutput())

	if path := cfg.GetCentroids(); path != "" {
		if err := w.WriteCentroids(ds, path); err != nil {
			return nil, err
		}
		res.Outputs.Centroids = path
		monitoring.Logf("wrote %d centroids to %s", len(ds.Clusters), path)
	}

	if cfg.GetPlot() && plot(cfg.GetPlotOutput(), ds) {
		res.Outputs.Plot = cfg.GetPlotOutput()
	}

	if path := cfg.GetDB(); path != "" {
		id, err := record(ctx, path, cfg.GetName(), params, ds, res.Outputs)
		if err != nil {
			return nil, err
		}
		res.RunID = id
	}
	return res, nil
}

func record(ctx context.Context, path, name string, params cluster.Params, ds *cluster.Dataset, out catalog.Outputs) (string, error) {
	cat, err := catalog.Open(path)
	if err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}
	defer cat.Close()

	r := catalog.NewRun(name, params, ds, out)
	if err := cat.Record(ctx, r); err != nil {
		return "", fmt.Errorf("catalog %s: %w", path, err)
	}
	monitoring.Logf("recorded run %s in %s", r.ID, path)
	return r.ID, nil
}
