package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/config"
)

// writeReport prints the command line that reproduces the run, followed by
// each cluster's generating parameters next to its sample statistics.
func writeReport(w io.Writer, cfg *config.GenConfig, params cluster.Params, res *result) {
	ds := res.Dataset
	fmt.Fprintln(w, "Generated clusters using the following parameters:")
	fmt.Fprintf(w, "    %s\n", replayCommand(cfg, params, ds.Seed))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Ground truth (%d clusters, %d points):\n", len(ds.Clusters), ds.Len())
	for _, s := range ds.Summarize() {
		fmt.Fprintf(w, "    cluster %d: centre=(%s, %s) sigma=%s n=%d", s.ID,
			num(s.Center.X), num(s.Center.Y), num(s.StdDev), s.N)
		if s.N > 1 {
			fmt.Fprintf(w, " sample mean=(%s, %s) sample sd=(%s, %s)",
				num(s.SampleMean.X), num(s.SampleMean.Y), num(s.SampleStdDev.X), num(s.SampleStdDev.Y))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Points: %s\n", res.Outputs.Points)
	if res.Outputs.Centroids != "" {
		fmt.Fprintf(w, "Centroids: %s\n", res.Outputs.Centroids)
	}
	if res.Outputs.Plot != "" {
		fmt.Fprintf(w, "Plot: %s\n", res.Outputs.Plot)
	}
	if res.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", res.RunID)
	}
}

// replayCommand renders the sampler flags, with the effective seed, that
// regenerate the same points.
func replayCommand(cfg *config.GenConfig, params cluster.Params, seed int64) string {
	args := []string{
		"clustergen",
		"--clusters=" + strconv.Itoa(params.Clusters),
		"--points=" + strconv.Itoa(params.PointsPerCluster),
	}
	if params.MaxPoints > 0 {
		args = append(args, "--max-points="+strconv.Itoa(params.MaxPoints))
	}
	args = append(args, "--std-dev="+exact(params.StdDev))
	if params.MaxStdDev > 0 {
		args = append(args, "--max-std-dev="+exact(params.MaxStdDev))
	}
	args = append(args,
		"--bounds="+params.Bounds.String(),
		"--seed="+strconv.FormatInt(seed, 10),
	)
	if params.Integer {
		args = append(args, "--integer")
	}
	args = append(args, "--output="+cfg.GetOutput())
	return strings.Join(args, " ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func exact(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
