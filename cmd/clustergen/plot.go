package main

import (
	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/monitoring"
	"github.com/banshee-data/clustergen/internal/visualizer"
)

// plot renders ds to path and reports whether a file was written. Plotting
// problems are logged; they never fail the run.
func plot(path string, ds *cluster.Dataset) bool {
	if !visualizer.Available() {
		monitoring.Logf("plot skipped: built without plotting support")
		return false
	}
	p, err := visualizer.New(path, nil)
	if err != nil {
		monitoring.Logf("plot skipped: %v", err)
		return false
	}
	if !visualizer.Render(p, ds) {
		return false
	}
	monitoring.Logf("wrote plot to %s", path)
	return true
}
