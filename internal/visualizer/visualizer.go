// Package visualizer renders scatter-plot previews of generated datasets.
//
// Plotting is an injected capability: callers hold a Plotter and hand it to
// Render, which never reports failure. Building with -tags noplot removes the
// plotting libraries and makes New return Noop.
package visualizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/monitoring"
)

// Plotter draws a dataset somewhere.
type Plotter interface {
	Plot(ds *cluster.Dataset) error
}

// Noop is the Plotter used when plotting is disabled or unavailable.
type Noop struct{}

func (Noop) Plot(*cluster.Dataset) error { return nil }

// Render runs p on ds and reports whether a plot was produced. Errors and
// panics from the plotter are logged and swallowed.
func Render(p Plotter, ds *cluster.Dataset) (ok bool) {
	if p == nil {
		return false
	}
	if _, isNoop := p.(Noop); isNoop {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			monitoring.Logf("plot skipped: plotter panicked: %v", r)
			ok = false
		}
	}()
	if err := p.Plot(ds); err != nil {
		monitoring.Logf("plot skipped: %v", err)
		return false
	}
	return true
}

// Title is the chart title for a dataset.
func Title(ds *cluster.Dataset) string {
	return fmt.Sprintf("k=%d random clusters", len(ds.Clusters))
}

// kindFor maps an output path to a renderer name by extension.
func kindFor(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf", "jpg", "jpeg", "eps", "tif", "tiff":
		return "image", nil
	case "html", "htm":
		return "html", nil
	default:
		return "", fmt.Errorf("unsupported plot output %q (use .png, .svg, .pdf or .html)", path)
	}
}
