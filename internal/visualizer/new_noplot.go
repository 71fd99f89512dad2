//go:build noplot
// +build noplot

package visualizer

import "github.com/banshee-data/clustergen/internal/fsutil"

// Available reports whether plotting support is compiled in.
// Build without -tags=noplot to enable PNG and HTML output.
func Available() bool { return false }

// New is a stub when plotting is disabled; it always returns Noop so
// generation and writing carry on unaffected.
func New(path string, fsys fsutil.FileSystem) (Plotter, error) {
	return Noop{}, nil
}
